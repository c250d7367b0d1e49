package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/Harshan-Nayak/xlist/clicks"
	"github.com/Harshan-Nayak/xlist/command"
	"github.com/Harshan-Nayak/xlist/migrations"
	"github.com/Harshan-Nayak/xlist/pkg/metrics"
	"github.com/Harshan-Nayak/xlist/pkg/types"
	"github.com/Harshan-Nayak/xlist/profile"
	"github.com/Harshan-Nayak/xlist/query"
	"github.com/Harshan-Nayak/xlist/service"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

type movingClock struct {
	at time.Time
}

func (c *movingClock) Now() time.Time { return c.at }

func TestService_PublishClickAndAnalytics(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	clock := &movingClock{at: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)}
	rec := metrics.New()

	profiles, err := profile.NewRepository(profile.RepositoryConfig{DB: db, Clock: clock})
	require.NoError(t, err)
	clickRepo, err := clicks.NewRepository(clicks.RepositoryConfig{DB: db, Clock: clock})
	require.NoError(t, err)

	var changes []types.ProfileAction
	svc := service.New(service.Config{
		ProfileRepository: profiles,
		ClickRepository:   clickRepo,
		Clock:             clock,
		Metrics:           rec,
		Pinger:            db,
		Hooks: types.Hooks{
			AfterProfileChange: func(_ context.Context, event types.ProfileEvent) {
				changes = append(changes, event.Action)
			},
		},
	})
	require.True(t, svc.Ready())
	require.NoError(t, svc.HealthCheck(ctx))

	owner := types.ActorRef{ID: "owner-1"}
	created := &types.Profile{}
	require.NoError(t, svc.Commands().ProfileCreate.Execute(ctx, command.ProfileCreateInput{
		Draft:  types.ProfileDraft{XHandle: "johndoe", Username: "John", Category: "Developer"},
		Actor:  owner,
		Result: created,
	}))
	require.Equal(t, "@johndoe", created.XHandle)

	err = svc.Commands().ProfileCreate.Execute(ctx, command.ProfileCreateInput{
		Draft: types.ProfileDraft{XHandle: "again", Username: "John", Category: "Developer"},
		Actor: owner,
	})
	require.True(t, types.HasTextCode(err, types.TextCodeProfileExists))

	listing, err := svc.Queries().Directory.Query(ctx, query.DirectoryQueryInput{Search: "john"})
	require.NoError(t, err)
	require.Len(t, listing, 1)

	day := 24 * time.Hour
	now := clock.at
	for _, offset := range []time.Duration{-day, -10 * day, -40 * day} {
		clock.at = now.Add(offset)
		require.NoError(t, svc.Commands().ClickRecord.Execute(ctx, command.ClickRecordInput{
			ProfileID: created.ID,
			IPAddress: "203.0.113.9",
		}))
	}
	clock.at = now

	tracker := svc.Tracker()
	require.NotNil(t, tracker)
	tracker.Track(ctx, command.ClickRecordInput{ProfileID: created.ID})
	waitCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, tracker.Wait(waitCtx))

	snap, err := svc.Queries().Analytics.Query(ctx, query.AnalyticsInput{ProfileID: created.ID, Actor: owner})
	require.NoError(t, err)
	require.Equal(t, 4, snap.TotalClicks)
	require.Equal(t, 1, snap.TodayClicks)
	require.Equal(t, 2, snap.WeeklyClicks)
	require.Equal(t, 3, snap.MonthlyClicks)
	series, err := testutil.GatherAndCount(rec.Registry(), "xlist_click_recordings_total")
	require.NoError(t, err)
	require.Equal(t, 1, series, "only the recorded outcome was observed")

	history, err := svc.Queries().ClickHistory.Query(ctx, query.ClickHistoryInput{ProfileID: created.ID, Actor: owner})
	require.NoError(t, err)
	require.Len(t, history, 4)
	for _, event := range history {
		require.NotEqual(t, "203.0.113.9", event.IPAddress)
	}

	_, err = svc.Queries().Analytics.Query(ctx, query.AnalyticsInput{ProfileID: created.ID, Actor: types.ActorRef{ID: "stranger"}})
	require.True(t, types.HasTextCode(err, types.TextCodeNotOwner))

	require.NoError(t, svc.Commands().ProfileDelete.Execute(ctx, command.ProfileDeleteInput{ProfileID: created.ID, Actor: owner}))
	orphaned, err := clickRepo.CountClicks(ctx, types.ClickFilter{ProfileID: created.ID})
	require.NoError(t, err)
	require.Equal(t, 4, orphaned, "clicks outlive their profile")

	require.Equal(t, []types.ProfileAction{types.ProfileActionCreated, types.ProfileActionDeleted}, changes)
}

func TestService_HealthCheckReportsMissingDependencies(t *testing.T) {
	ctx := context.Background()

	err := service.New(service.Config{}).HealthCheck(ctx)
	require.ErrorIs(t, err, types.ErrMissingProfileRepository)

	db := newTestDB(t)
	profiles, err := profile.NewRepository(profile.RepositoryConfig{DB: db})
	require.NoError(t, err)
	svc := service.New(service.Config{ProfileRepository: profiles})
	require.False(t, svc.Ready())
	require.ErrorIs(t, svc.HealthCheck(ctx), types.ErrMissingClickRepository)
}

func TestService_HealthCheckPingFailure(t *testing.T) {
	db := newTestDB(t)
	profiles, err := profile.NewRepository(profile.RepositoryConfig{DB: db})
	require.NoError(t, err)
	clickRepo, err := clicks.NewRepository(clicks.RepositoryConfig{DB: db})
	require.NoError(t, err)

	svc := service.New(service.Config{
		ProfileRepository: profiles,
		ClickRepository:   clickRepo,
		Pinger:            failingPinger{},
	})
	err = svc.HealthCheck(context.Background())
	require.True(t, types.HasTextCode(err, types.TextCodeReadFailed))
}

type failingPinger struct{}

func (failingPinger) PingContext(context.Context) error { return errors.New("connection refused") }

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open("sqlite3", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
	})
	_, err = migrations.Apply(context.Background(), db)
	require.NoError(t, err)
	return db
}
