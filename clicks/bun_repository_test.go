package clicks_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/Harshan-Nayak/xlist/clicks"
	"github.com/Harshan-Nayak/xlist/migrations"
	"github.com/Harshan-Nayak/xlist/pkg/types"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

type settableClock struct {
	at time.Time
}

func (c *settableClock) Now() time.Time { return c.at }

func TestRepository_RecordAndQueryNewestFirst(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	clock := &settableClock{}
	repo := newTestRepository(t, clock)
	profileID := uuid.New()

	for _, offset := range []time.Duration{-24 * time.Hour, -10 * 24 * time.Hour, -40 * 24 * time.Hour} {
		clock.at = now.Add(offset)
		_, err := repo.RecordClick(ctx, types.ClickRecord{ProfileID: profileID, UserAgent: "test-agent"})
		require.NoError(t, err)
	}

	events, err := repo.QueryClicks(ctx, types.ClickFilter{ProfileID: profileID})
	require.NoError(t, err)
	require.Len(t, events, 3)
	require.True(t, events[0].ClickedAt.Equal(now.Add(-24*time.Hour)))
	require.True(t, events[2].ClickedAt.Equal(now.Add(-40*24*time.Hour)))
	for _, event := range events {
		require.Equal(t, profileID, event.ProfileID)
		require.Equal(t, "test-agent", event.UserAgent)
	}
}

func TestRepository_QueryClosedRange(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	clock := &settableClock{}
	repo := newTestRepository(t, clock)
	profileID := uuid.New()
	other := uuid.New()

	for day := 0; day < 5; day++ {
		clock.at = base.AddDate(0, 0, day)
		_, err := repo.RecordClick(ctx, types.ClickRecord{ProfileID: profileID})
		require.NoError(t, err)
		_, err = repo.RecordClick(ctx, types.ClickRecord{ProfileID: other})
		require.NoError(t, err)
	}

	since := base.AddDate(0, 0, 1)
	until := base.AddDate(0, 0, 3)
	filter := types.ClickFilter{ProfileID: profileID, Since: &since, Until: &until}

	events, err := repo.QueryClicks(ctx, filter)
	require.NoError(t, err)
	require.Len(t, events, 3)
	require.True(t, events[0].ClickedAt.Equal(until))
	require.True(t, events[2].ClickedAt.Equal(since))

	count, err := repo.CountClicks(ctx, filter)
	require.NoError(t, err)
	require.Equal(t, len(events), count)

	onlySince, err := repo.QueryClicks(ctx, types.ClickFilter{ProfileID: profileID, Since: &until})
	require.NoError(t, err)
	require.Len(t, onlySince, 2)

	total, err := repo.CountClicks(ctx, types.ClickFilter{ProfileID: profileID})
	require.NoError(t, err)
	require.Equal(t, 5, total)
}

func TestRepository_OptionalFieldsStoredAsNull(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)
	repo, err := clicks.NewRepository(clicks.RepositoryConfig{DB: db})
	require.NoError(t, err)

	event, err := repo.RecordClick(ctx, types.ClickRecord{ProfileID: uuid.New(), UserAgent: "  "})
	require.NoError(t, err)
	require.Empty(t, event.UserAgent)

	var nulls int
	require.NoError(t, db.NewRaw(
		"SELECT COUNT(*) FROM profile_clicks WHERE user_agent IS NULL AND ip_address IS NULL AND id = ?", event.ID.String(),
	).Scan(ctx, &nulls))
	require.Equal(t, 1, nulls)
}

func TestRepository_RequiresProfileID(t *testing.T) {
	repo := newTestRepository(t, types.SystemClock{})
	ctx := context.Background()

	_, err := repo.RecordClick(ctx, types.ClickRecord{})
	require.ErrorIs(t, err, types.ErrProfileIDRequired)
	_, err = repo.QueryClicks(ctx, types.ClickFilter{})
	require.ErrorIs(t, err, types.ErrProfileIDRequired)
	_, err = repo.CountClicks(ctx, types.ClickFilter{})
	require.ErrorIs(t, err, types.ErrProfileIDRequired)
}

func TestRepository_EmptyHistory(t *testing.T) {
	repo := newTestRepository(t, types.SystemClock{})
	events, err := repo.QueryClicks(context.Background(), types.ClickFilter{ProfileID: uuid.New()})
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestSanitizeEventsMasksIPAddress(t *testing.T) {
	events := []types.ClickEvent{
		{ID: uuid.New(), IPAddress: "203.0.113.7", UserAgent: "agent"},
		{ID: uuid.New()},
	}
	out := clicks.SanitizeEvents(nil, events)
	require.Len(t, out, 2)
	require.NotEqual(t, "203.0.113.7", out[0].IPAddress)
	require.Equal(t, "agent", out[0].UserAgent)
	require.Empty(t, out[1].IPAddress)
	require.Equal(t, "203.0.113.7", events[0].IPAddress)
}

func newTestRepository(t *testing.T, clock types.Clock) *clicks.Repository {
	t.Helper()
	db := newTestDB(t)
	applyDDL(t, db)
	repo, err := clicks.NewRepository(clicks.RepositoryConfig{DB: db, Clock: clock})
	require.NoError(t, err)
	return repo
}

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open("sqlite3", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func applyDDL(t *testing.T, db *bun.DB) {
	t.Helper()
	_, err := migrations.Apply(context.Background(), db)
	require.NoError(t, err)
}
