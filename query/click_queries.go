package query

import (
	"context"
	"errors"
	"time"

	"github.com/Harshan-Nayak/xlist/analytics"
	"github.com/Harshan-Nayak/xlist/clicks"
	"github.com/Harshan-Nayak/xlist/pkg/metrics"
	"github.com/Harshan-Nayak/xlist/pkg/types"
	"github.com/Harshan-Nayak/xlist/scope"
	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-masker"
	"github.com/google/uuid"
)

var errInvalidRange = errors.New("xlist: since must not be after until")

// ClickQueryConfig wires the owner-only click readers.
type ClickQueryConfig struct {
	Profiles     types.ProfileRepository
	Clicks       types.ClickRepository
	ScopeGuard   scope.Guard
	Clock        types.Clock
	Location     *time.Location
	Masker       *masker.Masker
	Metrics      metrics.Recorder
	StoreTimeout time.Duration
}

// ClickHistoryInput selects one profile's clicks within an optional closed range.
type ClickHistoryInput struct {
	ProfileID uuid.UUID
	Since     *time.Time
	Until     *time.Time
	Actor     types.ActorRef
}

// Validate implements gocommand.Message style validation.
func (input ClickHistoryInput) Validate() error {
	if input.ProfileID == uuid.Nil {
		return types.ErrProfileIDRequired
	}
	if input.Since != nil && input.Until != nil && input.Since.After(*input.Until) {
		return errInvalidRange
	}
	return nil
}

// ClickHistoryQuery returns the raw click events of an owned profile, newest
// first, with caller IPs masked.
type ClickHistoryQuery struct {
	profiles types.ProfileRepository
	clicks   types.ClickRepository
	guard    scope.Guard
	mask     *masker.Masker
	metrics  metrics.Recorder
	timeout  time.Duration
}

// NewClickHistoryQuery constructs the history query.
func NewClickHistoryQuery(cfg ClickQueryConfig) *ClickHistoryQuery {
	mask := cfg.Masker
	if mask == nil {
		mask = clicks.DefaultMasker()
	}
	return &ClickHistoryQuery{
		profiles: cfg.Profiles,
		clicks:   cfg.Clicks,
		guard:    safeScopeGuard(cfg.ScopeGuard),
		mask:     mask,
		metrics:  metrics.Ensure(cfg.Metrics),
		timeout:  safeTimeout(cfg.StoreTimeout),
	}
}

var _ gocommand.Querier[ClickHistoryInput, []types.ClickEvent] = (*ClickHistoryQuery)(nil)

// Query enforces ownership then reads the filtered history.
func (q *ClickHistoryQuery) Query(ctx context.Context, input ClickHistoryInput) ([]types.ClickEvent, error) {
	if q.profiles == nil {
		return nil, types.ErrMissingProfileRepository
	}
	if q.clicks == nil {
		return nil, types.ErrMissingClickRepository
	}
	if err := input.Validate(); err != nil {
		return nil, types.ValidationError(err, "invalid click history request")
	}
	profile, err := getProfile(ctx, q.profiles, q.timeout, q.metrics, input.ProfileID)
	if err != nil {
		return nil, err
	}
	if err := q.guard.Enforce(ctx, input.Actor, types.PolicyActionClicksRead, *profile); err != nil {
		return nil, types.ReadError(err, "click history not allowed")
	}

	var events []types.ClickEvent
	err = readCall(ctx, q.timeout, q.metrics, "clicks.query", func(ctx context.Context) error {
		var err error
		events, err = q.clicks.QueryClicks(ctx, types.ClickFilter{
			ProfileID: input.ProfileID,
			Since:     input.Since,
			Until:     input.Until,
		})
		return err
	})
	if err != nil {
		return nil, types.ReadError(err, "failed to read click history")
	}
	return clicks.SanitizeEvents(q.mask, events), nil
}

// AnalyticsInput identifies the profile whose dashboard is requested.
type AnalyticsInput struct {
	ProfileID uuid.UUID
	Actor     types.ActorRef
}

// AnalyticsQuery recomputes a profile's click analytics on every call.
type AnalyticsQuery struct {
	profiles types.ProfileRepository
	clicks   types.ClickRepository
	guard    scope.Guard
	clock    types.Clock
	location *time.Location
	metrics  metrics.Recorder
	timeout  time.Duration
}

// NewAnalyticsQuery constructs the analytics query. Day boundaries follow
// cfg.Location, defaulting to UTC.
func NewAnalyticsQuery(cfg ClickQueryConfig) *AnalyticsQuery {
	location := cfg.Location
	if location == nil {
		location = time.UTC
	}
	return &AnalyticsQuery{
		profiles: cfg.Profiles,
		clicks:   cfg.Clicks,
		guard:    safeScopeGuard(cfg.ScopeGuard),
		clock:    safeClock(cfg.Clock),
		location: location,
		metrics:  metrics.Ensure(cfg.Metrics),
		timeout:  safeTimeout(cfg.StoreTimeout),
	}
}

var _ gocommand.Querier[AnalyticsInput, types.ProfileAnalytics] = (*AnalyticsQuery)(nil)

// Query reads the full click history once and aggregates it as of now.
func (q *AnalyticsQuery) Query(ctx context.Context, input AnalyticsInput) (types.ProfileAnalytics, error) {
	if q.profiles == nil {
		return types.ProfileAnalytics{}, types.ErrMissingProfileRepository
	}
	if q.clicks == nil {
		return types.ProfileAnalytics{}, types.ErrMissingClickRepository
	}
	profile, err := getProfile(ctx, q.profiles, q.timeout, q.metrics, input.ProfileID)
	if err != nil {
		return types.ProfileAnalytics{}, err
	}
	if err := q.guard.Enforce(ctx, input.Actor, types.PolicyActionAnalyticsRead, *profile); err != nil {
		return types.ProfileAnalytics{}, types.ReadError(err, "analytics not allowed")
	}

	var events []types.ClickEvent
	err = readCall(ctx, q.timeout, q.metrics, "clicks.query", func(ctx context.Context) error {
		var err error
		events, err = q.clicks.QueryClicks(ctx, types.ClickFilter{ProfileID: input.ProfileID})
		return err
	})
	if err != nil {
		return types.ProfileAnalytics{}, types.ReadError(err, "failed to compute analytics")
	}

	snap := analytics.Compute(q.clock.Now().In(q.location), events)
	snap.ProfileID = input.ProfileID
	return snap, nil
}
