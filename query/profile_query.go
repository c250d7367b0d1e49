package query

import (
	"context"
	"strings"
	"time"

	"github.com/Harshan-Nayak/xlist/directory"
	"github.com/Harshan-Nayak/xlist/pkg/metrics"
	"github.com/Harshan-Nayak/xlist/pkg/types"
	gocommand "github.com/goliatone/go-command"
	"github.com/google/uuid"
)

// ProfileQueryConfig wires the public profile readers.
type ProfileQueryConfig struct {
	Repository   types.ProfileRepository
	Metrics      metrics.Recorder
	StoreTimeout time.Duration
}

// ProfileQueryInput identifies one profile.
type ProfileQueryInput struct {
	ProfileID uuid.UUID
}

// ProfileQuery fetches a single public profile.
type ProfileQuery struct {
	repo    types.ProfileRepository
	metrics metrics.Recorder
	timeout time.Duration
}

// NewProfileQuery constructs the profile query helper.
func NewProfileQuery(cfg ProfileQueryConfig) *ProfileQuery {
	return &ProfileQuery{
		repo:    cfg.Repository,
		metrics: metrics.Ensure(cfg.Metrics),
		timeout: safeTimeout(cfg.StoreTimeout),
	}
}

var _ gocommand.Querier[ProfileQueryInput, *types.Profile] = (*ProfileQuery)(nil)

// Query returns the profile for the supplied identifier.
func (q *ProfileQuery) Query(ctx context.Context, input ProfileQueryInput) (*types.Profile, error) {
	if q.repo == nil {
		return nil, types.ErrMissingProfileRepository
	}
	return getProfile(ctx, q.repo, q.timeout, q.metrics, input.ProfileID)
}

// DirectoryQueryInput filters the public directory. An empty Category or
// "All" selects every profile; Search is matched case-insensitively.
type DirectoryQueryInput struct {
	Category string
	Search   string
}

// Validate rejects categories outside the fixed set.
func (input DirectoryQueryInput) Validate() error {
	if types.SelectsAll(input.Category) || types.ValidCategory(strings.TrimSpace(input.Category)) {
		return nil
	}
	return types.ValidationError(nil, "unknown category")
}

// DirectoryQuery lists profiles in directory order.
type DirectoryQuery struct {
	repo    types.ProfileRepository
	metrics metrics.Recorder
	timeout time.Duration
}

// NewDirectoryQuery constructs the directory listing query.
func NewDirectoryQuery(cfg ProfileQueryConfig) *DirectoryQuery {
	return &DirectoryQuery{
		repo:    cfg.Repository,
		metrics: metrics.Ensure(cfg.Metrics),
		timeout: safeTimeout(cfg.StoreTimeout),
	}
}

var _ gocommand.Querier[DirectoryQueryInput, []types.Profile] = (*DirectoryQuery)(nil)

// Query returns the category listing narrowed by the search text.
func (q *DirectoryQuery) Query(ctx context.Context, input DirectoryQueryInput) ([]types.Profile, error) {
	if q.repo == nil {
		return nil, types.ErrMissingProfileRepository
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	var profiles []types.Profile
	err := readCall(ctx, q.timeout, q.metrics, "profiles.list_by_category", func(ctx context.Context) error {
		var err error
		profiles, err = q.repo.ListByCategory(ctx, input.Category)
		return err
	})
	if err != nil {
		return nil, types.ReadError(err, "failed to list profiles")
	}
	return directory.Search(profiles, input.Search), nil
}

// OwnerProfilesInput scopes the lookup to the actor's own profiles.
type OwnerProfilesInput struct {
	Actor types.ActorRef
}

// OwnerProfilesQuery returns the profiles owned by the actor.
type OwnerProfilesQuery struct {
	repo    types.ProfileRepository
	metrics metrics.Recorder
	timeout time.Duration
}

// NewOwnerProfilesQuery constructs the owner lookup.
func NewOwnerProfilesQuery(cfg ProfileQueryConfig) *OwnerProfilesQuery {
	return &OwnerProfilesQuery{
		repo:    cfg.Repository,
		metrics: metrics.Ensure(cfg.Metrics),
		timeout: safeTimeout(cfg.StoreTimeout),
	}
}

var _ gocommand.Querier[OwnerProfilesInput, []types.Profile] = (*OwnerProfilesQuery)(nil)

// Query lists the actor's profiles, newest first.
func (q *OwnerProfilesQuery) Query(ctx context.Context, input OwnerProfilesInput) ([]types.Profile, error) {
	if q.repo == nil {
		return nil, types.ErrMissingProfileRepository
	}
	if input.Actor.Anonymous() {
		return nil, types.ValidationError(types.ErrActorRequired, "invalid owner lookup")
	}
	var profiles []types.Profile
	err := readCall(ctx, q.timeout, q.metrics, "profiles.list_by_owner", func(ctx context.Context) error {
		var err error
		profiles, err = q.repo.ListByOwner(ctx, input.Actor.ID)
		return err
	})
	if err != nil {
		return nil, types.ReadError(err, "failed to list owner profiles")
	}
	return profiles, nil
}

// First returns the actor's profile, or a not found error when the actor has
// not published one yet.
func (q *OwnerProfilesQuery) First(ctx context.Context, actor types.ActorRef) (*types.Profile, error) {
	profiles, err := q.Query(ctx, OwnerProfilesInput{Actor: actor})
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, types.NotFoundError("no profile published")
	}
	return &profiles[0], nil
}
