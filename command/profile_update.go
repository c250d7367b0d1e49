package command

import (
	"context"
	"time"

	"github.com/Harshan-Nayak/xlist/pkg/metrics"
	"github.com/Harshan-Nayak/xlist/pkg/types"
	"github.com/Harshan-Nayak/xlist/scope"
	gocommand "github.com/goliatone/go-command"
	"github.com/google/uuid"
)

// ProfileUpdateInput captures a partial profile edit.
type ProfileUpdateInput struct {
	ProfileID uuid.UUID
	Patch     types.ProfilePatch
	Actor     types.ActorRef
	Result    *types.Profile
}

// Type implements gocommand.Message.
func (ProfileUpdateInput) Type() string {
	return "command.profile.update"
}

// Validate implements gocommand.Message.
func (input ProfileUpdateInput) Validate() error {
	switch {
	case input.Actor.Anonymous():
		return ErrActorRequired
	case input.ProfileID == uuid.Nil:
		return ErrProfileIDRequired
	case input.Patch.Empty():
		return ErrEmptyPatch
	}
	if input.Patch.XHandle != nil && types.CleanHandle(*input.Patch.XHandle) == "" {
		return ErrInvalidHandle
	}
	if input.Patch.Category != nil {
		if err := validateCategory(*input.Patch.Category); err != nil {
			return err
		}
	}
	return validateFollowers(input.Patch.FollowersCount)
}

// ProfileUpdateCommand applies owner edits to a profile.
type ProfileUpdateCommand struct {
	repo    types.ProfileRepository
	hooks   types.Hooks
	clock   types.Clock
	logger  types.Logger
	guard   scope.Guard
	metrics metrics.Recorder
	timeout time.Duration
}

// NewProfileUpdateCommand constructs the update handler.
func NewProfileUpdateCommand(cfg ProfileCommandConfig) *ProfileUpdateCommand {
	return &ProfileUpdateCommand{
		repo:    cfg.Repository,
		hooks:   safeHooks(cfg.Hooks),
		clock:   safeClock(cfg.Clock),
		logger:  safeLogger(cfg.Logger),
		guard:   safeScopeGuard(cfg.ScopeGuard),
		metrics: safeMetrics(cfg.Metrics),
		timeout: safeTimeout(cfg.StoreTimeout),
	}
}

var _ gocommand.Commander[ProfileUpdateInput] = (*ProfileUpdateCommand)(nil)

// Execute loads the profile, checks ownership and merges the patch.
func (c *ProfileUpdateCommand) Execute(ctx context.Context, input ProfileUpdateInput) error {
	if c.repo == nil {
		return types.ErrMissingProfileRepository
	}
	if err := input.Validate(); err != nil {
		return types.ValidationError(err, "invalid profile update")
	}

	current, err := loadProfile(ctx, c.repo, c.timeout, c.metrics, input.ProfileID)
	if err != nil {
		return err
	}
	if err := c.guard.Enforce(ctx, input.Actor, types.PolicyActionProfilesWrite, *current); err != nil {
		return types.WriteError(err, "profile update not allowed")
	}

	var updated *types.Profile
	err = storeCall(ctx, c.timeout, c.metrics, "profiles.update", func(ctx context.Context) error {
		var err error
		updated, err = c.repo.UpdateProfile(ctx, input.ProfileID, input.Patch)
		return err
	})
	if err != nil {
		c.logger.Error("profile update failed", err, "profile_id", input.ProfileID.String())
		return types.WriteError(err, "failed to update profile")
	}

	emitProfileHook(ctx, c.hooks, types.ProfileEvent{
		Action:     types.ProfileActionUpdated,
		ActorID:    input.Actor.ID,
		OccurredAt: now(c.clock),
		Profile:    *updated,
	})
	if input.Result != nil {
		*input.Result = *updated
	}
	return nil
}

type profileGetter interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*types.Profile, error)
}

func loadProfile(ctx context.Context, repo profileGetter, timeout time.Duration, rec metrics.Recorder, id uuid.UUID) (*types.Profile, error) {
	var profile *types.Profile
	err := storeCall(ctx, timeout, rec, "profiles.get", func(ctx context.Context) error {
		var err error
		profile, err = repo.GetProfile(ctx, id)
		return err
	})
	if err != nil {
		return nil, types.ReadError(err, "failed to load profile")
	}
	if profile == nil {
		return nil, types.NotFoundError("profile not found")
	}
	return profile, nil
}
