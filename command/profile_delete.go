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

// ProfileDeleteInput removes a profile from the directory.
type ProfileDeleteInput struct {
	ProfileID uuid.UUID
	Actor     types.ActorRef
}

// Type implements gocommand.Message.
func (ProfileDeleteInput) Type() string {
	return "command.profile.delete"
}

// Validate implements gocommand.Message.
func (input ProfileDeleteInput) Validate() error {
	if input.Actor.Anonymous() {
		return ErrActorRequired
	}
	if input.ProfileID == uuid.Nil {
		return ErrProfileIDRequired
	}
	return nil
}

// ProfileDeleteCommand deletes an owned profile. Recorded clicks are kept.
type ProfileDeleteCommand struct {
	repo    types.ProfileRepository
	hooks   types.Hooks
	clock   types.Clock
	logger  types.Logger
	guard   scope.Guard
	metrics metrics.Recorder
	timeout time.Duration
}

// NewProfileDeleteCommand constructs the delete handler.
func NewProfileDeleteCommand(cfg ProfileCommandConfig) *ProfileDeleteCommand {
	return &ProfileDeleteCommand{
		repo:    cfg.Repository,
		hooks:   safeHooks(cfg.Hooks),
		clock:   safeClock(cfg.Clock),
		logger:  safeLogger(cfg.Logger),
		guard:   safeScopeGuard(cfg.ScopeGuard),
		metrics: safeMetrics(cfg.Metrics),
		timeout: safeTimeout(cfg.StoreTimeout),
	}
}

var _ gocommand.Commander[ProfileDeleteInput] = (*ProfileDeleteCommand)(nil)

// Execute removes the profile after checking ownership.
func (c *ProfileDeleteCommand) Execute(ctx context.Context, input ProfileDeleteInput) error {
	if c.repo == nil {
		return types.ErrMissingProfileRepository
	}
	if err := input.Validate(); err != nil {
		return types.ValidationError(err, "invalid profile delete")
	}

	current, err := loadProfile(ctx, c.repo, c.timeout, c.metrics, input.ProfileID)
	if err != nil {
		return err
	}
	if err := c.guard.Enforce(ctx, input.Actor, types.PolicyActionProfilesWrite, *current); err != nil {
		return types.WriteError(err, "profile delete not allowed")
	}

	err = storeCall(ctx, c.timeout, c.metrics, "profiles.delete", func(ctx context.Context) error {
		return c.repo.DeleteProfile(ctx, input.ProfileID)
	})
	if err != nil {
		c.logger.Error("profile delete failed", err, "profile_id", input.ProfileID.String())
		return types.WriteError(err, "failed to delete profile")
	}

	c.logger.Info("profile deleted", "profile_id", input.ProfileID.String())
	emitProfileHook(ctx, c.hooks, types.ProfileEvent{
		Action:     types.ProfileActionDeleted,
		ActorID:    input.Actor.ID,
		OccurredAt: now(c.clock),
		Profile:    *current,
	})
	return nil
}
