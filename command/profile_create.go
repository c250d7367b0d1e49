package command

import (
	"context"
	"strings"
	"time"

	"github.com/Harshan-Nayak/xlist/pkg/metrics"
	"github.com/Harshan-Nayak/xlist/pkg/types"
	"github.com/Harshan-Nayak/xlist/scope"
	gocommand "github.com/goliatone/go-command"
)

// ProfileCommandConfig wires dependencies for profile commands.
type ProfileCommandConfig struct {
	Repository   types.ProfileRepository
	Hooks        types.Hooks
	Clock        types.Clock
	Logger       types.Logger
	ScopeGuard   scope.Guard
	Metrics      metrics.Recorder
	StoreTimeout time.Duration
}

// ProfileCreateInput publishes the actor's directory profile.
type ProfileCreateInput struct {
	Draft  types.ProfileDraft
	Actor  types.ActorRef
	Result *types.Profile
}

// Type implements gocommand.Message.
func (ProfileCreateInput) Type() string {
	return "command.profile.create"
}

// Validate implements gocommand.Message.
func (input ProfileCreateInput) Validate() error {
	if input.Actor.Anonymous() {
		return ErrActorRequired
	}
	draft := input.Draft
	draft.UserID = input.Actor.ID
	if err := validateHandle(draft.XHandle); err != nil {
		return err
	}
	if !draft.Complete() {
		return types.ErrProfileDraftIncomplete
	}
	if err := validateCategory(draft.Category); err != nil {
		return err
	}
	return validateFollowers(draft.FollowersCount)
}

// ProfileCreateCommand stores a new profile owned by the actor.
type ProfileCreateCommand struct {
	repo    types.ProfileRepository
	hooks   types.Hooks
	clock   types.Clock
	logger  types.Logger
	metrics metrics.Recorder
	timeout time.Duration
}

// NewProfileCreateCommand constructs the create handler.
func NewProfileCreateCommand(cfg ProfileCommandConfig) *ProfileCreateCommand {
	return &ProfileCreateCommand{
		repo:    cfg.Repository,
		hooks:   safeHooks(cfg.Hooks),
		clock:   safeClock(cfg.Clock),
		logger:  safeLogger(cfg.Logger),
		metrics: safeMetrics(cfg.Metrics),
		timeout: safeTimeout(cfg.StoreTimeout),
	}
}

var _ gocommand.Commander[ProfileCreateInput] = (*ProfileCreateCommand)(nil)

// Execute validates the draft, rejects a second profile for the same owner
// and persists the new profile.
func (c *ProfileCreateCommand) Execute(ctx context.Context, input ProfileCreateInput) error {
	if c.repo == nil {
		return types.ErrMissingProfileRepository
	}
	if err := input.Validate(); err != nil {
		return types.ValidationError(err, "invalid profile")
	}

	draft := input.Draft
	draft.UserID = strings.TrimSpace(input.Actor.ID)
	draft.Category = strings.TrimSpace(draft.Category)

	var existing []types.Profile
	err := storeCall(ctx, c.timeout, c.metrics, "profiles.list_by_owner", func(ctx context.Context) error {
		var err error
		existing, err = c.repo.ListByOwner(ctx, draft.UserID)
		return err
	})
	if err != nil {
		return types.ReadError(err, "failed to check existing profile")
	}
	if len(existing) > 0 {
		return types.WriteError(types.ErrProfileExists, "profile already published")
	}

	var created *types.Profile
	err = storeCall(ctx, c.timeout, c.metrics, "profiles.create", func(ctx context.Context) error {
		var err error
		created, err = c.repo.CreateProfile(ctx, draft)
		return err
	})
	if err != nil {
		c.logger.Error("profile create failed", err, "user_id", draft.UserID)
		return types.WriteError(err, "failed to create profile")
	}

	c.logger.Info("profile created", "profile_id", created.ID.String(), "user_id", created.UserID)
	emitProfileHook(ctx, c.hooks, types.ProfileEvent{
		Action:     types.ProfileActionCreated,
		ActorID:    input.Actor.ID,
		OccurredAt: now(c.clock),
		Profile:    *created,
	})
	if input.Result != nil {
		*input.Result = *created
	}
	return nil
}
