package command

import (
	"context"
	"time"

	"github.com/Harshan-Nayak/xlist/pkg/metrics"
	"github.com/Harshan-Nayak/xlist/pkg/types"
	gocommand "github.com/goliatone/go-command"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/google/uuid"
)

// ClickCommandConfig wires dependencies for click recording.
type ClickCommandConfig struct {
	Repository   types.ClickSink
	Profiles     profileGetter
	Hooks        types.Hooks
	Logger       types.Logger
	FeatureGate  featuregate.FeatureGate
	Metrics      metrics.Recorder
	StoreTimeout time.Duration
}

// ClickRecordInput describes one activation of a profile's external link.
// Actor is optional and only scopes the feature gate lookup. VerifyProfile
// makes the command confirm the profile exists before writing, for callers
// that have not loaded it themselves.
type ClickRecordInput struct {
	ProfileID     uuid.UUID
	UserAgent     string
	IPAddress     string
	Actor         types.ActorRef
	VerifyProfile bool
	Result        *types.ClickEvent
}

// Type implements gocommand.Message.
func (ClickRecordInput) Type() string {
	return "command.click.record"
}

// Validate implements gocommand.Message.
func (input ClickRecordInput) Validate() error {
	if input.ProfileID == uuid.Nil {
		return ErrProfileIDRequired
	}
	return nil
}

// ClickRecordCommand appends a click event for a profile.
type ClickRecordCommand struct {
	repo        types.ClickSink
	profiles    profileGetter
	hooks       types.Hooks
	logger      types.Logger
	featureGate featuregate.FeatureGate
	metrics     metrics.Recorder
	timeout     time.Duration
}

// NewClickRecordCommand constructs the click handler.
func NewClickRecordCommand(cfg ClickCommandConfig) *ClickRecordCommand {
	return &ClickRecordCommand{
		repo:        cfg.Repository,
		profiles:    cfg.Profiles,
		hooks:       safeHooks(cfg.Hooks),
		logger:      safeLogger(cfg.Logger),
		featureGate: cfg.FeatureGate,
		metrics:     safeMetrics(cfg.Metrics),
		timeout:     safeTimeout(cfg.StoreTimeout),
	}
}

var _ gocommand.Commander[ClickRecordInput] = (*ClickRecordCommand)(nil)

// Execute records the click unless tracking is switched off.
func (c *ClickRecordCommand) Execute(ctx context.Context, input ClickRecordInput) error {
	if c.repo == nil {
		return types.ErrMissingClickRepository
	}
	if err := input.Validate(); err != nil {
		return types.ValidationError(err, "invalid click")
	}
	if enabled, err := featureEnabled(ctx, c.featureGate, FeatureClickTracking, input.Actor.ID); err != nil {
		return err
	} else if !enabled {
		c.metrics.ClickOutcome(metrics.ClickDisabled)
		return ErrClickTrackingDisabled
	}
	if input.VerifyProfile {
		if c.profiles == nil {
			return types.ErrMissingProfileRepository
		}
		if _, err := loadProfile(ctx, c.profiles, c.timeout, c.metrics, input.ProfileID); err != nil {
			c.metrics.ClickOutcome(metrics.ClickUnknownProfile)
			c.logger.Debug("click dropped for unknown profile", "profile_id", input.ProfileID.String())
			return err
		}
	}

	var event *types.ClickEvent
	err := storeCall(ctx, c.timeout, c.metrics, "clicks.record", func(ctx context.Context) error {
		var err error
		event, err = c.repo.RecordClick(ctx, types.ClickRecord{
			ProfileID: input.ProfileID,
			UserAgent: input.UserAgent,
			IPAddress: input.IPAddress,
		})
		return err
	})
	if err != nil {
		c.metrics.ClickOutcome(metrics.ClickFailed)
		c.logger.Error("click record failed", err, "profile_id", input.ProfileID.String())
		return types.WriteError(err, "failed to record click")
	}

	c.metrics.ClickOutcome(metrics.ClickRecorded)
	c.logger.Debug("click recorded", "profile_id", input.ProfileID.String())
	emitClickHook(ctx, c.hooks, *event)
	if input.Result != nil {
		*input.Result = *event
	}
	return nil
}
