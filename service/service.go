package service

import (
	"context"
	"time"

	"github.com/Harshan-Nayak/xlist/command"
	"github.com/Harshan-Nayak/xlist/pkg/metrics"
	"github.com/Harshan-Nayak/xlist/pkg/types"
	"github.com/Harshan-Nayak/xlist/query"
	"github.com/Harshan-Nayak/xlist/scope"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-masker"
)

// Service is the entry point for xlist. It wires repositories, hooks, and
// command/query facades supplied by the host application.
type Service struct {
	cfg        Config
	commands   Commands
	queries    Queries
	tracker    *command.ClickTracker
	scopeGuard scope.Guard
}

// Commands exposes the service command handlers.
type Commands struct {
	ProfileCreate *command.ProfileCreateCommand
	ProfileUpdate *command.ProfileUpdateCommand
	ProfileDelete *command.ProfileDeleteCommand
	ClickRecord   *command.ClickRecordCommand
}

// Queries exposes read-model helpers.
type Queries struct {
	ProfileDetail *query.ProfileQuery
	Directory     *query.DirectoryQuery
	OwnerProfiles *query.OwnerProfilesQuery
	ClickHistory  *query.ClickHistoryQuery
	Analytics     *query.AnalyticsQuery
}

// Pinger is satisfied by *bun.DB and *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Config captures all required dependencies so callers can provide their own
// instances (bun-backed or cached repositories, hooks, etc.).
type Config struct {
	ProfileRepository   types.ProfileRepository
	ClickRepository     types.ClickRepository
	Hooks               types.Hooks
	Clock               types.Clock
	Logger              types.Logger
	Location            *time.Location
	StoreTimeout        time.Duration
	ClickTimeout        time.Duration
	FeatureGate         featuregate.FeatureGate
	AuthorizationPolicy types.AuthorizationPolicy
	ScopeGuard          scope.Guard
	Masker              *masker.Masker
	Metrics             metrics.Recorder
	Pinger              Pinger
}

// New constructs a Service from the supplied configuration.
func New(cfg Config) *Service {
	norm := normalizeConfig(cfg)

	scopeGuard := norm.ScopeGuard
	if scopeGuard == nil {
		scopeGuard = scope.NewGuard(norm.AuthorizationPolicy)
	}

	s := &Service{
		cfg:        norm,
		scopeGuard: scopeGuard,
	}
	s.commands = s.buildCommands()
	s.queries = s.buildQueries()
	s.tracker = s.buildTracker()
	return s
}

func normalizeConfig(cfg Config) Config {
	if cfg.Clock == nil {
		cfg.Clock = types.SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = types.NopLogger{}
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = types.DefaultStoreTimeout
	}
	if cfg.ClickTimeout <= 0 {
		cfg.ClickTimeout = types.DefaultClickTimeout
	}
	cfg.Metrics = metrics.Ensure(cfg.Metrics)
	return cfg
}

// Commands returns the command facade.
func (s *Service) Commands() Commands {
	return s.commands
}

// Queries returns the query facade.
func (s *Service) Queries() Queries {
	return s.queries
}

// Tracker returns the background click recorder.
func (s *Service) Tracker() *command.ClickTracker {
	return s.tracker
}

// Ready reports whether the service has the required dependencies wired in.
func (s *Service) Ready() bool {
	return s != nil &&
		s.cfg.ProfileRepository != nil &&
		s.cfg.ClickRepository != nil
}

// HealthCheck surfaces missing configuration and, when a Pinger is
// configured, checks the store is reachable within the store deadline.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s == nil {
		return types.ErrServiceNotReady
	}
	if s.cfg.ProfileRepository == nil {
		return types.ErrMissingProfileRepository
	}
	if s.cfg.ClickRepository == nil {
		return types.ErrMissingClickRepository
	}
	if s.cfg.Pinger == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()
	if err := s.cfg.Pinger.PingContext(ctx); err != nil {
		return types.ReadError(err, "store unreachable")
	}
	return nil
}

func (s *Service) buildCommands() Commands {
	profileCfg := command.ProfileCommandConfig{
		Repository:   s.cfg.ProfileRepository,
		Hooks:        s.cfg.Hooks,
		Clock:        s.cfg.Clock,
		Logger:       s.cfg.Logger,
		ScopeGuard:   s.scopeGuard,
		Metrics:      s.cfg.Metrics,
		StoreTimeout: s.cfg.StoreTimeout,
	}
	return Commands{
		ProfileCreate: command.NewProfileCreateCommand(profileCfg),
		ProfileUpdate: command.NewProfileUpdateCommand(profileCfg),
		ProfileDelete: command.NewProfileDeleteCommand(profileCfg),
		ClickRecord: command.NewClickRecordCommand(command.ClickCommandConfig{
			Repository:   s.cfg.ClickRepository,
			Profiles:     s.cfg.ProfileRepository,
			Hooks:        s.cfg.Hooks,
			Logger:       s.cfg.Logger,
			FeatureGate:  s.cfg.FeatureGate,
			Metrics:      s.cfg.Metrics,
			StoreTimeout: s.cfg.StoreTimeout,
		}),
	}
}

func (s *Service) buildQueries() Queries {
	profileCfg := query.ProfileQueryConfig{
		Repository:   s.cfg.ProfileRepository,
		Metrics:      s.cfg.Metrics,
		StoreTimeout: s.cfg.StoreTimeout,
	}
	clickCfg := query.ClickQueryConfig{
		Profiles:     s.cfg.ProfileRepository,
		Clicks:       s.cfg.ClickRepository,
		ScopeGuard:   s.scopeGuard,
		Clock:        s.cfg.Clock,
		Location:     s.cfg.Location,
		Masker:       s.cfg.Masker,
		Metrics:      s.cfg.Metrics,
		StoreTimeout: s.cfg.StoreTimeout,
	}
	return Queries{
		ProfileDetail: query.NewProfileQuery(profileCfg),
		Directory:     query.NewDirectoryQuery(profileCfg),
		OwnerProfiles: query.NewOwnerProfilesQuery(profileCfg),
		ClickHistory:  query.NewClickHistoryQuery(clickCfg),
		Analytics:     query.NewAnalyticsQuery(clickCfg),
	}
}

func (s *Service) buildTracker() *command.ClickTracker {
	tracker, err := command.NewClickTracker(command.ClickTrackerConfig{
		Command: s.commands.ClickRecord,
		Logger:  s.cfg.Logger,
		Metrics: s.cfg.Metrics,
		Timeout: s.cfg.ClickTimeout,
	})
	if err != nil {
		s.cfg.Logger.Error("xlist: click tracker initialization failed", err)
		return nil
	}
	return tracker
}
