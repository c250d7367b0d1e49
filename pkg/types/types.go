package types

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Profile is a published directory entry linking to an external X account.
type Profile struct {
	ID             uuid.UUID
	XHandle        string
	Username       string
	Category       string
	Bio            string
	Location       string
	Website        string
	ProfileImage   string
	FollowersCount *int64
	UserID         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Followers returns the follower count used for ranking; missing counts rank as 0.
func (p Profile) Followers() int64 {
	if p.FollowersCount == nil {
		return 0
	}
	return *p.FollowersCount
}

// ProfileDraft carries the fields accepted on creation. The identifier and
// creation timestamp are assigned by the repository.
type ProfileDraft struct {
	XHandle        string
	Username       string
	Category       string
	Bio            string
	Location       string
	Website        string
	ProfileImage   string
	FollowersCount *int64
	UserID         string
}

// Complete reports whether the required draft fields are present.
func (d ProfileDraft) Complete() bool {
	return CleanHandle(d.XHandle) != "" &&
		strings.TrimSpace(d.Username) != "" &&
		strings.TrimSpace(d.Category) != "" &&
		strings.TrimSpace(d.UserID) != ""
}

// ProfilePatch represents partial updates applied to a profile. Nil fields are
// left untouched; owner, identifier and creation time cannot be patched.
type ProfilePatch struct {
	XHandle        *string
	Username       *string
	Category       *string
	Bio            *string
	Location       *string
	Website        *string
	ProfileImage   *string
	FollowersCount *int64
}

// Empty reports whether the patch carries no field at all.
func (p ProfilePatch) Empty() bool {
	return p.XHandle == nil &&
		p.Username == nil &&
		p.Category == nil &&
		p.Bio == nil &&
		p.Location == nil &&
		p.Website == nil &&
		p.ProfileImage == nil &&
		p.FollowersCount == nil
}

// ClickEvent records one activation of a profile's external link.
type ClickEvent struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	ClickedAt time.Time
	UserAgent string
	IPAddress string
}

// ClickRecord is the input accepted by click sinks.
type ClickRecord struct {
	ProfileID uuid.UUID
	UserAgent string
	IPAddress string
}

// ClickFilter restricts click reads to one profile and an optional closed range.
type ClickFilter struct {
	ProfileID uuid.UUID
	Since     *time.Time
	Until     *time.Time
}

// DailyClicks is one slot of the dense daily histogram.
type DailyClicks struct {
	Date   string
	Day    time.Time
	Clicks int
}

// ProfileAnalytics summarizes one profile's click history as of GeneratedAt.
type ProfileAnalytics struct {
	ProfileID     uuid.UUID
	TotalClicks   int
	TodayClicks   int
	WeeklyClicks  int
	MonthlyClicks int
	DailyClicks   []DailyClicks
	GeneratedAt   time.Time
}

// ActorRef identifies the account performing a command or query. ID is the
// subject of the verified bearer token.
type ActorRef struct {
	ID string
}

// Anonymous reports whether no account is attached to the request.
func (a ActorRef) Anonymous() bool {
	return strings.TrimSpace(a.ID) == ""
}

// ProfileAction names the mutation that produced a ProfileEvent.
type ProfileAction string

const (
	ProfileActionCreated ProfileAction = "created"
	ProfileActionUpdated ProfileAction = "updated"
	ProfileActionDeleted ProfileAction = "deleted"
)

// ProfileEvent signals that a profile mutation occurred.
type ProfileEvent struct {
	Action     ProfileAction
	ActorID    string
	OccurredAt time.Time
	Profile    Profile
}

// Hooks groups optional callbacks invoked after key workflows complete.
type Hooks struct {
	AfterProfileChange func(context.Context, ProfileEvent)
	AfterClick         func(context.Context, ClickEvent)
}

// ProfileRepository is the storage contract for profile records.
type ProfileRepository interface {
	CreateProfile(ctx context.Context, draft ProfileDraft) (*Profile, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)
	ListByCategory(ctx context.Context, category string) ([]Profile, error)
	ListByOwner(ctx context.Context, userID string) ([]Profile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) (*Profile, error)
	DeleteProfile(ctx context.Context, id uuid.UUID) error
}

// ClickSink is the minimal write contract for click events.
type ClickSink interface {
	RecordClick(ctx context.Context, record ClickRecord) (*ClickEvent, error)
}

// ClickRepository exposes the read side of click events on top of the sink.
type ClickRepository interface {
	ClickSink
	QueryClicks(ctx context.Context, filter ClickFilter) ([]ClickEvent, error)
	CountClicks(ctx context.Context, filter ClickFilter) (int, error)
}

// Clock abstracts time retrieval for deterministic testing.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID creation.
type IDGenerator interface {
	UUID() uuid.UUID
}

// Logger captures basic logging hooks used by the service.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Error(msg string, err error, fields ...any)
}

// SystemClock defers to time.Now for production usage.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant.
type FixedClock struct {
	At time.Time
}

// Now implements Clock.
func (c FixedClock) Now() time.Time { return c.At }

// UUIDGenerator produces UUIDv4 identifiers.
type UUIDGenerator struct{}

// UUID implements IDGenerator.
func (UUIDGenerator) UUID() uuid.UUID { return uuid.New() }

// NopLogger discards all log lines.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(string, ...any) {}

// Info implements Logger.
func (NopLogger) Info(string, ...any) {}

// Error implements Logger.
func (NopLogger) Error(string, error, ...any) {}

var (
	// ErrProfileNotFound indicates the referenced profile does not exist.
	ErrProfileNotFound = errors.New("xlist: profile not found")
	// ErrProfileExists indicates the owner already published a profile.
	ErrProfileExists = errors.New("xlist: owner already has a profile")
	// ErrProfileDraftIncomplete indicates a required draft field is missing.
	ErrProfileDraftIncomplete = errors.New("xlist: x handle, username, category and user id are required")
	// ErrProfileIDRequired indicates a profile identifier was omitted.
	ErrProfileIDRequired = errors.New("xlist: profile id required")
	// ErrActorRequired indicates an actor reference was not supplied.
	ErrActorRequired = errors.New("xlist: actor required")
	// ErrNotProfileOwner indicates the actor does not own the target profile.
	ErrNotProfileOwner = errors.New("xlist: actor does not own profile")
	// ErrMissingProfileRepository occurs when profile commands lack a storage backend.
	ErrMissingProfileRepository = errors.New("xlist: missing profile repository")
	// ErrMissingClickRepository occurs when click commands or queries lack storage.
	ErrMissingClickRepository = errors.New("xlist: missing click repository")
	// ErrServiceNotReady indicates required dependencies were not wired.
	ErrServiceNotReady = errors.New("xlist: service not ready")
)

const (
	// DefaultStoreTimeout bounds every store call made by commands and queries.
	DefaultStoreTimeout = 5 * time.Second
	// DefaultClickTimeout bounds one background click recording.
	DefaultClickTimeout = 5 * time.Second
)
