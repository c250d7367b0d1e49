package profile

import (
	"context"
	"errors"
	"strings"

	"github.com/Harshan-Nayak/xlist/directory"
	"github.com/Harshan-Nayak/xlist/pkg/types"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryConfig wires the Bun-backed profile repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Record]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

type profileStore interface {
	repository.Repository[*Record]
}

// Listing filters travel as scope data rather than criteria closures so the
// read cache can tell one category or owner from another.
const (
	scopeCategory = "profile_category"
	scopeOwner    = "profile_owner"
)

var newestFirst = repository.OrderBy("created_at DESC")

// Repository implements types.ProfileRepository using Bun.
type Repository struct {
	profileStore
	db    *bun.DB
	clock types.Clock
	idGen types.IDGenerator
}

// NewRepository constructs the default profile repository.
func NewRepository(cfg RepositoryConfig, opts ...RepositoryOption) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("profile: db or repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = NewRecordRepository(cfg.DB)
	}

	options := applyRepositoryOptions(opts)
	if options.CacheEnabled {
		wrapped, err := withCache(repo, options)
		if err != nil {
			return nil, err
		}
		repo = wrapped
	}
	repo.RegisterScope(scopeCategory, repository.ScopeByField(scopeCategory, "category"))
	repo.RegisterScope(scopeOwner, repository.ScopeByField(scopeOwner, "user_id"))

	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}

	return &Repository{
		profileStore: repo,
		db:           cfg.DB,
		clock:        clock,
		idGen:        idGen,
	}, nil
}

// NewRecordRepository builds the generic store for profile rows.
func NewRecordRepository(db *bun.DB) repository.Repository[*Record] {
	return repository.NewRepository(db, repository.ModelHandlers[*Record]{
		NewRecord: func() *Record { return &Record{} },
		GetID: func(rec *Record) uuid.UUID {
			if rec == nil {
				return uuid.Nil
			}
			return rec.ID
		},
		SetID: func(rec *Record, id uuid.UUID) {
			if rec != nil {
				rec.ID = id
			}
		},
	})
}

func withCache(repo repository.Repository[*Record], opts RepositoryOptions) (repository.Repository[*Record], error) {
	if _, ok := repo.(*repositorycache.CachedRepository[*Record]); ok {
		return repo, nil
	}
	cfg := cache.DefaultConfig()
	if opts.CacheConfig != nil {
		cfg = *opts.CacheConfig
	}
	service, err := cache.NewCacheService(cfg)
	if err != nil {
		return nil, err
	}
	return repositorycache.New(repo, service, opts.KeySerializer), nil
}

var (
	_ repository.Repository[*Record] = (*Repository)(nil)
	_ types.ProfileRepository        = (*Repository)(nil)
)

// CreateProfile stores a new profile and returns it with its generated id.
func (r *Repository) CreateProfile(ctx context.Context, draft types.ProfileDraft) (*types.Profile, error) {
	if !draft.Complete() {
		return nil, types.ErrProfileDraftIncomplete
	}
	now := r.clock.Now().UTC()
	rec := &Record{
		ID:             r.idGen.UUID(),
		XHandle:        types.NormalizeHandle(draft.XHandle),
		Username:       strings.TrimSpace(draft.Username),
		Category:       strings.TrimSpace(draft.Category),
		Bio:            strings.TrimSpace(draft.Bio),
		Location:       strings.TrimSpace(draft.Location),
		Website:        strings.TrimSpace(draft.Website),
		ProfileImage:   strings.TrimSpace(draft.ProfileImage),
		FollowersCount: cloneCount(draft.FollowersCount),
		UserID:         strings.TrimSpace(draft.UserID),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	created, err := r.Create(ctx, rec)
	if err != nil {
		if r.isDuplicate(err) {
			return nil, types.ErrProfileExists
		}
		return nil, err
	}
	return toDomain(created), nil
}

// GetProfile returns a single profile by id.
func (r *Repository) GetProfile(ctx context.Context, id uuid.UUID) (*types.Profile, error) {
	rec, err := r.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDomain(rec), nil
}

// ListByCategory returns every profile when category is "" or "All",
// otherwise the profiles in that category, in directory order.
func (r *Repository) ListByCategory(ctx context.Context, category string) ([]types.Profile, error) {
	if !types.SelectsAll(category) {
		ctx = withListScope(ctx, scopeCategory, strings.TrimSpace(category))
	}
	rows, _, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return directory.Sort(toDomainList(rows)), nil
}

// ListByOwner returns the profiles owned by userID, newest first.
func (r *Repository) ListByOwner(ctx context.Context, userID string) ([]types.Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, types.ErrActorRequired
	}
	rows, _, err := r.List(withListScope(ctx, scopeOwner, userID), newestFirst)
	if err != nil {
		return nil, err
	}
	return toDomainList(rows), nil
}

// UpdateProfile merges the supplied patch fields into the stored profile.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, patch types.ProfilePatch) (*types.Profile, error) {
	rec, err := r.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyPatch(rec, patch); err != nil {
		return nil, err
	}
	rec.UpdatedAt = r.clock.Now().UTC()
	updated, err := r.Update(ctx, rec)
	if err != nil {
		return nil, err
	}
	return toDomain(updated), nil
}

// DeleteProfile removes the profile. Click events referencing it are kept.
func (r *Repository) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	rec, err := r.find(ctx, id)
	if err != nil {
		return err
	}
	return r.Delete(ctx, rec)
}

func withListScope(ctx context.Context, name, value string) context.Context {
	return repository.WithSelectScopes(repository.WithScopeData(ctx, name, value), name)
}

func (r *Repository) find(ctx context.Context, id uuid.UUID) (*Record, error) {
	if id == uuid.Nil {
		return nil, types.ErrProfileIDRequired
	}
	rec, err := r.GetByID(ctx, id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, types.ErrProfileNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (r *Repository) isDuplicate(err error) bool {
	if repository.IsDuplicatedKey(err) {
		return true
	}
	if r.db != nil && repository.IsDuplicatedKey(repository.MapDatabaseError(err, repository.DetectDriver(r.db))) {
		return true
	}
	// drivers wrapped by a custom store may surface the raw message only
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

func applyPatch(rec *Record, patch types.ProfilePatch) error {
	if patch.XHandle != nil {
		rec.XHandle = types.NormalizeHandle(*patch.XHandle)
	}
	if patch.Username != nil {
		rec.Username = strings.TrimSpace(*patch.Username)
	}
	if patch.Category != nil {
		rec.Category = strings.TrimSpace(*patch.Category)
	}
	if rec.XHandle == "" || rec.Username == "" || rec.Category == "" {
		return types.ErrProfileDraftIncomplete
	}
	if patch.Bio != nil {
		rec.Bio = strings.TrimSpace(*patch.Bio)
	}
	if patch.Location != nil {
		rec.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.Website != nil {
		rec.Website = strings.TrimSpace(*patch.Website)
	}
	if patch.ProfileImage != nil {
		rec.ProfileImage = strings.TrimSpace(*patch.ProfileImage)
	}
	if patch.FollowersCount != nil {
		rec.FollowersCount = cloneCount(patch.FollowersCount)
	}
	return nil
}

func toDomain(rec *Record) *types.Profile {
	if rec == nil {
		return nil
	}
	return &types.Profile{
		ID:             rec.ID,
		XHandle:        rec.XHandle,
		Username:       rec.Username,
		Category:       rec.Category,
		Bio:            rec.Bio,
		Location:       rec.Location,
		Website:        rec.Website,
		ProfileImage:   rec.ProfileImage,
		FollowersCount: cloneCount(rec.FollowersCount),
		UserID:         rec.UserID,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}
}

func toDomainList(rows []*Record) []types.Profile {
	out := make([]types.Profile, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		out = append(out, *toDomain(row))
	}
	return out
}

func cloneCount(count *int64) *int64 {
	if count == nil {
		return nil
	}
	v := *count
	return &v
}
