package clicks

import (
	"context"
	"errors"
	"strings"

	"github.com/Harshan-Nayak/xlist/pkg/types"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryConfig wires the Bun-backed click repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Event]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

type clickStore interface {
	repository.Repository[*Event]
}

// Repository persists click events and exposes range reads.
type Repository struct {
	clickStore
	db    *bun.DB
	clock types.Clock
	idGen types.IDGenerator
}

// NewRepository constructs a repository that implements both ClickSink and
// ClickRepository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("clicks: db or repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*Event]{
			NewRecord: func() *Event { return &Event{} },
			GetID: func(event *Event) uuid.UUID {
				if event == nil {
					return uuid.Nil
				}
				return event.ID
			},
			SetID: func(event *Event, id uuid.UUID) {
				if event != nil {
					event.ID = id
				}
			},
		})
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}

	return &Repository{
		clickStore: repo,
		db:         cfg.DB,
		clock:      clock,
		idGen:      idGen,
	}, nil
}

var (
	_ repository.Repository[*Event] = (*Repository)(nil)
	_ types.ClickSink               = (*Repository)(nil)
	_ types.ClickRepository         = (*Repository)(nil)
)

// RecordClick appends one click event stamped with the repository clock.
func (r *Repository) RecordClick(ctx context.Context, record types.ClickRecord) (*types.ClickEvent, error) {
	if record.ProfileID == uuid.Nil {
		return nil, types.ErrProfileIDRequired
	}
	event := &Event{
		ID:        r.idGen.UUID(),
		ProfileID: record.ProfileID,
		ClickedAt: r.clock.Now().UTC(),
		UserAgent: strings.TrimSpace(record.UserAgent),
		IPAddress: strings.TrimSpace(record.IPAddress),
	}
	created, err := r.Create(ctx, event)
	if err != nil {
		return nil, err
	}
	out := toClickEvent(created)
	return &out, nil
}

// QueryClicks returns the profile's events inside the optional closed range,
// newest first.
func (r *Repository) QueryClicks(ctx context.Context, filter types.ClickFilter) ([]types.ClickEvent, error) {
	if filter.ProfileID == uuid.Nil {
		return nil, types.ErrProfileIDRequired
	}
	rows, _, err := r.List(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return applyClickFilter(q, filter).OrderExpr("clicked_at DESC")
	})
	if err != nil {
		return nil, err
	}
	events := make([]types.ClickEvent, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		events = append(events, toClickEvent(row))
	}
	return events, nil
}

// CountClicks evaluates the QueryClicks predicate as a COUNT(*).
func (r *Repository) CountClicks(ctx context.Context, filter types.ClickFilter) (int, error) {
	if filter.ProfileID == uuid.Nil {
		return 0, types.ErrProfileIDRequired
	}
	if r.db == nil {
		return 0, errors.New("clicks: count requires bun DB")
	}
	query := r.db.NewSelect().Model((*Event)(nil))
	return applyClickFilter(query, filter).Count(ctx)
}

func applyClickFilter(q *bun.SelectQuery, filter types.ClickFilter) *bun.SelectQuery {
	q = q.Where("profile_id = ?", filter.ProfileID)
	if filter.Since != nil && !filter.Since.IsZero() {
		q = q.Where("clicked_at >= ?", filter.Since.UTC())
	}
	if filter.Until != nil && !filter.Until.IsZero() {
		q = q.Where("clicked_at <= ?", filter.Until.UTC())
	}
	return q
}

func toClickEvent(event *Event) types.ClickEvent {
	return types.ClickEvent{
		ID:        event.ID,
		ProfileID: event.ProfileID,
		ClickedAt: event.ClickedAt,
		UserAgent: event.UserAgent,
		IPAddress: event.IPAddress,
	}
}
