package profile

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record models the profiles row.
type Record struct {
	bun.BaseModel `bun:"table:profiles"`

	ID             uuid.UUID `bun:"id,pk,type:uuid"`
	XHandle        string    `bun:"x_handle,notnull"`
	Username       string    `bun:"username,notnull"`
	Category       string    `bun:"category,notnull"`
	Bio            string    `bun:"bio,nullzero"`
	Location       string    `bun:"location,nullzero"`
	Website        string    `bun:"website,nullzero"`
	ProfileImage   string    `bun:"profile_image,nullzero"`
	FollowersCount *int64    `bun:"followers_count"`
	UserID         string    `bun:"user_id,notnull"`
	CreatedAt      time.Time `bun:"created_at,notnull"`
	UpdatedAt      time.Time `bun:"updated_at,notnull"`
}
