package clicks

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Event models the persisted row in profile_clicks.
type Event struct {
	bun.BaseModel `bun:"table:profile_clicks"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	ProfileID uuid.UUID `bun:"profile_id,type:uuid,notnull"`
	ClickedAt time.Time `bun:"clicked_at,notnull"`
	UserAgent string    `bun:"user_agent,nullzero"`
	IPAddress string    `bun:"ip_address,nullzero"`
}
