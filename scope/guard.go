package scope

import (
	"context"

	"github.com/Harshan-Nayak/xlist/pkg/types"
)

// Guard enforces authorization policies on profile-owned resources for
// commands and queries. It is intentionally small so callers can swap custom
// guards in tests if needed.
type Guard interface {
	Enforce(ctx context.Context, actor types.ActorRef, action types.PolicyAction, profile types.Profile) error
}

type guard struct {
	policy types.AuthorizationPolicy
}

// NewGuard builds a Guard from the supplied policy. A nil policy falls back
// to types.OwnerOnlyPolicy.
func NewGuard(policy types.AuthorizationPolicy) Guard {
	if policy == nil {
		policy = types.OwnerOnlyPolicy{}
	}
	return guard{policy: policy}
}

// Ensure returns a non-nil guard so command/query constructors can accept nil
// guards when tests instantiate them directly.
func Ensure(g Guard) Guard {
	if g == nil {
		return NewGuard(nil)
	}
	return g
}

// NopGuard returns a guard that never blocks.
func NopGuard() Guard {
	return nopGuard{}
}

// Enforce authorizes the action against the profile owner.
func (g guard) Enforce(ctx context.Context, actor types.ActorRef, action types.PolicyAction, profile types.Profile) error {
	return g.policy.Authorize(ctx, types.PolicyCheck{
		Actor:     actor,
		Action:    action,
		ProfileID: profile.ID,
		OwnerID:   profile.UserID,
	})
}

type nopGuard struct{}

func (nopGuard) Enforce(context.Context, types.ActorRef, types.PolicyAction, types.Profile) error {
	return nil
}
