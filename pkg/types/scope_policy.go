package types

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// PolicyAction enumerates the authorization actions enforced by the owner
// guard. Host applications can remap these actions to their own policies.
type PolicyAction string

const (
	PolicyActionProfilesWrite PolicyAction = "profiles:write"
	PolicyActionAnalyticsRead PolicyAction = "analytics:read"
	PolicyActionClicksRead    PolicyAction = "clicks:read"
)

// PolicyCheck captures the authorization context for a single command/query.
type PolicyCheck struct {
	Actor     ActorRef
	Action    PolicyAction
	ProfileID uuid.UUID
	OwnerID   string
}

// AuthorizationPolicy governs whether an actor may perform an action on a
// profile.
type AuthorizationPolicy interface {
	Authorize(ctx context.Context, check PolicyCheck) error
}

// AuthorizationPolicyFunc adapts bare functions to AuthorizationPolicy.
type AuthorizationPolicyFunc func(ctx context.Context, check PolicyCheck) error

// Authorize implements AuthorizationPolicy.
func (f AuthorizationPolicyFunc) Authorize(ctx context.Context, check PolicyCheck) error {
	return f(ctx, check)
}

// OwnerOnlyPolicy allows an action only when the actor owns the profile.
type OwnerOnlyPolicy struct{}

// Authorize implements AuthorizationPolicy.
func (OwnerOnlyPolicy) Authorize(_ context.Context, check PolicyCheck) error {
	if check.Actor.Anonymous() {
		return ErrActorRequired
	}
	if strings.TrimSpace(check.OwnerID) != strings.TrimSpace(check.Actor.ID) {
		return ErrNotProfileOwner
	}
	return nil
}
