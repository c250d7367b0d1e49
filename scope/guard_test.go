package scope

import (
	"context"
	"errors"
	"testing"

	"github.com/Harshan-Nayak/xlist/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGuardDefaultsToOwnerOnly(t *testing.T) {
	ctx := context.Background()
	profile := types.Profile{ID: uuid.New(), UserID: "owner"}
	g := Ensure(nil)

	require.NoError(t, g.Enforce(ctx, types.ActorRef{ID: "owner"}, types.PolicyActionProfilesWrite, profile))
	require.ErrorIs(t, g.Enforce(ctx, types.ActorRef{ID: "intruder"}, types.PolicyActionProfilesWrite, profile), types.ErrNotProfileOwner)
	require.ErrorIs(t, g.Enforce(ctx, types.ActorRef{}, types.PolicyActionAnalyticsRead, profile), types.ErrActorRequired)
}

func TestGuardUsesCustomPolicy(t *testing.T) {
	var seen types.PolicyCheck
	denied := errors.New("denied")
	g := NewGuard(types.AuthorizationPolicyFunc(func(_ context.Context, check types.PolicyCheck) error {
		seen = check
		return denied
	}))
	profile := types.Profile{ID: uuid.New(), UserID: "owner"}

	err := g.Enforce(context.Background(), types.ActorRef{ID: "admin"}, types.PolicyActionClicksRead, profile)
	require.ErrorIs(t, err, denied)
	require.Equal(t, profile.ID, seen.ProfileID)
	require.Equal(t, "owner", seen.OwnerID)
	require.Equal(t, types.PolicyActionClicksRead, seen.Action)
}

func TestNopGuardAllowsEverything(t *testing.T) {
	require.NoError(t, NopGuard().Enforce(context.Background(), types.ActorRef{}, types.PolicyActionProfilesWrite, types.Profile{UserID: "x"}))
	g := Ensure(NopGuard())
	require.NoError(t, g.Enforce(context.Background(), types.ActorRef{}, types.PolicyActionProfilesWrite, types.Profile{}))
}
