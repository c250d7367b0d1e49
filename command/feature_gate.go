package command

import (
	"context"
	"strings"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-featuregate/resolver"
	"github.com/goliatone/go-featuregate/store"
)

const (
	// FeatureClickTracking toggles click recording on profile links.
	FeatureClickTracking = "profiles.click_tracking"
)

// NewFeatureGate builds a resolver backed by an in-memory override store and
// seeds each key as a system-wide override. The returned gate still accepts
// per-user overrides through Set.
func NewFeatureGate(ctx context.Context, system map[string]bool) (*resolver.Gate, error) {
	overrides := store.NewMemoryStore()
	gate := resolver.New(
		resolver.WithOverrideStore(overrides),
		resolver.WithOverrideWriter(overrides),
	)
	actor := featuregate.ActorRef{ID: "config", Type: "system"}
	for key, enabled := range system {
		if err := gate.Set(ctx, key, featuregate.ScopeRef{Kind: featuregate.ScopeSystem}, enabled, actor); err != nil {
			return nil, err
		}
	}
	return gate, nil
}

func featureEnabled(ctx context.Context, gate featuregate.FeatureGate, key string, userID string) (bool, error) {
	if gate == nil {
		return true, nil
	}
	return gate.Enabled(ctx, key, featuregate.WithScopeChain(featureScopeChain(userID)))
}

// featureScopeChain puts the user ahead of the system scope so a user
// override wins over the system default.
func featureScopeChain(userID string) featuregate.ScopeChain {
	chain := featuregate.ScopeChain{}
	if userID = strings.TrimSpace(userID); userID != "" {
		chain = append(chain, featuregate.ScopeRef{Kind: featuregate.ScopeUser, ID: userID})
	}
	return append(chain, featuregate.ScopeRef{Kind: featuregate.ScopeSystem})
}
