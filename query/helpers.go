package query

import (
	"context"
	"time"

	"github.com/Harshan-Nayak/xlist/pkg/metrics"
	"github.com/Harshan-Nayak/xlist/pkg/types"
	"github.com/Harshan-Nayak/xlist/scope"
	"github.com/google/uuid"
)

func safeScopeGuard(g scope.Guard) scope.Guard {
	return scope.Ensure(g)
}

func safeClock(clock types.Clock) types.Clock {
	if clock != nil {
		return clock
	}
	return types.SystemClock{}
}

func safeTimeout(d time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return types.DefaultStoreTimeout
}

func readCall(ctx context.Context, timeout time.Duration, rec metrics.Recorder, operation string, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	start := time.Now()
	err := fn(ctx)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	rec.StoreCall(operation, time.Since(start), err)
	return err
}

func getProfile(ctx context.Context, repo types.ProfileRepository, timeout time.Duration, rec metrics.Recorder, id uuid.UUID) (*types.Profile, error) {
	if id == uuid.Nil {
		return nil, types.ValidationError(types.ErrProfileIDRequired, "invalid profile lookup")
	}
	var profile *types.Profile
	err := readCall(ctx, timeout, rec, "profiles.get", func(ctx context.Context) error {
		var err error
		profile, err = repo.GetProfile(ctx, id)
		return err
	})
	if err != nil {
		return nil, types.ReadError(err, "failed to load profile")
	}
	if profile == nil {
		return nil, types.NotFoundError("profile not found")
	}
	return profile, nil
}
