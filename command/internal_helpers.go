package command

import (
	"context"
	"strings"
	"time"

	"github.com/Harshan-Nayak/xlist/pkg/metrics"
	"github.com/Harshan-Nayak/xlist/pkg/types"
	"github.com/Harshan-Nayak/xlist/scope"
)

func safeClock(clock types.Clock) types.Clock {
	if clock != nil {
		return clock
	}
	return types.SystemClock{}
}

func safeLogger(logger types.Logger) types.Logger {
	if logger != nil {
		return logger
	}
	return types.NopLogger{}
}

func safeHooks(hooks types.Hooks) types.Hooks {
	return hooks
}

func safeScopeGuard(g scope.Guard) scope.Guard {
	return scope.Ensure(g)
}

func safeMetrics(r metrics.Recorder) metrics.Recorder {
	return metrics.Ensure(r)
}

func safeTimeout(d time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return types.DefaultStoreTimeout
}

func now(clock types.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now()
}

// storeCall runs fn under the store deadline and reports its latency.
func storeCall(ctx context.Context, timeout time.Duration, rec metrics.Recorder, operation string, fn func(context.Context) error) error {
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

func emitProfileHook(ctx context.Context, hooks types.Hooks, event types.ProfileEvent) {
	if hooks.AfterProfileChange == nil {
		return
	}
	hooks.AfterProfileChange(ctx, event)
}

func emitClickHook(ctx context.Context, hooks types.Hooks, event types.ClickEvent) {
	if hooks.AfterClick == nil {
		return
	}
	hooks.AfterClick(ctx, event)
}

func validateCategory(category string) error {
	if !types.ValidCategory(strings.TrimSpace(category)) {
		return ErrInvalidCategory
	}
	return nil
}

// validateHandle leaves blank handles to the completeness check.
func validateHandle(handle string) error {
	if strings.TrimSpace(handle) != "" && types.CleanHandle(handle) == "" {
		return ErrInvalidHandle
	}
	return nil
}

func validateFollowers(count *int64) error {
	if count != nil && *count < 0 {
		return ErrNegativeFollowers
	}
	return nil
}
