package cache

import (
	"context"
	"log/slog"
)

// SafeInvalidatePattern invalidates a cache pattern, logging instead of
// propagating failures. Cache invalidation must never fail a write.
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete deletes cache keys, logging instead of propagating
// failures.
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}
