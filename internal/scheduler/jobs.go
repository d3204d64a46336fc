// AngelaMos | 2026
// jobs.go

package scheduler

import (
	"context"
	"log/slog"
	"time"
)

const TokenCleanupJob = "refresh-token-cleanup"

type TokenPurger interface {
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

// TokenCleanup deletes refresh tokens that expired long enough ago that
// reuse detection no longer needs them.
func TokenCleanup(purger TokenPurger, interval time.Duration) Job {
	return Job{
		Name:     TokenCleanupJob,
		Interval: interval,
		Timeout:  time.Minute,
		Run: func(ctx context.Context) error {
			n, err := purger.PurgeExpiredTokens(ctx)
			if err != nil {
				return err
			}
			if n > 0 {
				slog.InfoContext(ctx, "purged expired refresh tokens", "count", n)
			}
			return nil
		},
	}
}
