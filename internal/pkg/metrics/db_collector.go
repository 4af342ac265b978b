package metrics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CollectDBPoolStats samples pool statistics into DBPoolConnections until the
// context is cancelled. Intended to run in its own goroutine.
func CollectDBPoolStats(ctx context.Context, pool *pgxpool.Pool, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := pool.Stat()
			DBPoolConnections.WithLabelValues("in_use").Set(float64(stats.AcquiredConns()))
			DBPoolConnections.WithLabelValues("idle").Set(float64(stats.IdleConns()))
			DBPoolConnections.WithLabelValues("max").Set(float64(stats.MaxConns()))
		}
	}
}
