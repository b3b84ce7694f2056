package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartScoreRetentionPruner deletes score snapshots older than the
// retention window on the given interval. Trend comparisons only look
// back 30 days, so pruning keeps the snapshot table bounded without
// affecting them.
func StartScoreRetentionPruner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().UTC().Add(-retention)
				res, err := db.ExecContext(ctx, `
                    DELETE FROM privacy_scores
                     WHERE calculated_at < $1
                `, cutoff)
				if err != nil {
					log.Error("failed to prune old score snapshots", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("pruned old score snapshots", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
