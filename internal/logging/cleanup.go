package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/qrtrail/qrtrail-backend/internal/database"
	"github.com/qrtrail/qrtrail-backend/internal/models"
	"gorm.io/gorm"
)

// StartCleanup runs a daily goroutine that purges system_logs older than 30
// days, draining them through the batch deleter.
func StartCleanup(deleter *database.BatchDeleter, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cutoff := time.Now().AddDate(0, 0, -30)
				deleted, err := deleter.DeleteAll(context.Background(), &models.SystemLog{}, func(db *gorm.DB) *gorm.DB {
					return db.Where("timestamp < ?", cutoff)
				})
				if err != nil {
					slog.Error("log cleanup failed", "error", err)
				} else if deleted > 0 {
					slog.Info("log cleanup completed", "deleted", deleted)
				}
			case <-done:
				return
			}
		}
	}()
}
