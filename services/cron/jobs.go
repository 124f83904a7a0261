package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/campusadmit/admissions-api/model"
	"github.com/campusadmit/admissions-api/services"
	"github.com/campusadmit/admissions-api/utils/auth"
)

// CleanupExpiredTokens prunes blacklist entries whose tokens have expired
// anyway. Runs hourly.
func (m *CronManager) CleanupExpiredTokens() {
	m.runLogged("cleanup_expired_tokens", func() (string, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		blacklist := auth.NewBlacklistService(m.db)
		removed, err := blacklist.CleanupExpiredTokens(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to clean token blacklist: %w", err)
		}
		return fmt.Sprintf("Removed %d expired tokens", removed), nil
	})
}

// CleanupOldData removes old read notifications and stale cron logs.
// Runs daily at 2 AM.
func (m *CronManager) CleanupOldData() {
	m.runLogged("cleanup_old_data", func() (string, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		notifications := services.NewNotificationService(m.db)
		pruned, err := notifications.PruneRead(ctx, 90)
		if err != nil {
			return "", fmt.Errorf("failed to prune notifications: %w", err)
		}

		// Keep only the last 90 days of job history.
		cutoff := time.Now().Add(-90 * 24 * time.Hour)
		res := m.db.WithContext(ctx).
			Where("created_at < ?", cutoff).
			Delete(&model.CronJobLog{})
		if res.Error != nil {
			return "", fmt.Errorf("failed to clean cron logs: %w", res.Error)
		}

		return fmt.Sprintf("Pruned %d notifications, %d cron logs", pruned, res.RowsAffected), nil
	})
}
