package user

import (
	"context"
	"time"

	"fleet-campus-admin/internal/logger"

	"go.uber.org/zap"
)

// expiredTokenRetention keeps expired tokens around for a day before
// removal.
const expiredTokenRetention = 24 * time.Hour

// CleanupExpiredTokens deletes refresh tokens past their retention and
// returns how many were removed.
func (s *Service) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	removed, err := s.refreshTokenRepo.DeleteExpired(ctx, expiredTokenRetention)
	if err != nil {
		return 0, err
	}

	logger.Debug("Expired tokens cleaned up",
		zap.Int64("removed", removed),
		zap.Duration("older_than", expiredTokenRetention),
	)
	return removed, nil
}
