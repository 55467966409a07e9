package users

import (
	"context"
	"log/slog"
	"time"

	"github.com/iudanet/vidhub/internal/models"
	"github.com/iudanet/vidhub/internal/server/metrics"
)

// Sessions lists the open sessions of the user, newest first
func (s *Service) Sessions(ctx context.Context, userID string) ([]*models.Session, error) {
	sessions, err := s.store.GetUserSessions(ctx, userID)
	if err != nil {
		return nil, internal(err)
	}
	return sessions, nil
}

// PurgeExpiredSessions deletes sessions whose refresh token has expired
func (s *Service) PurgeExpiredSessions(ctx context.Context) (int, error) {
	n, err := s.store.DeleteExpiredSessions(ctx, s.now())
	if err != nil {
		return 0, err
	}
	metrics.RecordSessionsPurged(n)
	return n, nil
}

// RunSessionCleanup purges expired sessions every interval until ctx is done
func (s *Service) RunSessionCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.PurgeExpiredSessions(ctx)
			if err != nil {
				s.logger.ErrorContext(ctx, "failed to purge expired sessions", slog.Any("error", err))
				continue
			}
			if n > 0 {
				s.logger.InfoContext(ctx, "purged expired sessions", slog.Int("count", n))
			}
		}
	}
}
