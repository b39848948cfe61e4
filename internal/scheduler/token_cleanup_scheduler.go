package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/eatwell/eatwell-backend/pkg/logger"
)

// TokenStore clears one-time tokens whose expiry has passed.
type TokenStore interface {
	ClearExpiredTokens(now time.Time) (int64, error)
}

// TokenCleanupScheduler periodically clears expired verification and reset tokens
type TokenCleanupScheduler struct {
	cron  *cron.Cron
	store TokenStore
	spec  string
	now   func() time.Time
}

func NewTokenCleanupScheduler(store TokenStore, spec string) *TokenCleanupScheduler {
	if spec == "" {
		spec = "@hourly"
	}
	return &TokenCleanupScheduler{
		cron:  cron.New(),
		store: store,
		spec:  spec,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *TokenCleanupScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce() }); err != nil {
		logger.Error("Failed to add cron job for token cleanup", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Token cleanup scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

// RunOnce clears expired tokens and returns how many users were touched.
func (s *TokenCleanupScheduler) RunOnce() int64 {
	cleared, err := s.store.ClearExpiredTokens(s.now())
	if err != nil {
		logger.Error("Failed to clear expired tokens", err)
		return 0
	}
	if cleared > 0 {
		logger.Info("Cleared expired tokens", map[string]interface{}{
			"users": cleared,
		})
	}
	return cleared
}

func (s *TokenCleanupScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Token cleanup scheduler stopped")
}
