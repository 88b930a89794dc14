package builder

import (
	"time"

	"go-reporting/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper evicts idle builder sessions on a fixed schedule so abandoned
// wizards do not pile up in memory.
type Sweeper struct {
	Manager *SessionManager
	TTL     time.Duration
	Logger  *zap.Logger

	scheduler *cron.Cron
}

func NewSweeper(manager *SessionManager, cfg *config.Config, logger *zap.Logger) *Sweeper {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Sweeper{
		Manager: manager,
		TTL:     ttl,
		Logger:  logger,
	}
}

func (s *Sweeper) Start() error {
	s.scheduler = cron.New()
	_, err := s.scheduler.AddFunc("@every 1m", func() {
		s.Manager.SweepExpired(s.TTL)
	})
	if err != nil {
		return err
	}
	s.scheduler.Start()
	s.Logger.Info("builder session sweeper started", zap.Duration("ttl", s.TTL))
	return nil
}

func (s *Sweeper) Stop() {
	if s.scheduler != nil {
		ctx := s.scheduler.Stop()
		<-ctx.Done()
	}
}
