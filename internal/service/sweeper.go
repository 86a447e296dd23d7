package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SweeperService periodically drops chat state that has been idle too long.
type SweeperService struct {
	store  ChatSweeper
	idle   time.Duration
	spec   string
	logger *zap.Logger
}

func NewSweeperService(store ChatSweeper, idle time.Duration, spec string, logger *zap.Logger) *SweeperService {
	return &SweeperService{
		store:  store,
		idle:   idle,
		spec:   spec,
		logger: logger,
	}
}

// Start runs the sweep on schedule until ctx is done.
func (s *SweeperService) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	if _, err := c.AddFunc(s.spec, s.sweep); err != nil {
		return fmt.Errorf("add sweep job %q: %w", s.spec, err)
	}

	c.Start()
	s.logger.Info("session sweeper started",
		zap.String("spec", s.spec),
		zap.Duration("idle_timeout", s.idle),
	)

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("session sweeper stopped")

	return nil
}

func (s *SweeperService) sweep() {
	if n := s.store.Sweep(s.idle); n > 0 {
		s.logger.Debug("idle chats evicted", zap.Int("count", n))
	}
}
