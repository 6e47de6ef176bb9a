package service

import (
	"context"
	"time"

	"github.com/M0SENI/VisaBot/internal/metrics"

	"go.uber.org/zap"
)

// Sweeper is a session store that can drop idle sessions
type Sweeper interface {
	Sweep(maxIdle time.Duration) int
	Len() int
}

// SessionJanitor expires idle conversation sessions
type SessionJanitor struct {
	sweeper Sweeper
	maxIdle time.Duration
	logger  *zap.Logger
}

// NewSessionJanitor creates a new session janitor
func NewSessionJanitor(sweeper Sweeper, maxIdle time.Duration, logger *zap.Logger) *SessionJanitor {
	return &SessionJanitor{
		sweeper: sweeper,
		maxIdle: maxIdle,
		logger:  logger,
	}
}

// Cleanup removes sessions idle longer than maxIdle and returns how many were removed
func (j *SessionJanitor) Cleanup() int {
	removed := j.sweeper.Sweep(j.maxIdle)
	active := j.sweeper.Len()
	metrics.SetActiveSessions(active)

	if removed > 0 {
		j.logger.Info("Expired idle sessions",
			zap.Int("removed", removed),
			zap.Int("active", active),
			zap.Duration("max_idle", j.maxIdle),
		)
	}
	return removed
}

// Run calls Cleanup every interval until ctx is done
func (j *SessionJanitor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Cleanup()
		}
	}
}
