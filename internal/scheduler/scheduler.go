// Package scheduler keeps the result cache warm for configured games so
// interactive builds hit cached market data.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/sgp-builder/internal/models"
	"github.com/yourusername/sgp-builder/internal/service"
)

// Prewarmer schedules periodic cache-warming builds.
type Prewarmer struct {
	cron      *cron.Cron
	builder   *service.ParlayBuilder
	logger    *logrus.Logger
	mu        sync.Mutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// NewPrewarmer creates a prewarm scheduler.
func NewPrewarmer(builder *service.ParlayBuilder, logger *logrus.Logger) *Prewarmer {
	return &Prewarmer{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		builder: builder,
		logger:  logger,
	}
}

// Schedule registers a warming job for the given games on a cron
// expression. The job builds a small parlay per game purely for its
// side effect of populating the event and outcome caches.
func (p *Prewarmer) Schedule(cronExpression string, games []models.GameRef) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		for _, game := range games {
			if _, err := p.builder.BuildParlay(ctx, game, 1, service.Filters{}); err != nil {
				p.logger.WithField("game", game.Display()).Warnf("Prewarm build failed: %v", err)
				continue
			}
			p.logger.WithField("game", game.Display()).Debug("Prewarmed market data")
		}
	}

	entryID, err := p.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add prewarm job: %w", err)
	}

	p.jobIDs = append(p.jobIDs, entryID)
	p.logger.WithField("schedule", cronExpression).Info("Scheduled cache prewarm job")
	return nil
}

// Start begins running scheduled jobs.
func (p *Prewarmer) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return
	}
	p.cron.Start()
	p.isRunning = true
}

// Stop halts the scheduler and waits for running jobs to finish.
func (p *Prewarmer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isRunning {
		return
	}
	ctx := p.cron.Stop()
	<-ctx.Done()
	p.isRunning = false
}
