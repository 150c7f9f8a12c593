package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pinger is the liveness probe contract, satisfied by *sql.DB.
type Pinger interface {
	Ping() error
}

// HealthPoller probes the database at a fixed interval and publishes the
// outcome on the shared view.
type HealthPoller struct {
	pinger   Pinger
	view     *HistoryView
	logger   *zap.Logger
	interval time.Duration

	mu        sync.Mutex
	isRunning bool
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewHealthPoller creates a health poller.
func NewHealthPoller(pinger Pinger, view *HistoryView, interval time.Duration, logger *zap.Logger) *HealthPoller {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &HealthPoller{
		pinger:   pinger,
		view:     view,
		logger:   logger,
		interval: interval,
	}
}

// Start begins probing. The first probe runs immediately.
func (p *HealthPoller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return fmt.Errorf("health poller is already running")
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	p.isRunning = true

	p.logger.Info("HealthPoller started", zap.Duration("interval", p.interval))
	go p.probeLoop()
	return nil
}

// Stop cancels the probe loop and waits for it to exit.
func (p *HealthPoller) Stop() {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return
	}
	p.isRunning = false
	p.cancel()
	done := p.done
	p.mu.Unlock()

	<-done
	p.logger.Info("HealthPoller stopped")
}

// Name returns the worker name.
func (p *HealthPoller) Name() string {
	return "HealthPoller"
}

func (p *HealthPoller) probeLoop() {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.probeOnce()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.probeOnce()
		}
	}
}

func (p *HealthPoller) probeOnce() {
	err := p.pinger.Ping()
	healthy := err == nil
	wasHealthy := p.view.Healthy()
	p.view.SetHealthy(healthy)

	if healthy != wasHealthy {
		if healthy {
			p.logger.Info("Database is reachable again")
		} else {
			p.logger.Warn("Database is unreachable", zap.Error(err))
		}
	}
}
