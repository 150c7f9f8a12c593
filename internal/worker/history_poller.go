package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/claimguard/claimguard/internal/models"
)

// ClaimLister is the read side of the claim repository the poller needs.
type ClaimLister interface {
	List(limit int) ([]*models.ClaimRecord, error)
}

// HistoryPoller refreshes the shared history view at a fixed interval.
type HistoryPoller struct {
	lister    ClaimLister
	view      *HistoryView
	logger    *zap.Logger
	interval  time.Duration
	batchSize int

	mu        sync.Mutex
	isRunning bool
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewHistoryPoller creates a history poller.
func NewHistoryPoller(lister ClaimLister, view *HistoryView, interval time.Duration, logger *zap.Logger) *HistoryPoller {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &HistoryPoller{
		lister:    lister,
		view:      view,
		logger:    logger,
		interval:  interval,
		batchSize: 50,
	}
}

// Start begins polling. The first poll runs immediately.
func (p *HistoryPoller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return fmt.Errorf("history poller is already running")
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	p.isRunning = true

	p.logger.Info("HistoryPoller started", zap.Duration("interval", p.interval))
	go p.pollLoop()
	return nil
}

// Stop cancels the poll loop and waits for it to exit.
func (p *HistoryPoller) Stop() {
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
	p.logger.Info("HistoryPoller stopped")
}

// Name returns the worker name.
func (p *HistoryPoller) Name() string {
	return "HistoryPoller"
}

func (p *HistoryPoller) pollLoop() {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.pollOnce()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.pollOnce()
		}
	}
}

func (p *HistoryPoller) pollOnce() {
	seq := p.view.NextSeq()

	claims, err := p.lister.List(p.batchSize)
	if err != nil {
		p.logger.Error("Failed to refresh claim history",
			zap.Uint64("seq", seq),
			zap.Error(err))
		return
	}

	if !p.view.Apply(seq, claims) {
		p.logger.Debug("Discarded stale history response", zap.Uint64("seq", seq))
		return
	}

	p.logger.Debug("Claim history refreshed",
		zap.Uint64("seq", seq),
		zap.Int("count", len(claims)))
}
