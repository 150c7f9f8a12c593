package service

import (
	"go.uber.org/zap"

	"github.com/claimguard/claimguard/internal/models"
	"github.com/claimguard/claimguard/internal/worker"
)

// ClaimReader is the read side of the claim repository.
type ClaimReader interface {
	List(limit int) ([]*models.ClaimRecord, error)
	GetByID(id int64) (*models.ClaimRecord, error)
}

// HistoryService serves the claim history view. Listing reads the poller's
// shared view so every caller sees the same last-response-wins snapshot;
// lookups by ID hit the repository directly.
type HistoryService struct {
	reader ClaimReader
	view   *worker.HistoryView
	logger *zap.Logger
}

// NewHistoryService creates a history service.
func NewHistoryService(reader ClaimReader, view *worker.HistoryView, logger *zap.Logger) *HistoryService {
	return &HistoryService{
		reader: reader,
		view:   view,
		logger: logger,
	}
}

// Recent returns the displayed claim history. Before the first poll lands it
// falls through to the repository so the UI is never empty on a warm store.
func (s *HistoryService) Recent(limit int) ([]*models.ClaimRecord, error) {
	if s.view.AppliedSeq() > 0 {
		claims := s.view.Claims()
		if limit > 0 && len(claims) > limit {
			claims = claims[:limit]
		}
		return claims, nil
	}
	return s.reader.List(limit)
}

// Get returns one persisted claim by row ID.
func (s *HistoryService) Get(id int64) (*models.ClaimRecord, error) {
	return s.reader.GetByID(id)
}

// Healthy reports the last database liveness probe outcome.
func (s *HistoryService) Healthy() bool {
	return s.view.Healthy()
}
