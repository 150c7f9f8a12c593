package worker

import (
	"sync"
	"time"

	"github.com/claimguard/claimguard/internal/models"
)

// HistoryView is the shared, last-response-wins view of the claim history.
// Each poll draws a monotonic sequence number before querying; a response is
// applied only if its sequence is newer than the last applied one, so a slow
// early poll can never overwrite a fresher result.
type HistoryView struct {
	mu         sync.RWMutex
	issuedSeq  uint64
	appliedSeq uint64
	claims     []*models.ClaimRecord
	healthy    bool
	updatedAt  time.Time
}

// NewHistoryView creates an empty history view. It starts unhealthy until
// the first successful health probe.
func NewHistoryView() *HistoryView {
	return &HistoryView{}
}

// NextSeq issues the sequence number for a poll about to start.
func (v *HistoryView) NextSeq() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.issuedSeq++
	return v.issuedSeq
}

// Apply installs a poll response. It returns false and changes nothing when
// a newer response has already been applied.
func (v *HistoryView) Apply(seq uint64, claims []*models.ClaimRecord) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if seq <= v.appliedSeq {
		return false
	}
	v.appliedSeq = seq
	v.claims = claims
	v.updatedAt = time.Now()
	return true
}

// Claims returns the currently displayed history.
func (v *HistoryView) Claims() []*models.ClaimRecord {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.claims
}

// AppliedSeq returns the sequence of the currently displayed response.
func (v *HistoryView) AppliedSeq() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.appliedSeq
}

// UpdatedAt returns when the view last changed.
func (v *HistoryView) UpdatedAt() time.Time {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.updatedAt
}

// SetHealthy records the latest liveness probe outcome.
func (v *HistoryView) SetHealthy(healthy bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.healthy = healthy
}

// Healthy reports the latest liveness probe outcome.
func (v *HistoryView) Healthy() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.healthy
}
