package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/claimguard/claimguard/internal/models"
	"github.com/claimguard/claimguard/internal/repository"
	"github.com/claimguard/claimguard/internal/worker"
)

type fakeReader struct {
	claims []*models.ClaimRecord
	byID   map[int64]*models.ClaimRecord
}

func (f *fakeReader) List(limit int) ([]*models.ClaimRecord, error) {
	if limit > 0 && len(f.claims) > limit {
		return f.claims[:limit], nil
	}
	return f.claims, nil
}

func (f *fakeReader) GetByID(id int64) (*models.ClaimRecord, error) {
	if record, ok := f.byID[id]; ok {
		return record, nil
	}
	return nil, repository.ErrClaimNotFound
}

func TestRecentFallsBackToRepositoryBeforeFirstPoll(t *testing.T) {
	reader := &fakeReader{claims: []*models.ClaimRecord{{ClaimID: "CG-001"}}}
	svc := NewHistoryService(reader, worker.NewHistoryView(), zap.NewNop())

	claims, err := svc.Recent(10)
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, "CG-001", claims[0].ClaimID)
}

func TestRecentServesPolledView(t *testing.T) {
	reader := &fakeReader{claims: []*models.ClaimRecord{{ClaimID: "CG-STALE"}}}
	view := worker.NewHistoryView()
	view.Apply(view.NextSeq(), []*models.ClaimRecord{
		{ClaimID: "CG-002"},
		{ClaimID: "CG-001"},
	})
	svc := NewHistoryService(reader, view, zap.NewNop())

	claims, err := svc.Recent(1)
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, "CG-002", claims[0].ClaimID)
}

func TestGetDelegatesToRepository(t *testing.T) {
	record := &models.ClaimRecord{ID: 7, ClaimID: "CG-007"}
	reader := &fakeReader{byID: map[int64]*models.ClaimRecord{7: record}}
	svc := NewHistoryService(reader, worker.NewHistoryView(), zap.NewNop())

	got, err := svc.Get(7)
	require.NoError(t, err)
	assert.Equal(t, "CG-007", got.ClaimID)

	_, err = svc.Get(8)
	assert.ErrorIs(t, err, repository.ErrClaimNotFound)
}

func TestHealthyReflectsView(t *testing.T) {
	view := worker.NewHistoryView()
	svc := NewHistoryService(&fakeReader{}, view, zap.NewNop())

	assert.False(t, svc.Healthy())
	view.SetHealthy(true)
	assert.True(t, svc.Healthy())
}
