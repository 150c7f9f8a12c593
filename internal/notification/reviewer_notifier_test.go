package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/claimguard/claimguard/internal/models"
)

type fakeSender struct {
	calls   []string
	lastErr error
}

func (f *fakeSender) SendMessage(_ context.Context, _, _, _, content string) (string, error) {
	if f.lastErr != nil {
		return "", f.lastErr
	}
	f.calls = append(f.calls, content)
	return "msg-1", nil
}

func riskyResult(level models.RiskLevel) *models.ClaimResult {
	return &models.ClaimResult{
		ClaimID:       "CG-001",
		MerchantName:  "City Medicals",
		PatientName:   "Ravi Kumar",
		TotalClaimed:  9000,
		TotalApproved: 9000,
		RiskAssessment: &models.RiskAssessment{
			Level:             level,
			ConfidencePercent: 85.0,
			Indicators:        []string{"Handwritten total over printed amount"},
			Recommendation:    models.RecommendationManualReview,
		},
	}
}

func TestNotifySkipsLowRiskAndUnevaluated(t *testing.T) {
	sender := &fakeSender{}
	notifier := NewReviewerNotifier(sender, "oc_reviewers", zap.NewNop())

	require.NoError(t, notifier.NotifyRiskyClaim(context.Background(), riskyResult(models.RiskLevelLow)))
	require.NoError(t, notifier.NotifyRiskyClaim(context.Background(), &models.ClaimResult{ClaimID: "CG-002"}))
	assert.Empty(t, sender.calls)
}

func TestNotifySendsForMediumAndHigh(t *testing.T) {
	sender := &fakeSender{}
	notifier := NewReviewerNotifier(sender, "oc_reviewers", zap.NewNop())

	require.NoError(t, notifier.NotifyRiskyClaim(context.Background(), riskyResult(models.RiskLevelMedium)))
	require.NoError(t, notifier.NotifyRiskyClaim(context.Background(), riskyResult(models.RiskLevelHigh)))
	require.Len(t, sender.calls, 2)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(sender.calls[0]), &payload))
	assert.Contains(t, payload["text"], "MEDIUM RISK")
	assert.Contains(t, payload["text"], "CG-001")
	assert.Contains(t, payload["text"], "Handwritten total")
}

func TestNotifyDisabledWithoutChatID(t *testing.T) {
	sender := &fakeSender{}
	notifier := NewReviewerNotifier(sender, "", zap.NewNop())

	assert.False(t, notifier.Enabled())
	require.NoError(t, notifier.NotifyRiskyClaim(context.Background(), riskyResult(models.RiskLevelHigh)))
	assert.Empty(t, sender.calls)
}

func TestNotifyPropagatesSendFailure(t *testing.T) {
	sender := &fakeSender{lastErr: errors.New("network down")}
	notifier := NewReviewerNotifier(sender, "oc_reviewers", zap.NewNop())

	err := notifier.NotifyRiskyClaim(context.Background(), riskyResult(models.RiskLevelHigh))
	assert.ErrorContains(t, err, "failed to notify reviewers")
}
