package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/claimguard/claimguard/internal/models"
)

// MessageSender is the messaging contract the notifier depends on.
type MessageSender interface {
	SendMessage(ctx context.Context, receiveIDType, receiveID, msgType, content string) (string, error)
}

// ReviewerNotifier pings the reviewer chat when an adjudicated claim carries
// MEDIUM or HIGH fraud risk. A nil sender or empty chat ID disables it.
type ReviewerNotifier struct {
	sender MessageSender
	chatID string
	logger *zap.Logger
}

// NewReviewerNotifier creates a reviewer notifier.
func NewReviewerNotifier(sender MessageSender, chatID string, logger *zap.Logger) *ReviewerNotifier {
	if sender == nil || chatID == "" {
		logger.Info("Reviewer notifications disabled")
	}
	return &ReviewerNotifier{
		sender: sender,
		chatID: chatID,
		logger: logger,
	}
}

// Enabled reports whether the notifier will actually send anything.
func (n *ReviewerNotifier) Enabled() bool {
	return n.sender != nil && n.chatID != ""
}

// NotifyRiskyClaim sends a reviewer alert for MEDIUM or HIGH risk claims.
// LOW risk and unevaluated claims are skipped.
func (n *ReviewerNotifier) NotifyRiskyClaim(ctx context.Context, result *models.ClaimResult) error {
	if !n.Enabled() {
		return nil
	}
	risk := result.RiskAssessment
	if risk == nil || risk.Level == models.RiskLevelLow {
		return nil
	}

	content, err := buildAlertContent(result)
	if err != nil {
		return fmt.Errorf("failed to build alert content: %w", err)
	}

	messageID, err := n.sender.SendMessage(ctx, "chat_id", n.chatID, "text", content)
	if err != nil {
		return fmt.Errorf("failed to notify reviewers: %w", err)
	}

	n.logger.Info("Reviewer alert sent",
		zap.String("claim_id", result.ClaimID),
		zap.String("risk_level", string(risk.Level)),
		zap.String("message_id", messageID))
	return nil
}

// NotifyRiskyClaimAsync is a non-blocking variant that logs failures instead
// of returning them, so adjudication never waits on messaging.
func (n *ReviewerNotifier) NotifyRiskyClaimAsync(ctx context.Context, result *models.ClaimResult) {
	go func() {
		if err := n.NotifyRiskyClaim(ctx, result); err != nil {
			n.logger.Warn("Failed to send reviewer alert",
				zap.String("claim_id", result.ClaimID),
				zap.Error(err))
		}
	}()
}

func buildAlertContent(result *models.ClaimResult) (string, error) {
	risk := result.RiskAssessment

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s RISK] Claim %s needs review\n", risk.Level, result.ClaimID)
	fmt.Fprintf(&sb, "Merchant: %s\n", result.MerchantName)
	fmt.Fprintf(&sb, "Patient: %s\n", result.PatientName)
	fmt.Fprintf(&sb, "Claimed: Rs.%.2f / Approved: Rs.%.2f\n", result.TotalClaimed, result.TotalApproved)
	fmt.Fprintf(&sb, "Recommendation: %s (confidence %.1f%%)", risk.Recommendation, risk.ConfidencePercent)
	for _, indicator := range risk.Indicators {
		fmt.Fprintf(&sb, "\n- %s", indicator)
	}

	payload, err := json.Marshal(map[string]string{"text": sb.String()})
	if err != nil {
		return "", err
	}
	return string(payload), nil
}
