// Package service orchestrates the claim adjudication pipeline: vision
// extraction, medical evaluation, policy adjudication, payload assembly,
// normalization and persistence.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/claimguard/claimguard/internal/medical"
	"github.com/claimguard/claimguard/internal/models"
	"github.com/claimguard/claimguard/internal/normalizer"
	"github.com/claimguard/claimguard/internal/policy"
	"github.com/claimguard/claimguard/internal/review"
)

// ErrAnalysisInProgress is returned when an analyze call arrives while the
// review session is already mid-flight.
var ErrAnalysisInProgress = errors.New("an analysis is already in progress")

// VisionExtractor extracts structured receipt data from a claim document.
type VisionExtractor interface {
	Extract(ctx context.Context, documentPath string) (*models.ReceiptData, error)
}

// MedicalEvaluator verdicts line items for medical necessity.
type MedicalEvaluator interface {
	Evaluate(ctx context.Context, receipt *models.ReceiptData) ([]medical.Evaluation, error)
}

// Adjudicator applies policy rules to an extracted receipt.
type Adjudicator interface {
	Adjudicate(claim *models.ReceiptData) *policy.Result
}

// ClaimStore persists adjudicated claims.
type ClaimStore interface {
	Create(record *models.ClaimRecord) error
}

// RiskNotifier alerts reviewers about risky claims without blocking.
type RiskNotifier interface {
	NotifyRiskyClaimAsync(ctx context.Context, result *models.ClaimResult)
}

// AnalysisService runs the full adjudication pipeline for one document and
// drives the review session through it.
type AnalysisService struct {
	vision     VisionExtractor
	medical    MedicalEvaluator
	policy     Adjudicator
	normalizer *normalizer.ResultNormalizer
	store      ClaimStore
	notifier   RiskNotifier
	session    *review.Session
	logger     *zap.Logger
}

// NewAnalysisService creates an analysis service. The notifier may be nil.
func NewAnalysisService(
	vision VisionExtractor,
	medicalEval MedicalEvaluator,
	adjudicator Adjudicator,
	resultNormalizer *normalizer.ResultNormalizer,
	store ClaimStore,
	notifier RiskNotifier,
	session *review.Session,
	logger *zap.Logger,
) *AnalysisService {
	return &AnalysisService{
		vision:     vision,
		medical:    medicalEval,
		policy:     adjudicator,
		normalizer: resultNormalizer,
		store:      store,
		notifier:   notifier,
		session:    session,
		logger:     logger,
	}
}

// Session exposes the review session for state inspection.
func (s *AnalysisService) Session() *review.Session {
	return s.session
}

// AnalyzeDocument runs the pipeline for one uploaded claim document and
// returns the normalized result.
func (s *AnalysisService) AnalyzeDocument(ctx context.Context, documentPath string) (*models.ClaimResult, error) {
	// A previous failure parks the session in Failed; recover to Idle so
	// the next upload is not rejected.
	if s.session.State() == review.StateFailed {
		if err := s.session.Reset(ctx); err != nil {
			return nil, err
		}
	}

	if err := s.session.StartUpload(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisInProgress, err)
	}

	result, err := s.runPipeline(ctx, documentPath)
	if err != nil {
		if failErr := s.session.Fail(ctx, err); failErr != nil {
			s.logger.Error("Failed to record session failure", zap.Error(failErr))
		}
		return nil, err
	}

	if err := s.session.Display(ctx, result); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyRiskyClaimAsync(context.WithoutCancel(ctx), result)
	}
	return result, nil
}

func (s *AnalysisService) runPipeline(ctx context.Context, documentPath string) (*models.ClaimResult, error) {
	receipt, err := s.vision.Extract(ctx, documentPath)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}
	if receipt.ClaimID == "" {
		receipt.ClaimID = newClaimID()
	}

	evaluations, err := s.medical.Evaluate(ctx, receipt)
	if err != nil {
		return nil, fmt.Errorf("medical evaluation failed: %w", err)
	}

	adjudication := s.policy.Adjudicate(receipt)
	attachMedicalFlags(adjudication, evaluations)

	if err := s.session.PayloadReceived(ctx); err != nil {
		return nil, err
	}

	raw, err := assemblePayload(receipt, adjudication)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble payload: %w", err)
	}

	result, err := s.normalizer.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("normalization failed: %w", err)
	}

	record := &models.ClaimRecord{
		ClaimID:       result.ClaimID,
		MerchantName:  result.MerchantName,
		PatientName:   result.PatientName,
		TotalClaimed:  result.TotalClaimed,
		TotalApproved: result.TotalApproved,
		TotalDeducted: result.TotalRejected,
		Status:        result.Status,
		FullData:      string(raw),
	}
	if err := s.store.Create(record); err != nil {
		return nil, fmt.Errorf("failed to persist claim: %w", err)
	}

	s.logger.Info("Claim analyzed",
		zap.String("claim_id", result.ClaimID),
		zap.String("status", result.Status),
		zap.Float64("total_approved", result.TotalApproved))

	return result, nil
}

// attachMedicalFlags merges per-item medical verdicts into the policy
// decisions. Evaluations are positionally aligned with the line items; the
// policy totals are already fixed at this point.
func attachMedicalFlags(adjudication *policy.Result, evaluations []medical.Evaluation) {
	for i := range adjudication.LineItemDecisions {
		if i >= len(evaluations) {
			break
		}
		eval := evaluations[i]
		decision := &adjudication.LineItemDecisions[i]

		necessity := eval.Status
		decision.MedicalNecessity = &necessity
		if eval.Reason != "" {
			reason := eval.Reason
			decision.MedicalReason = &reason
		}
		if eval.Severity != medical.SeverityNone {
			severity := eval.Severity
			decision.MedicalSeverity = &severity
		}
	}
}

// assemblePayload builds the raw adjudication payload the normalizer
// consumes: the vision block (with fraud_detection), the policy block (with
// line_item_decisions) and the claim-level final decision.
func assemblePayload(receipt *models.ReceiptData, adjudication *policy.Result) ([]byte, error) {
	payload := map[string]any{
		"vision_analysis":     receipt,
		"policy_adjudication": adjudication,
		"final_decision": map[string]any{
			"status":         adjudication.Status,
			"summary":        adjudication.Summary,
			"total_claimed":  adjudication.TotalClaimed,
			"total_approved": adjudication.TotalApproved,
			"total_deducted": adjudication.TotalDeducted,
		},
	}
	return json.Marshal(payload)
}

func newClaimID() string {
	return "CG-" + uuid.NewString()[:8]
}
