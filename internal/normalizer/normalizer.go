// Package normalizer turns the heterogeneous, defensively-optional payload
// produced by the adjudication backend into a single canonical ClaimResult.
// Normalization is pure and deterministic: it either fails atomically with
// ErrMalformedPayload, or returns a fully-defaulted, internally-consistent
// result. It holds no state and is safe for concurrent use.
package normalizer

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/claimguard/claimguard/internal/models"
)

// Defaults for claim-level fields absent from every source block.
const (
	defaultFieldValue  = "N/A"
	defaultClaimStatus = models.ClaimStatusUnknown
	defaultSummary     = "Analysis complete"
)

// ResultNormalizer is the composition root of the normalization layer. It
// orchestrates line-item normalization, financial reconciliation and risk
// classification over one raw backend payload.
type ResultNormalizer struct {
	items     LineItemNormalizer
	financial FinancialReconciler
	risk      RiskClassifier
	logger    *zap.Logger
}

// NewResultNormalizer creates a normalizer. The logger may be zap.NewNop()
// for callers that do not want normalization diagnostics logged.
func NewResultNormalizer(logger *zap.Logger) *ResultNormalizer {
	return &ResultNormalizer{logger: logger}
}

// Normalize parses and normalizes a raw backend payload. It fails with
// ErrMalformedPayload when the payload is not a JSON object; a valid but
// empty object normalizes to a fully-defaulted result.
func (n *ResultNormalizer) Normalize(data []byte) (*models.ClaimResult, error) {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	payload, ok := probe.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrMalformedPayload, probe)
	}

	return n.NormalizePayload(payload), nil
}

// NormalizePayload normalizes an already-decoded payload object. Missing
// blocks and fields default per the normalization contract and are recorded
// in the result's diagnostics list.
func (n *ResultNormalizer) NormalizePayload(payload map[string]any) *models.ClaimResult {
	var diagnostics []string
	missing := func(field string) {
		diagnostics = append(diagnostics, "missing field: "+field)
	}

	vision := objectField(payload, "vision_analysis")
	if vision == nil {
		missing("vision_analysis")
	}
	policy := objectField(payload, "policy_adjudication")
	if policy == nil {
		missing("policy_adjudication")
	}
	final := objectField(payload, "final_decision")
	if final == nil {
		missing("final_decision")
	}

	rawDecisions := sliceField(policy, "line_item_decisions")
	if policy != nil && rawDecisions == nil {
		missing("policy_adjudication.line_item_decisions")
	}

	// Normalize each decision in input order.
	lineItems := make([]models.CanonicalLineItem, 0, len(rawDecisions))
	for _, raw := range rawDecisions {
		decision, ok := raw.(map[string]any)
		if !ok {
			// Non-object entries normalize to a fully-defaulted item so the
			// row count stays faithful to the backend's list.
			decision = nil
		}
		lineItems = append(lineItems, n.items.Normalize(decision))
	}

	// Excluded-items summary is the ordered subsequence of rejected items.
	var excluded []models.ExcludedItem
	for _, item := range lineItems {
		if !item.Excluded {
			continue
		}
		reason := defaultReason
		if item.ExclusionReason != nil {
			reason = *item.ExclusionReason
		}
		excluded = append(excluded, models.ExcludedItem{
			Name:   item.Name,
			Amount: item.ClaimedAmount,
			Reason: reason,
		})
	}

	totals := n.financial.Reconcile(lineItems, policy, final)

	fraud := objectField(vision, "fraud_detection")
	if vision != nil && fraud == nil {
		missing("vision_analysis.fraud_detection")
	}
	risk := n.risk.Classify(fraud)

	// The final-decision block, when present, overrides the corresponding
	// policy-adjudication field; hardcoded defaults are the last resort.
	overridable := NewResolver(final, policy)
	policyOnly := NewResolver(policy)
	merchant := NewResolver(policy, vision)
	visionOnly := NewResolver(vision)

	result := &models.ClaimResult{
		ClaimID:         policyOnly.String("claim_id", defaultFieldValue),
		ClaimType:       policyOnly.String("claim_type", defaultFieldValue),
		MerchantName:    merchant.String("merchant_name", defaultFieldValue),
		MerchantAddress: visionOnly.String("merchant_address", defaultFieldValue),
		Date:            visionOnly.String("date", defaultFieldValue),
		PatientName:     policyOnly.String("patient_name", defaultFieldValue),
		Status:          overridable.String("status", defaultClaimStatus),

		LineItems:           lineItems,
		TotalClaimed:        totals.TotalClaimed,
		TotalApproved:       totals.TotalApproved,
		TotalRejected:       totals.TotalRejected,
		ApprovalRatePercent: totals.ApprovalRatePercent,

		ExcludedItems:  excluded,
		Summary:        overridable.String("summary", defaultSummary),
		RiskAssessment: risk,
		Diagnostics:    diagnostics,
	}

	if len(diagnostics) > 0 {
		n.logger.Debug("payload normalized with gaps",
			zap.String("claim_id", result.ClaimID),
			zap.Strings("diagnostics", diagnostics))
	}

	return result
}
