package normalizer

import (
	"math"

	"github.com/claimguard/claimguard/internal/models"
)

// FinancialSummary holds the reconciled claim-level amounts.
type FinancialSummary struct {
	TotalClaimed        float64
	TotalApproved       float64
	TotalRejected       float64
	ApprovalRatePercent float64
}

// FinancialReconciler aggregates canonical line items into claim-level
// totals, preferring backend-declared aggregates over local summation.
//
// Precedence per field: final_decision, then policy_adjudication, then the
// sum over line items. The backend totals may include rounding or items not
// representable at line level, so they win when present. Local summation
// buckets each item's claimed amount (the legacy per-item total price, not
// its approved amount) into approved or rejected by the exclusion flag,
// which keeps the claimed-vs-approved split exact for the summary view.
type FinancialReconciler struct{}

// Reconcile computes the financial summary for a claim. The final and policy
// maps are the optional backend totals blocks; either or both may be nil.
func (FinancialReconciler) Reconcile(items []models.CanonicalLineItem, policy, final map[string]any) FinancialSummary {
	var sumClaimed, sumApproved, sumRejected float64
	for _, item := range items {
		sumClaimed += item.ClaimedAmount
		if item.Excluded {
			sumRejected += item.ClaimedAmount
		} else {
			sumApproved += item.ClaimedAmount
		}
	}

	res := NewResolver(final, policy)

	s := FinancialSummary{
		TotalClaimed:  res.Float("total_claimed", sumClaimed),
		TotalApproved: res.Float("total_approved", sumApproved),
		TotalRejected: res.Float("total_deducted", sumRejected),
	}
	s.ApprovalRatePercent = approvalRate(s.TotalApproved, s.TotalClaimed)
	return s
}

// approvalRate returns approved/claimed as a percentage in [0, 100].
// A zero claimed total is defined to be 0%, never NaN.
func approvalRate(approved, claimed float64) float64 {
	if claimed <= 0 {
		return 0
	}
	rate := approved / claimed * 100
	return math.Min(math.Max(rate, 0), 100)
}
