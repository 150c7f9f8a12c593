package models

// ItemStatus is the adjudication outcome for a single line item.
type ItemStatus string

const (
	ItemStatusApproved ItemStatus = "APPROVED"
	ItemStatusRejected ItemStatus = "REJECTED"
	ItemStatusUnknown  ItemStatus = "UNKNOWN"
)

// String returns the string representation of the status.
func (s ItemStatus) String() string {
	return string(s)
}

// RiskLevel is the discrete fraud-risk classification shown to reviewers.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "LOW"
	RiskLevelMedium RiskLevel = "MEDIUM"
	RiskLevelHigh   RiskLevel = "HIGH"
)

// Recommendation is the fraud-detection recommendation from the vision stage.
type Recommendation string

const (
	RecommendationApprove      Recommendation = "APPROVE"
	RecommendationManualReview Recommendation = "MANUAL_REVIEW"
	RecommendationReject       Recommendation = "REJECT"
)

// CanonicalLineItem is one billed item after normalization.
// Invariants: Excluded == (Status == REJECTED); if MedicalSeverity is
// "CRITICAL" then ApprovedAmount is 0 regardless of what the backend sent.
type CanonicalLineItem struct {
	Name            string     `json:"name"`
	Quantity        int        `json:"quantity"`
	ClaimedAmount   float64    `json:"claimed_amount"`
	ApprovedAmount  float64    `json:"approved_amount"`
	Category        string     `json:"category"`
	Status          ItemStatus `json:"status"`
	Excluded        bool       `json:"excluded"`
	ExclusionReason *string    `json:"exclusion_reason"`
	MedicalSeverity *string    `json:"medical_severity"`
}

// ExcludedItem summarizes one rejected line item for the exclusions panel.
type ExcludedItem struct {
	Name   string  `json:"item_name"`
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
}

// RiskAssessment is the classified fraud signal for a claim. A nil
// *RiskAssessment means the fraud block was absent, which is "not evaluated"
// and must not be conflated with LOW.
type RiskAssessment struct {
	Level             RiskLevel      `json:"level"`
	ConfidencePercent float64        `json:"confidence_percent"`
	Indicators        []string       `json:"indicators"`
	Recommendation    Recommendation `json:"recommendation"`
}

// ClaimResult is the single internally-consistent view of one adjudication
// run, assembled by the normalizer from the raw backend payload.
// Invariant: TotalApproved + TotalRejected == TotalClaimed whenever the
// totals come from local line-item summation.
type ClaimResult struct {
	ClaimID         string              `json:"claim_id"`
	ClaimType       string              `json:"claim_type"`
	MerchantName    string              `json:"merchant_name"`
	MerchantAddress string              `json:"merchant_address"`
	Date            string              `json:"date"`
	PatientName     string              `json:"patient_name"`
	Status          string              `json:"status"`
	LineItems       []CanonicalLineItem `json:"line_items"`

	TotalClaimed        float64 `json:"total_claimed"`
	TotalApproved       float64 `json:"total_approved"`
	TotalRejected       float64 `json:"total_rejected"`
	ApprovalRatePercent float64 `json:"approval_rate_percent"`

	ExcludedItems []ExcludedItem  `json:"excluded_items_found"`
	Summary       string          `json:"summary"`
	RiskAssessment *RiskAssessment `json:"risk_assessment"`

	// Diagnostics records recoverable gaps in the raw payload (missing
	// blocks, missing fields). Informational only; never fatal.
	Diagnostics []string `json:"diagnostics,omitempty"`
}
