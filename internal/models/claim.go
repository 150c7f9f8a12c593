package models

import "time"

// ClaimRecord is one persisted adjudication run, listed in the claim history.
type ClaimRecord struct {
	ID            int64     `json:"id"`
	ClaimID       string    `json:"claim_id"`
	MerchantName  string    `json:"merchant_name"`
	PatientName   string    `json:"patient_name"`
	TotalClaimed  float64   `json:"total_claimed"`
	TotalApproved float64   `json:"total_approved"`
	TotalDeducted float64   `json:"total_deducted"`
	Status        string    `json:"status"`
	FullData      string    `json:"full_data"` // raw analyze payload, JSON blob
	CreatedAt     time.Time `json:"created_at"`
}

// Claim status constants as produced by the policy engine.
const (
	ClaimStatusApproved        = "APPROVED"
	ClaimStatusPartialApproval = "PARTIAL_APPROVAL"
	ClaimStatusRejected        = "REJECTED"
	ClaimStatusUnknown         = "UNKNOWN"
)
