// Package policy enforces health-insurance policy rules against an extracted
// receipt: exclusion lists, room-rent capping with proportionate deduction,
// and claim-level status derivation.
package policy

import (
	"fmt"
	"math"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/claimguard/claimguard/internal/models"
)

const (
	defaultSumInsured = 500000 // 5 lakhs when the claim does not state one
	exclusionCacheSize = 512
)

// Decision is the adjudication outcome for a single line item.
type Decision struct {
	ItemName       string  `json:"item_name"`
	ClaimedAmount  float64 `json:"claimed_amount"`
	ApprovedAmount float64 `json:"approved_amount"`
	Status         string  `json:"status"`
	Category       string  `json:"category,omitempty"`
	Quantity       int     `json:"quantity,omitempty"`
	Reason         string  `json:"reason"`

	// Medical-necessity flags are attached after adjudication by the
	// analysis pipeline; the engine itself never sets them.
	MedicalNecessity *string `json:"medical_necessity,omitempty"`
	MedicalReason    *string `json:"medical_reason,omitempty"`
	MedicalSeverity  *string `json:"medical_severity,omitempty"`
}

// Result is the claim-level adjudication outcome.
type Result struct {
	ClaimID                  string     `json:"claim_id"`
	ClaimType                string     `json:"claim_type"`
	MerchantName             string     `json:"merchant_name"`
	PatientName              string     `json:"patient_name"`
	TotalClaimed             float64    `json:"total_claimed"`
	TotalApproved            float64    `json:"total_approved"`
	TotalDeducted            float64    `json:"total_deducted"`
	Status                   string     `json:"status"`
	ExcludedItemsCount       int        `json:"excluded_items_count"`
	RoomRentDeductionApplied bool       `json:"room_rent_deduction_applied"`
	DeductionReason          string     `json:"deduction_reason,omitempty"`
	LineItemDecisions        []Decision `json:"line_item_decisions"`
	Summary                  string     `json:"summary"`
}

// exclusionMatch caches the outcome of an exclusion lookup for one item name.
type exclusionMatch struct {
	excluded bool
	category string
	reason   string
}

// deductionInfo carries the room-rent proportionate deduction computation.
type deductionInfo struct {
	ratio           float64
	applied         bool
	reason          string
	allowedRoomRent float64
	actualRoomRent  float64
}

// Engine adjudicates claims against a loaded policy rule set.
type Engine struct {
	rules  *Rules
	cache  *lru.Cache[string, exclusionMatch]
	logger *zap.Logger
}

// NewEngine creates a policy engine from a rules file. Exclusion lookups are
// cached since pharmacy receipts repeat item names across claims.
func NewEngine(rulesPath string, logger *zap.Logger) (*Engine, error) {
	rules, err := LoadRules(rulesPath)
	if err != nil {
		return nil, err
	}
	return NewEngineWithRules(rules, logger)
}

// NewEngineWithRules creates a policy engine from an in-memory rule set.
func NewEngineWithRules(rules *Rules, logger *zap.Logger) (*Engine, error) {
	cache, err := lru.New[string, exclusionMatch](exclusionCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create exclusion cache: %w", err)
	}

	return &Engine{
		rules:  rules,
		cache:  cache,
		logger: logger,
	}, nil
}

// Adjudicate applies policy rules to an extracted receipt and returns the
// claim-level result. Totals are computed from the per-item policy outcomes
// alone; medical flags attached later do not feed back into them.
func (e *Engine) Adjudicate(claim *models.ReceiptData) *Result {
	totalClaimed := claim.TotalAmount
	var totalApproved float64
	excludedCount := 0

	deduction := e.proportionateDeduction(claim)

	decisions := make([]Decision, 0, len(claim.LineItems))
	for _, item := range claim.LineItems {
		decision := Decision{
			ItemName:      item.Name,
			ClaimedAmount: item.TotalPrice,
			Category:      item.Category,
			Quantity:      item.Quantity,
		}

		match := e.lookupExclusion(item.Name)
		if match.excluded {
			decision.Status = models.ItemStatusRejected.String()
			decision.Reason = fmt.Sprintf("Excluded: %s - %s", match.category, match.reason)
			decision.ApprovedAmount = 0
			excludedCount++
		} else {
			decision.Status = models.ItemStatusApproved.String()
			decision.ApprovedAmount = round2(item.TotalPrice * deduction.ratio)
			decision.Reason = e.approvalReason(item.Name, deduction)
			totalApproved += decision.ApprovedAmount
		}

		decisions = append(decisions, decision)
	}

	status := deriveStatus(totalApproved, totalClaimed)

	result := &Result{
		ClaimID:                  claim.ClaimID,
		ClaimType:                claim.ClaimType,
		MerchantName:             claim.MerchantName,
		PatientName:              claim.PatientName,
		TotalClaimed:             round2(totalClaimed),
		TotalApproved:            round2(totalApproved),
		TotalDeducted:            round2(totalClaimed - totalApproved),
		Status:                   status,
		ExcludedItemsCount:       excludedCount,
		RoomRentDeductionApplied: deduction.applied,
		DeductionReason:          deduction.reason,
		LineItemDecisions:        decisions,
	}
	result.Summary = e.summarize(result, deduction)

	e.logger.Info("claim adjudicated",
		zap.String("claim_id", result.ClaimID),
		zap.String("status", result.Status),
		zap.Float64("total_claimed", result.TotalClaimed),
		zap.Float64("total_approved", result.TotalApproved),
		zap.Int("excluded_items", excludedCount))

	return result
}

// lookupExclusion checks an item name against the exclusion lists, consulting
// the cache first.
func (e *Engine) lookupExclusion(itemName string) exclusionMatch {
	key := strings.ToLower(itemName)
	if match, ok := e.cache.Get(key); ok {
		return match
	}

	match := e.matchExclusion(key)
	e.cache.Add(key, match)
	return match
}

// matchExclusion performs the actual exclusion scan. Item names match a
// category entry when either string contains the other; partial keywords
// match by substring.
func (e *Engine) matchExclusion(nameLower string) exclusionMatch {
	for _, category := range e.rules.ExcludedItems.Categories {
		for _, excludedItem := range category.Items {
			itemLower := strings.ToLower(excludedItem)
			if strings.Contains(nameLower, itemLower) || strings.Contains(itemLower, nameLower) {
				return exclusionMatch{excluded: true, category: category.Category, reason: category.Reason}
			}
		}
	}

	for _, keyword := range e.rules.ExcludedItems.PartialMatchKeywords {
		if strings.Contains(nameLower, strings.ToLower(keyword)) {
			return exclusionMatch{
				excluded: true,
				category: "Partial Match",
				reason:   fmt.Sprintf("Contains excluded keyword: %s", keyword),
			}
		}
	}

	return exclusionMatch{}
}

// proportionateDeduction computes the room-rent cap ratio for the claim.
// When the daily room rent exceeds the allowed percentage of the sum
// insured, every non-excluded item is approved at the same reduced ratio.
func (e *Engine) proportionateDeduction(claim *models.ReceiptData) deductionInfo {
	info := deductionInfo{ratio: 1.0}

	sumInsured := claim.SumInsured
	if sumInsured <= 0 {
		sumInsured = defaultSumInsured
	}
	info.allowedRoomRent = sumInsured * e.rules.RoomRentRules.AllowedPercentage / 100

	for _, item := range claim.LineItems {
		if !isRoomRent(item.Name) {
			continue
		}
		info.actualRoomRent = item.UnitPrice
		break
	}

	if info.actualRoomRent > info.allowedRoomRent {
		info.ratio = info.allowedRoomRent / info.actualRoomRent
		info.applied = true
		info.reason = fmt.Sprintf(
			"Room rent of Rs.%.2f/day exceeds allowed limit of Rs.%.2f/day (%.0f%% of Rs.%.2f sum insured). Proportionate deduction ratio: %.4f",
			info.actualRoomRent, info.allowedRoomRent,
			e.rules.RoomRentRules.AllowedPercentage, sumInsured, info.ratio)
	}

	return info
}

func (e *Engine) approvalReason(itemName string, deduction deductionInfo) string {
	switch {
	case deduction.applied && isRoomRent(itemName):
		return fmt.Sprintf("Room rent capped at policy limit (Rs.%.2f/day)", deduction.allowedRoomRent)
	case deduction.applied:
		return fmt.Sprintf("Approved with proportionate deduction (%.2f%%)", deduction.ratio*100)
	default:
		return "Approved - complies with policy"
	}
}

// summarize builds the human-readable adjudication summary.
func (e *Engine) summarize(r *Result, deduction deductionInfo) string {
	var lines []string

	switch r.Status {
	case models.ClaimStatusApproved:
		lines = append(lines, "Claim FULLY APPROVED - All items comply with policy rules")
	case models.ClaimStatusPartialApproval:
		lines = append(lines, "Claim PARTIALLY APPROVED - Some deductions applied")
		if r.ExcludedItemsCount > 0 {
			lines = append(lines, fmt.Sprintf("  - %d excluded item(s) found and rejected", r.ExcludedItemsCount))
		}
		if deduction.applied {
			lines = append(lines, "  - Room rent exceeded policy limit, proportionate deduction applied")
		}
	default:
		lines = append(lines, "Claim REJECTED - Does not comply with policy")
	}

	lines = append(lines,
		fmt.Sprintf("  - Claimed: Rs.%.2f", r.TotalClaimed),
		fmt.Sprintf("  - Approved: Rs.%.2f", r.TotalApproved),
		fmt.Sprintf("  - Deducted: Rs.%.2f", r.TotalDeducted))

	return strings.Join(lines, "\n")
}

// deriveStatus maps the approved/claimed relation to a claim status.
func deriveStatus(approved, claimed float64) string {
	switch {
	case approved == 0:
		return models.ClaimStatusRejected
	case approved < claimed:
		return models.ClaimStatusPartialApproval
	default:
		return models.ClaimStatusApproved
	}
}

func isRoomRent(itemName string) bool {
	lower := strings.ToLower(itemName)
	return strings.Contains(lower, "room rent") || strings.Contains(lower, "room charge")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
