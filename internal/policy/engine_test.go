package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/claimguard/claimguard/internal/models"
)

func testRules() *Rules {
	return &Rules{
		ExcludedItems: ExcludedItems{
			Categories: []ExclusionCategory{
				{
					Category: "Cosmetics",
					Reason:   "Cosmetic products are not covered",
					Items:    []string{"Hair Growth Serum", "Face Cream"},
				},
				{
					Category: "Supplements",
					Reason:   "Dietary supplements are not covered",
					Items:    []string{"Protein Powder"},
				},
			},
			PartialMatchKeywords: []string{"cosmetic", "toiletries"},
		},
		RoomRentRules: RoomRentRules{AllowedPercentage: 1},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngineWithRules(testRules(), zap.NewNop())
	require.NoError(t, err)
	return engine
}

func TestAdjudicateCleanClaim(t *testing.T) {
	engine := newTestEngine(t)

	claim := &models.ReceiptData{
		ClaimID:     "CG-100",
		ClaimType:   "pharmacy_reimbursement",
		TotalAmount: 300,
		LineItems: []models.ReceiptLineItem{
			{Name: "Paracetamol 500mg", Quantity: 2, UnitPrice: 50, TotalPrice: 100, Category: "Medicine"},
			{Name: "Amoxicillin 250mg", Quantity: 1, UnitPrice: 200, TotalPrice: 200, Category: "Medicine"},
		},
	}

	result := engine.Adjudicate(claim)

	assert.Equal(t, models.ClaimStatusApproved, result.Status)
	assert.Equal(t, 300.0, result.TotalClaimed)
	assert.Equal(t, 300.0, result.TotalApproved)
	assert.Equal(t, 0.0, result.TotalDeducted)
	assert.Equal(t, 0, result.ExcludedItemsCount)
	require.Len(t, result.LineItemDecisions, 2)
	assert.Equal(t, "Approved - complies with policy", result.LineItemDecisions[0].Reason)
}

func TestAdjudicateExclusions(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name           string
		itemName       string
		expectExcluded bool
		reasonContains string
	}{
		{name: "exact list match", itemName: "Hair Growth Serum", expectExcluded: true, reasonContains: "Cosmetics"},
		{name: "list item contained in name", itemName: "Premium Face Cream 50g", expectExcluded: true, reasonContains: "Cosmetics"},
		{name: "partial keyword match", itemName: "Herbal cosmetic kit", expectExcluded: true, reasonContains: "excluded keyword"},
		{name: "case insensitive", itemName: "PROTEIN POWDER", expectExcluded: true, reasonContains: "Supplements"},
		{name: "covered medicine", itemName: "Insulin Glargine", expectExcluded: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claim := &models.ReceiptData{
				TotalAmount: 100,
				LineItems: []models.ReceiptLineItem{
					{Name: tt.itemName, TotalPrice: 100},
				},
			}

			result := engine.Adjudicate(claim)
			require.Len(t, result.LineItemDecisions, 1)
			decision := result.LineItemDecisions[0]

			if tt.expectExcluded {
				assert.Equal(t, "REJECTED", decision.Status)
				assert.Equal(t, 0.0, decision.ApprovedAmount)
				assert.Contains(t, decision.Reason, tt.reasonContains)
			} else {
				assert.Equal(t, "APPROVED", decision.Status)
				assert.Equal(t, 100.0, decision.ApprovedAmount)
			}
		})
	}
}

func TestAdjudicatePartialApproval(t *testing.T) {
	engine := newTestEngine(t)

	claim := &models.ReceiptData{
		ClaimID:     "CG-101",
		TotalAmount: 1500,
		LineItems: []models.ReceiptLineItem{
			{Name: "Hair Growth Serum", TotalPrice: 500},
			{Name: "Amoxicillin 250mg", TotalPrice: 1000},
		},
	}

	result := engine.Adjudicate(claim)

	assert.Equal(t, models.ClaimStatusPartialApproval, result.Status)
	assert.Equal(t, 1000.0, result.TotalApproved)
	assert.Equal(t, 500.0, result.TotalDeducted)
	assert.Equal(t, 1, result.ExcludedItemsCount)
	assert.Contains(t, result.Summary, "PARTIALLY APPROVED")
	assert.Contains(t, result.Summary, "1 excluded item(s)")
}

func TestAdjudicateFullRejection(t *testing.T) {
	engine := newTestEngine(t)

	claim := &models.ReceiptData{
		TotalAmount: 850,
		LineItems: []models.ReceiptLineItem{
			{Name: "Face Cream", TotalPrice: 500},
			{Name: "Protein Powder", TotalPrice: 350},
		},
	}

	result := engine.Adjudicate(claim)

	assert.Equal(t, models.ClaimStatusRejected, result.Status)
	assert.Equal(t, 0.0, result.TotalApproved)
	assert.Contains(t, result.Summary, "REJECTED")
}

func TestAdjudicateRoomRentProportionateDeduction(t *testing.T) {
	engine := newTestEngine(t)

	// Sum insured 500000 at 1% allows Rs.5000/day; Rs.10000/day halves
	// every approved amount.
	claim := &models.ReceiptData{
		ClaimID:     "CG-102",
		TotalAmount: 30000,
		SumInsured:  500000,
		LineItems: []models.ReceiptLineItem{
			{Name: "Room Rent (2 days)", Quantity: 2, UnitPrice: 10000, TotalPrice: 20000},
			{Name: "Nursing Charges", Quantity: 1, UnitPrice: 10000, TotalPrice: 10000},
		},
	}

	result := engine.Adjudicate(claim)

	assert.True(t, result.RoomRentDeductionApplied)
	assert.Contains(t, result.DeductionReason, "exceeds allowed limit")
	assert.Equal(t, 15000.0, result.TotalApproved)
	assert.Equal(t, models.ClaimStatusPartialApproval, result.Status)

	require.Len(t, result.LineItemDecisions, 2)
	assert.Equal(t, 10000.0, result.LineItemDecisions[0].ApprovedAmount)
	assert.Contains(t, result.LineItemDecisions[0].Reason, "capped at policy limit")
	assert.Equal(t, 5000.0, result.LineItemDecisions[1].ApprovedAmount)
	assert.Contains(t, result.LineItemDecisions[1].Reason, "proportionate deduction")
}

func TestAdjudicateRoomRentWithinLimit(t *testing.T) {
	engine := newTestEngine(t)

	claim := &models.ReceiptData{
		TotalAmount: 8000,
		SumInsured:  500000,
		LineItems: []models.ReceiptLineItem{
			{Name: "Room Charges", Quantity: 2, UnitPrice: 4000, TotalPrice: 8000},
		},
	}

	result := engine.Adjudicate(claim)

	assert.False(t, result.RoomRentDeductionApplied)
	assert.Equal(t, 8000.0, result.TotalApproved)
	assert.Equal(t, models.ClaimStatusApproved, result.Status)
}

func TestAdjudicateEmptyClaimIsRejected(t *testing.T) {
	engine := newTestEngine(t)

	result := engine.Adjudicate(&models.ReceiptData{})

	assert.Equal(t, models.ClaimStatusRejected, result.Status)
	assert.Empty(t, result.LineItemDecisions)
}

func TestExclusionLookupCaching(t *testing.T) {
	engine := newTestEngine(t)

	first := engine.lookupExclusion("Hair Growth Serum")
	second := engine.lookupExclusion("hair growth serum")

	assert.True(t, first.excluded)
	assert.Equal(t, first, second, "cache is case-insensitive on item name")
	_, cached := engine.cache.Get("hair growth serum")
	assert.True(t, cached)
}
