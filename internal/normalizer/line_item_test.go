package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimguard/claimguard/internal/models"
)

func TestNormalizeLineItemDefaults(t *testing.T) {
	var n LineItemNormalizer

	item := n.Normalize(map[string]any{})

	assert.Equal(t, "Unknown Item", item.Name)
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, 0.0, item.ClaimedAmount)
	assert.Equal(t, 0.0, item.ApprovedAmount)
	assert.Equal(t, "", item.Category)
	assert.Equal(t, models.ItemStatusUnknown, item.Status)
	assert.False(t, item.Excluded)
	assert.Nil(t, item.ExclusionReason, "reason only set for rejected items")
	assert.Nil(t, item.MedicalSeverity)
}

func TestNormalizeLineItemNilRecord(t *testing.T) {
	var n LineItemNormalizer

	item := n.Normalize(nil)

	assert.Equal(t, "Unknown Item", item.Name)
	assert.Equal(t, models.ItemStatusUnknown, item.Status)
}

func TestNormalizeLineItemMissingApprovedAssumesFullApproval(t *testing.T) {
	var n LineItemNormalizer

	item := n.Normalize(map[string]any{
		"item_name":      "Paracetamol 500mg",
		"claimed_amount": 120.0,
		"status":         "APPROVED",
	})

	assert.Equal(t, 120.0, item.ClaimedAmount)
	assert.Equal(t, 120.0, item.ApprovedAmount, "absent approved amount defaults to the claimed amount")
	assert.Equal(t, models.ItemStatusApproved, item.Status)
	assert.False(t, item.Excluded)
}

func TestNormalizeLineItemContraindicationOverride(t *testing.T) {
	var n LineItemNormalizer

	tests := []struct {
		name             string
		decision         map[string]any
		expectedApproved float64
	}{
		{
			name: "critical severity zeroes explicit approved amount",
			decision: map[string]any{
				"item_name":        "Aspirin",
				"claimed_amount":   2000.0,
				"approved_amount":  2000.0,
				"status":           "APPROVED",
				"medical_severity": "CRITICAL",
			},
			expectedApproved: 0,
		},
		{
			name: "critical severity zeroes implied approved amount",
			decision: map[string]any{
				"claimed_amount":   500.0,
				"medical_severity": "CRITICAL",
			},
			expectedApproved: 0,
		},
		{
			name: "non-critical severity leaves approval untouched",
			decision: map[string]any{
				"claimed_amount":   500.0,
				"approved_amount":  400.0,
				"medical_severity": "LOW",
			},
			expectedApproved: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := n.Normalize(tt.decision)
			assert.Equal(t, tt.expectedApproved, item.ApprovedAmount)
		})
	}
}

// Severity-based zeroing and status-based exclusion are independent: a
// contraindicated item that the policy engine approved stays not-excluded.
func TestNormalizeLineItemContraindicatedButApproved(t *testing.T) {
	var n LineItemNormalizer

	item := n.Normalize(map[string]any{
		"item_name":        "Ibuprofen",
		"claimed_amount":   2000.0,
		"approved_amount":  2000.0,
		"status":           "APPROVED",
		"medical_severity": "CRITICAL",
	})

	assert.Equal(t, 0.0, item.ApprovedAmount)
	assert.False(t, item.Excluded)
	require.NotNil(t, item.MedicalSeverity)
	assert.Equal(t, "CRITICAL", *item.MedicalSeverity)
}

func TestNormalizeLineItemRejected(t *testing.T) {
	var n LineItemNormalizer

	t.Run("with reason", func(t *testing.T) {
		item := n.Normalize(map[string]any{
			"item_name":      "Vitamin Gummies",
			"claimed_amount": 350.0,
			"status":         "REJECTED",
			"reason":         "Excluded: Supplements - not covered",
		})

		assert.True(t, item.Excluded)
		require.NotNil(t, item.ExclusionReason)
		assert.Equal(t, "Excluded: Supplements - not covered", *item.ExclusionReason)
	})

	t.Run("without reason", func(t *testing.T) {
		item := n.Normalize(map[string]any{
			"status": "REJECTED",
		})

		assert.True(t, item.Excluded)
		require.NotNil(t, item.ExclusionReason)
		assert.Equal(t, "No reason provided", *item.ExclusionReason)
	})
}

func TestNormalizeLineItemExcludedTracksRejectedStatus(t *testing.T) {
	var n LineItemNormalizer

	for _, status := range []string{"APPROVED", "REJECTED", "UNKNOWN", "garbage"} {
		item := n.Normalize(map[string]any{"status": status})
		assert.Equal(t, item.Status == models.ItemStatusRejected, item.Excluded,
			"excluded must equal (status == REJECTED) for status %q", status)
	}
}

func TestNormalizeLineItemSanitizesNegatives(t *testing.T) {
	var n LineItemNormalizer

	item := n.Normalize(map[string]any{
		"claimed_amount": -50.0,
		"quantity":       0,
	})

	assert.Equal(t, 0.0, item.ClaimedAmount)
	assert.Equal(t, 1, item.Quantity)
}
