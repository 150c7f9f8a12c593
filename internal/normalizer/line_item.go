package normalizer

import "github.com/claimguard/claimguard/internal/models"

// Defaults applied when the backend omits a field from a decision record.
const (
	defaultItemName     = "Unknown Item"
	defaultItemQuantity = 1
	defaultReason       = "No reason provided"

	// severityCritical marks a medically contraindicated item. Such items
	// must never be shown with an approved amount, even when the upstream
	// policy engine's line-level figure says otherwise: upstream totals are
	// computed independently of per-item medical flags and can drift.
	severityCritical = "CRITICAL"
)

// LineItemNormalizer converts one raw line-item decision into a canonical
// line item. It never fails; every absent field maps to a documented default.
type LineItemNormalizer struct{}

// Normalize maps a raw decision record to a CanonicalLineItem.
func (LineItemNormalizer) Normalize(raw map[string]any) models.CanonicalLineItem {
	res := NewResolver(raw)

	claimed := res.Float("claimed_amount", 0)

	// When the backend omits an approved amount, the starting assumption is
	// full approval of the claimed amount.
	approved := res.Float("approved_amount", claimed)

	severity, hasSeverity := stringField(raw, "medical_severity")
	if hasSeverity && severity == severityCritical {
		approved = 0
	}

	status := itemStatus(res.String("status", string(models.ItemStatusUnknown)))
	excluded := status == models.ItemStatusRejected

	item := models.CanonicalLineItem{
		Name:           res.String("item_name", defaultItemName),
		Quantity:       res.Int("quantity", defaultItemQuantity),
		ClaimedAmount:  claimed,
		ApprovedAmount: approved,
		Category:       res.String("category", ""),
		Status:         status,
		Excluded:       excluded,
	}

	if item.Quantity < 1 {
		item.Quantity = defaultItemQuantity
	}
	if item.ClaimedAmount < 0 {
		item.ClaimedAmount = 0
	}
	if item.ApprovedAmount < 0 {
		item.ApprovedAmount = 0
	}

	if excluded {
		reason := res.String("reason", defaultReason)
		item.ExclusionReason = &reason
	}
	if hasSeverity {
		item.MedicalSeverity = &severity
	}

	return item
}

// itemStatus maps a raw status string to the canonical enum. Anything other
// than the two known outcomes is UNKNOWN.
func itemStatus(raw string) models.ItemStatus {
	switch raw {
	case string(models.ItemStatusApproved):
		return models.ItemStatusApproved
	case string(models.ItemStatusRejected):
		return models.ItemStatusRejected
	default:
		return models.ItemStatusUnknown
	}
}

func stringField(m map[string]any, field string) (string, bool) {
	if m == nil {
		return "", false
	}
	if s, ok := m[field].(string); ok {
		return s, true
	}
	return "", false
}
