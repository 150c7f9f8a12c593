package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/claimguard/claimguard/internal/models"
)

func sampleResult() *models.ClaimResult {
	reason := "Excluded: Cosmetics - Cosmetic products are not covered"
	return &models.ClaimResult{
		ClaimID:      "CG-001",
		ClaimType:    "pharmacy_reimbursement",
		MerchantName: "Apollo Pharmacy",
		PatientName:  "Ravi Kumar",
		Date:         "2025-11-03",
		Status:       models.ClaimStatusPartialApproval,
		LineItems: []models.CanonicalLineItem{
			{Name: "Paracetamol 500mg", Quantity: 2, ClaimedAmount: 70, ApprovedAmount: 70, Category: "Medicine", Status: models.ItemStatusApproved},
			{Name: "Hair Growth Serum", Quantity: 1, ClaimedAmount: 450, ApprovedAmount: 0, Category: "Cosmetic", Status: models.ItemStatusRejected, Excluded: true, ExclusionReason: &reason},
		},
		TotalClaimed:        520,
		TotalApproved:       70,
		TotalRejected:       450,
		ApprovalRatePercent: 13.5,
		Summary:             "Claim PARTIALLY APPROVED - Some deductions applied",
		RiskAssessment: &models.RiskAssessment{
			Level:             models.RiskLevelLow,
			ConfidencePercent: 95.0,
			Recommendation:    models.RecommendationApprove,
		},
	}
}

func TestExportWritesWorkbook(t *testing.T) {
	exporter := NewExporter(t.TempDir(), zap.NewNop())

	path, err := exporter.Export(sampleResult())
	require.NoError(t, err)
	assert.Contains(t, path, "claim_CG-001_report.xlsx")

	file, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer file.Close()

	sheets := file.GetSheetList()
	assert.Contains(t, sheets, "Summary")
	assert.Contains(t, sheets, "Line Items")
	assert.NotContains(t, sheets, "Sheet1")

	claimID, err := file.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "CG-001", claimID)

	status, err := file.GetCellValue("Summary", "B6")
	require.NoError(t, err)
	assert.Equal(t, models.ClaimStatusPartialApproval, status)
}

func TestExportItemRows(t *testing.T) {
	exporter := NewExporter(t.TempDir(), zap.NewNop())

	path, err := exporter.Export(sampleResult())
	require.NoError(t, err)

	file, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows("Line Items")
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 items

	assert.Equal(t, "Item", rows[0][1])
	assert.Equal(t, "Paracetamol 500mg", rows[1][1])
	assert.Equal(t, "Hair Growth Serum", rows[2][1])
	assert.Equal(t, "REJECTED", rows[2][6])
	assert.Contains(t, rows[2][8], "Cosmetics")
}

func TestExportWithoutRiskAssessment(t *testing.T) {
	exporter := NewExporter(t.TempDir(), zap.NewNop())

	result := sampleResult()
	result.RiskAssessment = nil

	path, err := exporter.Export(result)
	require.NoError(t, err)

	file, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer file.Close()

	// Row 11 is Summary when the risk rows are absent.
	label, err := file.GetCellValue("Summary", "A11")
	require.NoError(t, err)
	assert.Equal(t, "Summary", label)
}
