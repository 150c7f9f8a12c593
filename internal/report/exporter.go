// Package report renders adjudicated claims as Excel workbooks for
// downstream finance teams.
package report

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/claimguard/claimguard/internal/models"
)

const (
	summarySheet = "Summary"
	itemsSheet   = "Line Items"
)

// Exporter writes claim adjudication reports as .xlsx files.
type Exporter struct {
	outputDir string
	logger    *zap.Logger
}

// NewExporter creates a report exporter writing into outputDir.
func NewExporter(outputDir string, logger *zap.Logger) *Exporter {
	return &Exporter{
		outputDir: outputDir,
		logger:    logger,
	}
}

// Export writes the claim report workbook and returns its path.
func (e *Exporter) Export(result *models.ClaimResult) (string, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := e.writeSummarySheet(file, result); err != nil {
		return "", err
	}
	if err := e.writeItemsSheet(file, result); err != nil {
		return "", err
	}

	// Drop the default sheet so Summary opens first.
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("failed to remove default sheet: %w", err)
	}

	outputPath := filepath.Join(e.outputDir, fmt.Sprintf("claim_%s_report.xlsx", result.ClaimID))
	if err := file.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	e.logger.Info("Claim report exported",
		zap.String("claim_id", result.ClaimID),
		zap.String("path", outputPath),
		zap.Int("line_items", len(result.LineItems)))

	return outputPath, nil
}

func (e *Exporter) writeSummarySheet(file *excelize.File, result *models.ClaimResult) error {
	if _, err := file.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	rows := [][]any{
		{"Claim ID", result.ClaimID},
		{"Claim Type", result.ClaimType},
		{"Merchant", result.MerchantName},
		{"Patient", result.PatientName},
		{"Date", result.Date},
		{"Status", result.Status},
		{"Total Claimed", result.TotalClaimed},
		{"Total Approved", result.TotalApproved},
		{"Total Rejected", result.TotalRejected},
		{"Approval Rate (%)", result.ApprovalRatePercent},
	}

	if result.RiskAssessment != nil {
		rows = append(rows,
			[]any{"Risk Level", string(result.RiskAssessment.Level)},
			[]any{"Risk Confidence (%)", result.RiskAssessment.ConfidencePercent},
			[]any{"Recommendation", string(result.RiskAssessment.Recommendation)},
		)
	}
	rows = append(rows, []any{"Summary", result.Summary})

	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := file.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i+1, err)
		}
	}
	return nil
}

func (e *Exporter) writeItemsSheet(file *excelize.File, result *models.ClaimResult) error {
	if _, err := file.NewSheet(itemsSheet); err != nil {
		return fmt.Errorf("failed to create items sheet: %w", err)
	}

	header := []any{"#", "Item", "Qty", "Claimed", "Approved", "Category", "Status", "Excluded", "Exclusion Reason", "Medical Severity"}
	if err := file.SetSheetRow(itemsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write items header: %w", err)
	}

	for i, item := range result.LineItems {
		row := []any{
			i + 1,
			item.Name,
			item.Quantity,
			item.ClaimedAmount,
			item.ApprovedAmount,
			item.Category,
			string(item.Status),
			item.Excluded,
			deref(item.ExclusionReason),
			deref(item.MedicalSeverity),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := file.SetSheetRow(itemsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write item row %d: %w", i+1, err)
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
