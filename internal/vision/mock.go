package vision

import (
	"fmt"
	"hash/fnv"
	"path/filepath"
	"strings"

	"github.com/claimguard/claimguard/internal/models"
)

// mockReceipt fabricates a deterministic extraction for offline development.
// The document filename steers the scenario: names containing "hospital" get
// a hospitalization bill with room rent, names containing "fraud" get a
// suspicious receipt, everything else gets a pharmacy receipt with one
// excluded cosmetic item.
func mockReceipt(documentPath string) *models.ReceiptData {
	base := strings.ToLower(filepath.Base(documentPath))
	claimID := fmt.Sprintf("MOCK-%08X", pathHash(documentPath))

	switch {
	case strings.Contains(base, "hospital"):
		return mockHospitalBill(claimID)
	case strings.Contains(base, "fraud"):
		return mockSuspiciousReceipt(claimID)
	default:
		return mockPharmacyReceipt(claimID)
	}
}

func pathHash(path string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(path))
	return h.Sum32()
}

func mockPharmacyReceipt(claimID string) *models.ReceiptData {
	return &models.ReceiptData{
		ClaimID:         claimID,
		ClaimType:       "pharmacy_reimbursement",
		MerchantName:    "Apollo Pharmacy",
		MerchantAddress: "12 MG Road, Bengaluru 560001",
		GSTNumber:       "29AAACA1111A1Z5",
		Date:            "2025-11-03",
		PatientName:     "Ravi Kumar",
		LineItems: []models.ReceiptLineItem{
			{ItemNumber: 1, Name: "Paracetamol 500mg", Quantity: 2, UnitPrice: 35, TotalPrice: 70, Category: "Medicine"},
			{ItemNumber: 2, Name: "Azithromycin 250mg", Quantity: 1, UnitPrice: 180, TotalPrice: 180, Category: "Medicine"},
			{ItemNumber: 3, Name: "Hair Growth Serum", Quantity: 1, UnitPrice: 450, TotalPrice: 450, Category: "Cosmetic"},
		},
		Subtotal:    700,
		GSTAmount:   84,
		TotalAmount: 700,
		FraudDetection: &models.FraudSignal{
			Suspicious:      false,
			FraudIndicators: []string{},
			ConfidenceScore: 0.95,
			Recommendation:  "APPROVE",
		},
	}
}

func mockHospitalBill(claimID string) *models.ReceiptData {
	return &models.ReceiptData{
		ClaimID:              claimID,
		ClaimType:            "hospitalization",
		MerchantName:         "Fortis Hospital",
		MerchantAddress:      "154 Bannerghatta Road, Bengaluru 560076",
		Date:                 "2025-11-10",
		PatientName:          "Ravi Kumar",
		DiagnosisOrSpecialty: "Acute appendicitis",
		SumInsured:           500000,
		LineItems: []models.ReceiptLineItem{
			{ItemNumber: 1, Name: "Room Rent (2 days)", Quantity: 2, UnitPrice: 8000, TotalPrice: 16000, Category: "Service"},
			{ItemNumber: 2, Name: "Surgeon Fees", Quantity: 1, UnitPrice: 25000, TotalPrice: 25000, Category: "Service"},
			{ItemNumber: 3, Name: "Pharmacy Charges", Quantity: 1, UnitPrice: 4200, TotalPrice: 4200, Category: "Medicine"},
		},
		Subtotal:    45200,
		TotalAmount: 45200,
		FraudDetection: &models.FraudSignal{
			Suspicious:      false,
			FraudIndicators: []string{},
			ConfidenceScore: 0.9,
			Recommendation:  "APPROVE",
		},
	}
}

func mockSuspiciousReceipt(claimID string) *models.ReceiptData {
	return &models.ReceiptData{
		ClaimID:      claimID,
		ClaimType:    "pharmacy_reimbursement",
		MerchantName: "City Medicals",
		Date:         "2025-11-15",
		PatientName:  "Ravi Kumar",
		LineItems: []models.ReceiptLineItem{
			{ItemNumber: 1, Name: "Insulin Glargine", Quantity: 10, UnitPrice: 900, TotalPrice: 9000, Category: "Medicine"},
		},
		TotalAmount: 9000,
		FraudDetection: &models.FraudSignal{
			Suspicious: true,
			FraudIndicators: []string{
				"Handwritten total over printed amount",
				"Quantity unusually high for a single purchase",
			},
			ConfidenceScore: 0.85,
			Recommendation:  "MANUAL_REVIEW",
		},
	}
}
