package models

// FraudSignal is the fraud-detection block produced by the vision stage.
type FraudSignal struct {
	Suspicious      bool     `json:"suspicious"`
	FraudIndicators []string `json:"fraud_indicators"`
	ConfidenceScore float64  `json:"confidence_score"`
	Recommendation  string   `json:"recommendation"` // APPROVE, MANUAL_REVIEW, REJECT
}

// ReceiptLineItem is one billed item as read off the receipt image.
type ReceiptLineItem struct {
	ItemNumber int     `json:"item_number"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
	Category   string  `json:"category"` // Medicine, Supplement, Cosmetic, Diagnostic, Service, Other
}

// ReceiptData is the structured extraction of one receipt or bill.
type ReceiptData struct {
	FraudDetection       *FraudSignal      `json:"fraud_detection,omitempty"`
	ClaimID              string            `json:"claim_id"`
	ClaimType            string            `json:"claim_type"`
	MerchantName         string            `json:"merchant_name"`
	MerchantAddress      string            `json:"merchant_address"`
	GSTNumber            string            `json:"gst_number,omitempty"`
	Date                 string            `json:"date"`
	PatientName          string            `json:"patient_name"`
	DiagnosisOrSpecialty string            `json:"diagnosis_or_specialty,omitempty"`
	LineItems            []ReceiptLineItem `json:"line_items"`
	Subtotal             float64           `json:"subtotal"`
	GSTAmount            float64           `json:"gst_amount"`
	TotalAmount          float64           `json:"total_amount"`
	SumInsured           float64           `json:"sum_insured,omitempty"`
	PaymentMethod        string            `json:"payment_method,omitempty"`
	Notes                string            `json:"notes,omitempty"`
}
