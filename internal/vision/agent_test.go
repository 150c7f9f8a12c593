package vision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAgentMockModeWithoutAPIKey(t *testing.T) {
	agent := NewAgent("", "gpt-4o", zap.NewNop())
	assert.True(t, agent.MockMode())

	agent = NewAgent("sk-test", "gpt-4o", zap.NewNop())
	assert.False(t, agent.MockMode())
}

func TestMockExtractionScenarios(t *testing.T) {
	agent := NewAgent("", "gpt-4o", zap.NewNop())

	tests := []struct {
		name         string
		path         string
		claimType    string
		merchant     string
		suspicious   bool
	}{
		{name: "pharmacy default", path: "/uploads/receipt.pdf", claimType: "pharmacy_reimbursement", merchant: "Apollo Pharmacy", suspicious: false},
		{name: "hospital bill", path: "/uploads/hospital_bill.pdf", claimType: "hospitalization", merchant: "Fortis Hospital", suspicious: false},
		{name: "suspicious receipt", path: "/uploads/fraud_sample.jpg", claimType: "pharmacy_reimbursement", merchant: "City Medicals", suspicious: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			receipt, err := agent.Extract(context.Background(), tt.path)
			require.NoError(t, err)

			assert.Equal(t, tt.claimType, receipt.ClaimType)
			assert.Equal(t, tt.merchant, receipt.MerchantName)
			require.NotNil(t, receipt.FraudDetection)
			assert.Equal(t, tt.suspicious, receipt.FraudDetection.Suspicious)
			assert.NotEmpty(t, receipt.LineItems)
		})
	}
}

func TestMockExtractionIsDeterministic(t *testing.T) {
	agent := NewAgent("", "gpt-4o", zap.NewNop())

	first, err := agent.Extract(context.Background(), "/uploads/receipt.pdf")
	require.NoError(t, err)
	second, err := agent.Extract(context.Background(), "/uploads/receipt.pdf")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMockClaimIDDerivedFromPath(t *testing.T) {
	agent := NewAgent("", "gpt-4o", zap.NewNop())

	a, err := agent.Extract(context.Background(), "/uploads/one.pdf")
	require.NoError(t, err)
	b, err := agent.Extract(context.Background(), "/uploads/two.pdf")
	require.NoError(t, err)

	assert.NotEqual(t, a.ClaimID, b.ClaimID)
	assert.Contains(t, a.ClaimID, "MOCK-")
}

func TestDocumentReaderRejectsUnknownTypes(t *testing.T) {
	reader := NewDocumentReader(zap.NewNop())

	_, err := reader.ToImages("/nonexistent/file.pdf")
	assert.Error(t, err)

	_, err = reader.ToImages("document_reader.go")
	assert.ErrorContains(t, err, "unsupported document type")
}
