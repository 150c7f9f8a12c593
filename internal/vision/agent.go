// Package vision extracts structured receipt data from claim documents with
// a multimodal model. Without an API key the agent runs in mock mode and
// produces deterministic sample extractions so the rest of the pipeline can
// be exercised offline.
package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/claimguard/claimguard/internal/models"
)

// Pages sent to the model are capped to keep request sizes bounded.
const maxVisionPages = 2

// Agent extracts receipt data from claim documents.
type Agent struct {
	client  *openai.Client
	model   string
	reader  *DocumentReader
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewAgent creates a vision agent. An empty API key enables mock mode.
func NewAgent(apiKey, model string, logger *zap.Logger) *Agent {
	agent := &Agent{
		model:  model,
		reader: NewDocumentReader(logger),
		logger: logger,
	}

	if apiKey != "" {
		agent.client = openai.NewClient(apiKey)
		agent.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "vision-api",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("Circuit breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		})
	} else {
		logger.Warn("No API key configured, vision agent running in mock mode")
	}

	return agent
}

// MockMode reports whether the agent fabricates extractions instead of
// calling the model.
func (a *Agent) MockMode() bool {
	return a.client == nil
}

// Extract reads a claim document and returns the structured receipt data.
func (a *Agent) Extract(ctx context.Context, documentPath string) (*models.ReceiptData, error) {
	if a.MockMode() {
		return mockReceipt(documentPath), nil
	}

	pages, err := a.reader.ToImages(documentPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if len(pages) > maxVisionPages {
		pages = pages[:maxVisionPages]
	}

	result, err := a.breaker.Execute(func() (interface{}, error) {
		return a.extractWithVision(ctx, pages)
	})
	if err != nil {
		a.logger.Error("Vision extraction failed",
			zap.String("document", documentPath),
			zap.Error(err))
		return nil, fmt.Errorf("vision extraction failed: %w", err)
	}

	receipt := result.(*models.ReceiptData)
	a.logger.Info("Receipt extracted",
		zap.String("claim_id", receipt.ClaimID),
		zap.String("merchant", receipt.MerchantName),
		zap.Float64("total_amount", receipt.TotalAmount),
		zap.Int("line_items", len(receipt.LineItems)))

	return receipt, nil
}

func (a *Agent) extractWithVision(ctx context.Context, pages [][]byte) (*models.ReceiptData, error) {
	contentParts := []openai.ChatMessagePart{{
		Type: openai.ChatMessagePartTypeText,
		Text: extractionPrompt,
	}}

	for _, page := range pages {
		contentParts = append(contentParts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    fmt.Sprintf("data:image/jpeg;base64,%s", base64.StdEncoding.EncodeToString(page)),
				Detail: openai.ImageURLDetailHigh,
			},
		})
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		MaxTokens:   4096,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an expert medical-bill examiner for an Indian health insurer. You read pharmacy receipts, hospital bills and consultation invoices with perfect accuracy and always respond with valid JSON.",
			},
			{
				Role:         openai.ChatMessageRoleUser,
				MultiContent: contentParts,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("vision API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from vision API")
	}

	content := resp.Choices[0].Message.Content

	var receipt models.ReceiptData
	if err := json.Unmarshal([]byte(content), &receipt); err != nil {
		a.logger.Error("Failed to parse vision response",
			zap.Error(err),
			zap.String("content", content))
		return nil, fmt.Errorf("failed to parse vision response: %w", err)
	}

	if receipt.MerchantName == "" && len(receipt.LineItems) == 0 {
		a.logger.Warn("Vision response missing merchant and line items",
			zap.String("raw_response", content))
	}

	return &receipt, nil
}

const extractionPrompt = `Carefully examine this medical receipt or bill and extract ALL information.

This is a financial document in an insurance claim. Extract exactly what you see; never guess.

MERCHANT INFORMATION:
- merchant_name: pharmacy / hospital / clinic name
- merchant_address: full address
- gst_number: GST registration number if printed
- date: bill date in YYYY-MM-DD format

PATIENT INFORMATION:
- patient_name: patient or customer name if printed
- diagnosis_or_specialty: diagnosis, department or doctor specialty if printed

LINE ITEMS - extract EVERY billed item as an array:
- item_number: position on the bill starting at 1
- name: item or service description
- quantity: billed quantity (default 1)
- unit_price: price per unit
- total_price: line total
- category: one of Medicine, Supplement, Cosmetic, Diagnostic, Service, Other

AMOUNTS:
- subtotal: sum before tax
- gst_amount: GST/tax amount
- total_amount: grand total payable

FRAUD ASSESSMENT - examine the document for tampering:
- fraud_detection.suspicious: true if anything looks altered, inconsistent or fabricated
- fraud_detection.fraud_indicators: array of short findings, empty when clean
- fraud_detection.confidence_score: your confidence in this assessment, 0.0-1.0
- fraud_detection.recommendation: APPROVE, MANUAL_REVIEW or REJECT

Return a JSON object with exactly these fields plus claim_type ("pharmacy_reimbursement", "hospitalization" or "consultation") and payment_method if visible. Use "" or 0 for fields that are not on the document.`
