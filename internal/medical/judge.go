// Package medical checks billed items for medical necessity against the
// claimed diagnosis. Flags from the judge annotate line items; a CRITICAL
// severity additionally forces the item's approved amount to zero downstream.
package medical

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/claimguard/claimguard/internal/models"
)

// Evaluation statuses.
const (
	StatusPass = "PASS"
	StatusFlag = "FLAG"
)

// Flag severities.
const (
	SeverityNone     = "NONE"
	SeverityLow      = "LOW"
	SeverityCritical = "CRITICAL"
)

// Evaluation is the medical-necessity verdict for one line item.
type Evaluation struct {
	ItemName string `json:"item_name"`
	Status   string `json:"status"`   // PASS or FLAG
	Reason   string `json:"reason"`
	Severity string `json:"severity"` // NONE, LOW or CRITICAL
}

// Judge evaluates line items for medical necessity. Without an API key it
// runs a deterministic rule-based fallback so offline pipelines still get
// plausible verdicts.
type Judge struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewJudge creates a medical judge. An empty API key enables the rule-based
// fallback.
func NewJudge(apiKey, model string, logger *zap.Logger) *Judge {
	judge := &Judge{model: model, logger: logger}
	if apiKey != "" {
		judge.client = openai.NewClient(apiKey)
	} else {
		logger.Warn("No API key configured, medical judge using rule-based fallback")
	}
	return judge
}

// Evaluate verdicts every line item on the receipt. The returned slice is
// positionally aligned with the receipt's line items.
func (j *Judge) Evaluate(ctx context.Context, receipt *models.ReceiptData) ([]Evaluation, error) {
	if len(receipt.LineItems) == 0 {
		return nil, nil
	}

	if j.client == nil {
		return j.evaluateWithRules(receipt), nil
	}

	evaluations, err := j.evaluateWithModel(ctx, receipt)
	if err != nil {
		j.logger.Warn("Model evaluation failed, using rule-based fallback", zap.Error(err))
		return j.evaluateWithRules(receipt), nil
	}
	return evaluations, nil
}

func (j *Judge) evaluateWithModel(ctx context.Context, receipt *models.ReceiptData) ([]Evaluation, error) {
	resp, err := j.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       j.model,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a medical claims reviewer. Given a diagnosis and billed items, judge whether each item is medically necessary. Respond with valid JSON only.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: j.buildPrompt(receipt),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("medical evaluation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from model")
	}

	var parsed struct {
		Evaluations []Evaluation `json:"evaluations"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse evaluation response: %w", err)
	}
	if len(parsed.Evaluations) != len(receipt.LineItems) {
		return nil, fmt.Errorf("expected %d evaluations, got %d",
			len(receipt.LineItems), len(parsed.Evaluations))
	}

	for i := range parsed.Evaluations {
		normalizeEvaluation(&parsed.Evaluations[i], receipt.LineItems[i].Name)
	}
	return parsed.Evaluations, nil
}

func (j *Judge) buildPrompt(receipt *models.ReceiptData) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Diagnosis/specialty: %s\nClaim type: %s\n\nBilled items:\n",
		orUnspecified(receipt.DiagnosisOrSpecialty), receipt.ClaimType)
	for i, item := range receipt.LineItems {
		fmt.Fprintf(&sb, "%d. %s (qty %d, Rs.%.2f, category %s)\n",
			i+1, item.Name, item.Quantity, item.TotalPrice, item.Category)
	}
	sb.WriteString(`
For each item return one evaluation object, in the same order:
- item_name: the item name as listed
- status: "PASS" when the item plausibly relates to the diagnosis, "FLAG" otherwise
- reason: one short sentence
- severity: "NONE" for PASS; "LOW" for questionable items; "CRITICAL" only when the item is contraindicated or dangerous for this diagnosis

Return JSON: {"evaluations": [...]}`)
	return sb.String()
}

// evaluateWithRules flags obviously non-medical categories and passes the
// rest. It never produces CRITICAL since contraindication needs the
// diagnosis context only the model has.
func (j *Judge) evaluateWithRules(receipt *models.ReceiptData) []Evaluation {
	evaluations := make([]Evaluation, 0, len(receipt.LineItems))
	for _, item := range receipt.LineItems {
		eval := Evaluation{
			ItemName: item.Name,
			Status:   StatusPass,
			Reason:   "No medical-necessity concern found",
			Severity: SeverityNone,
		}
		switch strings.ToLower(item.Category) {
		case "cosmetic", "supplement":
			eval.Status = StatusFlag
			eval.Reason = fmt.Sprintf("%s items are rarely medically necessary", item.Category)
			eval.Severity = SeverityLow
		}
		evaluations = append(evaluations, eval)
	}
	return evaluations
}

// normalizeEvaluation clamps model output to the known status and severity
// vocabulary.
func normalizeEvaluation(eval *Evaluation, itemName string) {
	if eval.ItemName == "" {
		eval.ItemName = itemName
	}

	switch strings.ToUpper(eval.Status) {
	case StatusFlag:
		eval.Status = StatusFlag
	default:
		eval.Status = StatusPass
	}

	switch strings.ToUpper(eval.Severity) {
	case SeverityCritical:
		eval.Severity = SeverityCritical
	case SeverityLow:
		eval.Severity = SeverityLow
	default:
		eval.Severity = SeverityNone
	}

	if eval.Status == StatusPass {
		eval.Severity = SeverityNone
	}
}

func orUnspecified(s string) string {
	if s == "" {
		return "not specified"
	}
	return s
}
