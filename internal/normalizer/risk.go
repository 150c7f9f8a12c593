package normalizer

import (
	"math"

	"github.com/claimguard/claimguard/internal/models"
)

// RiskClassifier maps the raw fraud-detection block into a discrete risk
// level. The classification is ordered, first match wins:
//
//  1. recommendation REJECT        -> HIGH
//  2. recommendation MANUAL_REVIEW
//     or suspicious flag set       -> MEDIUM
//  3. otherwise                    -> LOW
type RiskClassifier struct{}

// Classify returns the risk assessment for a raw fraud signal, or nil when
// the signal is absent. Absence means "not evaluated", which callers must
// keep distinct from LOW.
func (RiskClassifier) Classify(signal map[string]any) *models.RiskAssessment {
	if signal == nil {
		return nil
	}

	res := NewResolver(signal)
	recommendation := recommendation(res.String("recommendation", string(models.RecommendationApprove)))
	suspicious := res.Bool("suspicious", false)

	var level models.RiskLevel
	switch {
	case recommendation == models.RecommendationReject:
		level = models.RiskLevelHigh
	case recommendation == models.RecommendationManualReview || suspicious:
		level = models.RiskLevelMedium
	default:
		level = models.RiskLevelLow
	}

	// A missing confidence figure means full confidence in the default
	// APPROVE recommendation, not unknown risk.
	confidence := res.Float("confidence_score", 1.0)

	return &models.RiskAssessment{
		Level:             level,
		ConfidencePercent: roundPercent(confidence),
		Indicators:        res.Strings("fraud_indicators"),
		Recommendation:    recommendation,
	}
}

// roundPercent converts a [0,1] score to a percentage with one decimal.
func roundPercent(score float64) float64 {
	return math.Round(score*1000) / 10
}

func recommendation(raw string) models.Recommendation {
	switch raw {
	case string(models.RecommendationReject):
		return models.RecommendationReject
	case string(models.RecommendationManualReview):
		return models.RecommendationManualReview
	default:
		return models.RecommendationApprove
	}
}
