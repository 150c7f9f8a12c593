package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolverPrecedence(t *testing.T) {
	final := map[string]any{"status": "APPROVED"}
	policy := map[string]any{"status": "PARTIAL_APPROVAL", "claim_id": "CG-1"}

	res := NewResolver(final, policy)

	assert.Equal(t, "APPROVED", res.String("status", "UNKNOWN"), "first source wins")
	assert.Equal(t, "CG-1", res.String("claim_id", "N/A"), "falls through to second source")
	assert.Equal(t, "N/A", res.String("patient_name", "N/A"), "default when absent everywhere")
}

func TestResolverNilAndNullSources(t *testing.T) {
	policy := map[string]any{"summary": nil, "total_claimed": 1500.0}

	res := NewResolver(nil, policy)

	assert.Equal(t, "fallback", res.String("summary", "fallback"), "explicit null is treated as absent")
	assert.Equal(t, 1500.0, res.Float("total_claimed", 0))
	assert.False(t, res.Has("summary"))
	assert.True(t, res.Has("total_claimed"))
}

func TestResolverDistinguishesZeroFromAbsent(t *testing.T) {
	src := map[string]any{"total_approved": 0.0, "merchant_name": "", "suspicious": false}
	res := NewResolver(src)

	assert.Equal(t, 0.0, res.Float("total_approved", 99), "present zero is not defaulted")
	assert.Equal(t, "", res.String("merchant_name", "N/A"), "present empty string is not defaulted")
	assert.False(t, res.Bool("suspicious", true), "present false is not defaulted")
}

func TestResolverTypeCoercion(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected float64
	}{
		{name: "float64", value: 500.5, expected: 500.5},
		{name: "int", value: 500, expected: 500},
		{name: "numeric string", value: "500.5", expected: 500.5},
		{name: "non-numeric string", value: "abc", expected: -1},
		{name: "object", value: map[string]any{}, expected: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewResolver(map[string]any{"amount": tt.value})
			assert.Equal(t, tt.expected, res.Float("amount", -1))
		})
	}
}

func TestResolverStrings(t *testing.T) {
	res := NewResolver(map[string]any{
		"fraud_indicators": []any{"date tampering", 42, "font mismatch"},
	})

	assert.Equal(t, []string{"date tampering", "font mismatch"}, res.Strings("fraud_indicators"),
		"non-string elements are skipped, order preserved")
	assert.Nil(t, res.Strings("missing"))
}
