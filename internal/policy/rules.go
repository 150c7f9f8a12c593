package policy

import (
	"encoding/json"
	"fmt"
	"os"
)

// ExclusionCategory groups excluded item names under a policy category.
type ExclusionCategory struct {
	Category string   `json:"category"`
	Reason   string   `json:"reason"`
	Items    []string `json:"items"`
}

// ExcludedItems holds the exclusion lists of the policy.
type ExcludedItems struct {
	Categories           []ExclusionCategory `json:"categories"`
	PartialMatchKeywords []string            `json:"partial_match_keywords"`
}

// RoomRentRules caps daily room rent as a percentage of the sum insured.
type RoomRentRules struct {
	AllowedPercentage float64 `json:"allowed_percentage"`
}

// Rules is the full policy rule set loaded from configuration.
type Rules struct {
	ExcludedItems ExcludedItems `json:"excluded_items"`
	RoomRentRules RoomRentRules `json:"room_rent_rules"`
}

// LoadRules reads and parses a policy rules JSON file.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy rules: %w", err)
	}

	var rules Rules
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse policy rules: %w", err)
	}

	if rules.RoomRentRules.AllowedPercentage <= 0 {
		rules.RoomRentRules.AllowedPercentage = 1
	}

	return &rules, nil
}
