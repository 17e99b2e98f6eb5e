package verdict

import "github.com/SafeHarborHQ/SafeHarbor/pkg/taxonomy"

// System categories used when a verdict does not come from a clean remote
// classification. They are recognized alongside the taxonomy keys.
const (
	CategoryFlaggedBySystem = "flagged_by_system"
	CategorySystemBlocked   = "system_blocked"
	CategoryProcessingError = "processing_error"
	CategoryError           = "error"
)

// Verdict is the canonical result of any content analysis. Every field is
// always populated; Class and Probabilities only appear on the local image
// classification path.
type Verdict struct {
	Safe          bool               `json:"safe"`
	Title         string             `json:"title"`
	Reason        string             `json:"reason"`
	WhatToDo      string             `json:"what_to_do"`
	Category      string             `json:"category"`
	Confidence    int                `json:"confidence"`
	Class         string             `json:"class,omitempty"`
	Probabilities map[string]float64 `json:"probabilities,omitempty"`
}

// IsKnownCategory reports whether key is a taxonomy category or one of the
// system categories.
func IsKnownCategory(key string) bool {
	switch key {
	case CategoryFlaggedBySystem, CategorySystemBlocked, CategoryProcessingError, CategoryError:
		return true
	}
	return taxonomy.IsKnown(key)
}

// ClampConfidence forces c into the [0,100] range.
func ClampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
