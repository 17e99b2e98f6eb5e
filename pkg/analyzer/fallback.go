package analyzer

import (
	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/verdict"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/taxonomy"
)

// FailureClass identifies why a classification could not complete normally.
type FailureClass int

const (
	Refused FailureClass = iota
	MalformedResponse
	TransportError
	CapabilityUnavailable
)

func (f FailureClass) String() string {
	switch f {
	case Refused:
		return "refused"
	case MalformedResponse:
		return "malformed_response"
	case TransportError:
		return "transport_error"
	case CapabilityUnavailable:
		return "capability_unavailable"
	default:
		return "unknown"
	}
}

// Fallback returns the deterministic verdict for a failure class. Text-path
// failures fail closed (flag the content); a missing local capability fails
// open so absent model files do not block legitimate browsing. That asymmetry
// is policy and must stay.
//
// categoryHint, when it names a taxonomy category, overrides the category of
// fail-closed verdicts so callers with context (e.g. the image path) can keep
// the supervisor-facing copy specific.
func Fallback(class FailureClass, categoryHint string) *verdict.Verdict {
	if class == CapabilityUnavailable {
		return &verdict.Verdict{
			Safe:       true,
			Title:      "Analysis Unavailable",
			Reason:     "The safety classifier is not available on this server.",
			WhatToDo:   "No action needed.",
			Category:   verdict.CategoryError,
			Confidence: 0,
		}
	}

	var v *verdict.Verdict
	switch class {
	case Refused:
		v = &verdict.Verdict{
			Safe:       false,
			Title:      "Content Blocked",
			Reason:     "The analysis service declined to process this content.",
			WhatToDo:   "Review the page before allowing access.",
			Category:   verdict.CategorySystemBlocked,
			Confidence: 90,
		}
	case MalformedResponse:
		v = &verdict.Verdict{
			Safe:       false,
			Title:      "Analysis Inconclusive",
			Reason:     "The analysis was inconclusive; the page was blocked as a precaution.",
			WhatToDo:   "Review the page before allowing access.",
			Category:   verdict.CategoryProcessingError,
			Confidence: 50,
		}
	default: // TransportError
		v = &verdict.Verdict{
			Safe:       false,
			Title:      "Analysis Unreachable",
			Reason:     "The analysis service could not be reached; the page was blocked as a precaution.",
			WhatToDo:   "Try again in a moment.",
			Category:   verdict.CategoryFlaggedBySystem,
			Confidence: 60,
		}
	}

	if taxonomy.IsKnown(categoryHint) {
		meta := taxonomy.Lookup(categoryHint)
		v.Category = categoryHint
		v.Title = meta.Title
		v.WhatToDo = meta.Guidance
	}
	return v
}
