package analyzer

import (
	"encoding/json"
	"errors"
	"math"
	"strings"

	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/verdict"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/taxonomy"
)

// ErrMalformedResponse marks classifier output that did not decode into the
// expected verdict shape. The analyzer, not the normalizer, decides what the
// caller sees instead.
var ErrMalformedResponse = errors.New("malformed classifier response")

type rawVerdict struct {
	Safe       *bool    `json:"safe"`
	Title      string   `json:"title"`
	Reason     string   `json:"reason"`
	WhatToDo   string   `json:"what_to_do"`
	Category   string   `json:"category"`
	Confidence *float64 `json:"confidence"`
}

// StripDelimiters removes fenced-code wrapping some models add despite being
// told not to. Applied before any structural parsing.
func StripDelimiters(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Normalize decodes one classifier response into a Verdict. The remote shape
// is never trusted: delimiters are stripped, the decode is strict about the
// `safe` field being present, and every omitted field is filled with a
// category-appropriate default.
func Normalize(raw string) (*verdict.Verdict, error) {
	var rv rawVerdict
	if err := json.Unmarshal([]byte(StripDelimiters(raw)), &rv); err != nil {
		return nil, ErrMalformedResponse
	}
	if rv.Safe == nil {
		return nil, ErrMalformedResponse
	}
	return finish(rv), nil
}

// normalizeEntry is Normalize for a pre-parsed JSON value (batch entries).
func normalizeEntry(raw json.RawMessage) (*verdict.Verdict, error) {
	var rv rawVerdict
	if err := json.Unmarshal(raw, &rv); err != nil {
		return nil, ErrMalformedResponse
	}
	if rv.Safe == nil {
		return nil, ErrMalformedResponse
	}
	return finish(rv), nil
}

func finish(rv rawVerdict) *verdict.Verdict {
	safe := *rv.Safe

	category := strings.TrimSpace(rv.Category)
	if !verdict.IsKnownCategory(category) {
		// Unrecognized remote categories are not preserved.
		if safe {
			category = ""
		} else {
			category = verdict.CategoryFlaggedBySystem
		}
	}

	v := &verdict.Verdict{
		Safe:       safe,
		Title:      strings.TrimSpace(rv.Title),
		Reason:     strings.TrimSpace(rv.Reason),
		WhatToDo:   strings.TrimSpace(rv.WhatToDo),
		Category:   category,
		Confidence: 70,
	}
	if rv.Confidence != nil {
		v.Confidence = verdict.ClampConfidence(int(math.Round(*rv.Confidence)))
	}

	if safe {
		if v.Title == "" {
			v.Title = "Content is Safe"
		}
		if v.Reason == "" {
			v.Reason = "No unsafe content was detected on this page."
		}
		if v.WhatToDo == "" {
			v.WhatToDo = "No action needed."
		}
		return v
	}

	meta := taxonomy.Lookup(category)
	if v.Title == "" {
		v.Title = meta.Title
	}
	if v.Reason == "" {
		v.Reason = meta.Explanation
	}
	if v.WhatToDo == "" {
		v.WhatToDo = meta.Guidance
	}
	return v
}
