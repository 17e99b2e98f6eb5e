package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SafeHarborHQ/SafeHarbor/pkg/common"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/verdict"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/infra/prometheus"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/infra/providers"
)

// ErrBatchSize marks a batch whose length is outside [1, MaxBatchItems].
// It is the only error AnalyzeBatch can return; nothing is sent to the
// remote classifier in that case.
var ErrBatchSize = errors.New("batch size out of bounds")

// AnalyzeBatch classifies up to MaxBatchItems items in one remote call and
// reconciles whatever comes back to exactly len(contents) verdicts, in input
// order.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, contents []string) ([]verdict.Verdict, error) {
	if len(contents) == 0 || len(contents) > common.MaxBatchItems {
		return nil, fmt.Errorf("%w: got %d items, want 1-%d", ErrBatchSize, len(contents), common.MaxBatchItems)
	}

	resp, err := a.ask(ctx, buildBatchPrompt(contents))
	if err != nil {
		class := TransportError
		if errors.Is(err, providers.ErrRefused) {
			class = Refused
		}
		a.logger.WithError(err).WithField("failure_class", class.String()).
			Warn("batch classification failed, returning fallback verdicts")
		prometheus.ClassifierFallbacksTotal.WithLabelValues(class.String()).Inc()
		// Transport and refusal failures both fill the batch with the
		// system-blocked default.
		return filled(len(contents), Fallback(Refused, "")), nil
	}

	return reconcile(resp.Response, len(contents)), nil
}

// reconcile forces a remote array result to match the requested item count:
// a bare object is wrapped as a one-element array, a short array is padded
// with the safe default, a long one is truncated, and an unparseable
// response yields the parse-error default for every slot. Positional
// correspondence with the input is preserved throughout.
func reconcile(raw string, n int) []verdict.Verdict {
	entries, ok := parseEntries(raw)
	if !ok {
		return filled(n, Fallback(MalformedResponse, ""))
	}

	results := make([]verdict.Verdict, 0, n)
	for i := 0; i < n && i < len(entries); i++ {
		v, err := normalizeEntry(entries[i])
		if err != nil {
			v = Fallback(MalformedResponse, "")
		}
		results = append(results, *v)
	}
	for len(results) < n {
		results = append(results, *safePadVerdict())
	}
	return results
}

func parseEntries(raw string) ([]json.RawMessage, bool) {
	stripped := StripDelimiters(raw)

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(stripped), &entries); err == nil {
		// A bare null decodes without error but leaves the slice nil. That
		// is a non-answer, not an empty array, so it takes the parse-error
		// path instead of padding every slot safe.
		if entries == nil {
			return nil, false
		}
		return entries, true
	}

	// Some models answer a single object for a single-item batch.
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stripped), &obj); err == nil {
		return []json.RawMessage{json.RawMessage(stripped)}, true
	}

	return nil, false
}

// safePadVerdict fills batch slots the classifier left unanswered. Padding
// defaults to safe while single-item failures default to flagged; that
// asymmetry is inherited behavior kept on purpose.
func safePadVerdict() *verdict.Verdict {
	return &verdict.Verdict{
		Safe:       true,
		Title:      "Content is Safe",
		Reason:     "No issues detected.",
		WhatToDo:   "No action needed.",
		Category:   "",
		Confidence: 50,
	}
}

func filled(n int, v *verdict.Verdict) []verdict.Verdict {
	results := make([]verdict.Verdict, n)
	for i := range results {
		results[i] = *v
	}
	return results
}
