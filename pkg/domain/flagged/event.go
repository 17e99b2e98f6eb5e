package flagged

import (
	"time"

	"github.com/google/uuid"
)

// Severity levels for flagged events.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Event records a verdict surfaced to a supervising party. Events are
// immutable once stored and are only removed by capacity trimming.
type Event struct {
	ID             uuid.UUID         `json:"id" gorm:"primaryKey;type:uuid"`
	Category       string            `json:"category"`
	Summary        string            `json:"summary"`
	Reason         string            `json:"reason,omitempty"`
	WhatToDo       string            `json:"what_to_do,omitempty"`
	PageURL        string            `json:"page_url,omitempty"`
	Source         string            `json:"source,omitempty"`
	ContentExcerpt string            `json:"content_excerpt,omitempty"`
	Severity       string            `json:"severity"`
	DetectedAt     time.Time         `json:"detected_at" gorm:"index"`
	UserID         string            `json:"user_id,omitempty" gorm:"index"`
	UserName       string            `json:"user_name,omitempty"`
	UserEmail      string            `json:"user_email,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty" gorm:"serializer:json"`
}

// Filter narrows a flagged-event listing. Zero values match everything.
type Filter struct {
	Category string
	UserID   string
	Limit    int
}

// Matches reports whether e satisfies the equality filters (limit excluded).
func (f Filter) Matches(e *Event) bool {
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.UserID != "" && e.UserID != f.UserID {
		return false
	}
	return true
}

func (Event) TableName() string { return "flagged_events" }
