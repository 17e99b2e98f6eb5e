package reveal

import (
	"time"

	"github.com/google/uuid"
)

// Event records that a user chose to view content that the client agent had
// obscured. Retention is globally bounded, oldest-first.
type Event struct {
	ID         uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Category   string    `json:"category"`
	Source     string    `json:"source,omitempty"`
	PageURL    string    `json:"page_url,omitempty"`
	RevealedAt time.Time `json:"revealed_at" gorm:"index"`
	SessionID  string    `json:"sessionId,omitempty"`
	UserID     string    `json:"user_id,omitempty" gorm:"index"`
}

// Filter narrows a reveal listing. Zero values match everything.
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

func (Event) TableName() string { return "blur_reveal_events" }
