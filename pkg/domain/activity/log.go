package activity

import "time"

// Log types reported by client agents.
const (
	TypeSearch  = "search"
	TypeContent = "content"
)

// Log is one observation of monitored browsing activity. The ID is supplied
// by the client agent and used to de-duplicate batch syncs; FamilyID is the
// retention partition key.
type Log struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	Timestamp       time.Time `json:"timestamp" gorm:"index"`
	UserEmail       string    `json:"userEmail" gorm:"index"`
	FamilyID        string    `json:"familyId" gorm:"index"`
	URL             string    `json:"url"`
	Type            string    `json:"type"`
	Excerpt         string    `json:"excerpt,omitempty"`
	MatchedKeywords []string  `json:"matchedKeywords,omitempty" gorm:"serializer:json"`
	PageTitle       string    `json:"pageTitle,omitempty"`
}

func (Log) TableName() string { return "activity_logs" }
