package leads

import (
	"encoding/json"
	"time"
)

// Lead is a contact targeted for outbound calling.
type Lead struct {
	ID           string          `json:"id"`
	FirstName    string          `json:"firstName"`
	LastName     string          `json:"lastName"`
	Phone        string          `json:"phone"`
	Email        string          `json:"email,omitempty"`
	Company      string          `json:"company,omitempty"`
	Timezone     string          `json:"timezone,omitempty"`
	Status       Status          `json:"status"`
	Source       Source          `json:"source"`
	Score        int             `json:"score"`
	Tags         []string        `json:"tags,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	AssignedToID string          `json:"assignedToId,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type Status string

const (
	StatusNew       Status = "NEW"
	StatusContacted Status = "CONTACTED"
	StatusQualified Status = "QUALIFIED"
	StatusConverted Status = "CONVERTED"
	StatusLost      Status = "LOST"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusConverted, StatusLost:
		return true
	default:
		return false
	}
}

type Source string

const (
	SourceCSV         Source = "CSV"
	SourceAPI         Source = "API"
	SourceCRM         Source = "CRM"
	SourceLandingPage Source = "LANDING_PAGE"
	SourceManual      Source = "MANUAL"
)

func (s Source) Valid() bool {
	switch s {
	case SourceCSV, SourceAPI, SourceCRM, SourceLandingPage, SourceManual:
		return true
	default:
		return false
	}
}
