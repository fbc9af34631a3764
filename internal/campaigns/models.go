package campaigns

import "time"

// Campaign is a configured batch calling effort over a set of leads.
type Campaign struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description,omitempty"`
	Script             string    `json:"script"`
	VoiceID            string    `json:"voiceId,omitempty"`
	MaxRetries         int       `json:"maxRetries"`
	RetryDelayMinutes  int       `json:"retryDelayMinutes"`
	CallingWindowStart string    `json:"callingWindowStart"`
	CallingWindowEnd   string    `json:"callingWindowEnd"`
	Timezone           string    `json:"timezone"`
	Status             Status    `json:"status"`
	CreatedByID        string    `json:"createdById,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusActive    Status = "ACTIVE"
	StatusPaused    Status = "PAUSED"
	StatusCompleted Status = "COMPLETED"
)

// CampaignLead is the association and per-lead progress record within a campaign.
// The (campaignId, leadId) pair is unique.
type CampaignLead struct {
	ID            string     `json:"id"`
	CampaignID    string     `json:"campaignId"`
	LeadID        string     `json:"leadId"`
	Status        LeadStatus `json:"status"`
	Attempts      int        `json:"attempts"`
	LastAttemptAt *time.Time `json:"lastAttemptAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type LeadStatus string

const (
	LeadStatusPending   LeadStatus = "PENDING"
	LeadStatusCalling   LeadStatus = "CALLING"
	LeadStatusCompleted LeadStatus = "COMPLETED"
	LeadStatusFailed    LeadStatus = "FAILED"
	LeadStatusSkipped   LeadStatus = "SKIPPED"
)
