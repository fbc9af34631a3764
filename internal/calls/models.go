package calls

import (
	"encoding/json"
	"time"
)

// Call is one attempted or completed voice interaction with a lead.
type Call struct {
	ID             string     `json:"id"`
	LeadID         string     `json:"leadId"`
	CampaignLeadID string     `json:"campaignLeadId,omitempty"`
	ProviderCallID string     `json:"providerCallId,omitempty"`
	Status         Status     `json:"status"`
	Direction      Direction  `json:"direction"`
	DurationSecs   int        `json:"duration"`
	RecordingURL   string     `json:"recordingUrl,omitempty"`
	Transcription  string     `json:"transcription,omitempty"`
	Outcome        Outcome    `json:"outcome,omitempty"`
	StartedAt      time.Time  `json:"startedAt"`
	EndedAt        *time.Time `json:"endedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type Status string

const (
	StatusInitiated   Status = "INITIATED"
	StatusRinging     Status = "RINGING"
	StatusInProgress  Status = "IN_PROGRESS"
	StatusCompleted   Status = "COMPLETED"
	StatusFailed      Status = "FAILED"
	StatusTransferred Status = "TRANSFERRED"
)

type Direction string

const (
	DirectionInbound  Direction = "INBOUND"
	DirectionOutbound Direction = "OUTBOUND"
)

// Outcome is the classified result of a completed call. The zero value
// means the call has no outcome yet.
type Outcome string

const (
	OutcomeInterested    Outcome = "INTERESTED"
	OutcomeNotInterested Outcome = "NOT_INTERESTED"
	OutcomeCallback      Outcome = "CALLBACK"
	OutcomeTransferred   Outcome = "TRANSFERRED"
	OutcomeVoicemail     Outcome = "VOICEMAIL"
	OutcomeError         Outcome = "ERROR"
)

// CallEvent is an append-only audit entry attached to a Call.
// Events are never mutated or deleted.
type CallEvent struct {
	ID        string          `json:"id"`
	CallID    string          `json:"callId"`
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

const (
	EventCallInitiated = "call.initiated"
	EventCallCompleted = "call.completed"
)
