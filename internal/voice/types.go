package voice

// Provider wire types. These mirror the voice provider's JSON exactly;
// keep them adapter-only and translate to domain types at the boundary.

// Call is the provider's record of a phone call.
type Call struct {
	ID            string         `json:"id"`
	OrgID         string         `json:"orgId,omitempty"`
	Type          string         `json:"type,omitempty"`
	Status        string         `json:"status,omitempty"`
	PhoneNumberID string         `json:"phoneNumberId,omitempty"`
	AssistantID   string         `json:"assistantId,omitempty"`
	Customer      Customer       `json:"customer,omitempty"`
	StartedAt     string         `json:"startedAt,omitempty"`
	EndedAt       string         `json:"endedAt,omitempty"`
	Duration      float64        `json:"duration,omitempty"`
	Cost          float64        `json:"cost,omitempty"`
	Transcript    string         `json:"transcript,omitempty"`
	RecordingURL  string         `json:"recordingUrl,omitempty"`
	Summary       string         `json:"summary,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	Analysis      Analysis       `json:"analysis,omitempty"`
}

type Customer struct {
	Number string `json:"number,omitempty"`
}

// Analysis is the provider's post-call evaluation.
// SuccessEvaluation is free text; outcome classification happens downstream.
type Analysis struct {
	SuccessEvaluation string         `json:"successEvaluation,omitempty"`
	Summary           string         `json:"summary,omitempty"`
	StructuredData    map[string]any `json:"structuredData,omitempty"`
}

// Assistant is a configured conversational agent at the provider.
type Assistant struct {
	ID           string         `json:"id,omitempty"`
	Name         string         `json:"name"`
	FirstMessage string         `json:"firstMessage"`
	Model        AssistantModel `json:"model"`
	Voice        *AssistantVoice `json:"voice,omitempty"`
}

type AssistantModel struct {
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	SystemPrompt string `json:"systemPrompt"`
}

type AssistantVoice struct {
	Provider string `json:"provider"`
	VoiceID  string `json:"voiceId"`
}

// StartCallRequest carries everything needed to dial an outbound call.
type StartCallRequest struct {
	PhoneNumber string
	AssistantID string

	// SystemPromptOverride replaces the assistant's system prompt for this call.
	SystemPromptOverride string

	// Metadata is echoed back on webhooks; used to correlate provider calls
	// with local records.
	Metadata map[string]any
}

// ListCallsParams filters a provider-side call listing.
type ListCallsParams struct {
	Limit       int
	CreatedAtGt string
}
