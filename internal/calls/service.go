package calls

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"leadvoice/internal/leads"
	"leadvoice/internal/voice"
	"leadvoice/pkg/logger"

	"github.com/google/uuid"
)

// LeadDirectory is the slice of the leads package the lifecycle needs.
type LeadDirectory interface {
	GetByID(ctx context.Context, id string) (leads.Lead, error)
}

// Dialer places outbound calls with the voice provider.
type Dialer interface {
	StartCall(ctx context.Context, req voice.StartCallRequest) (voice.Call, error)
}

// Service owns the state machine for a single outbound call: creation,
// provider dispatch, webhook-driven completion, outcome classification and
// the cascading lead/campaign-lead updates.
type Service struct {
	repo   Repository
	leads  LeadDirectory
	dialer Dialer
	clock  func() time.Time
}

func NewService(repo Repository, dir LeadDirectory, dialer Dialer) *Service {
	return &Service{repo: repo, leads: dir, dialer: dialer, clock: time.Now}
}

type InitiateCallRequest struct {
	LeadID         string `json:"leadId" binding:"required"`
	CampaignLeadID string `json:"campaignLeadId,omitempty"`
	AssistantID    string `json:"assistantId,omitempty"`
	ScriptOverride string `json:"scriptOverride,omitempty"`
}

// InitiateCall dispatches an outbound call to the lead. The local Call row
// is written in INITIATED before the provider is contacted so every dispatch
// attempt leaves a record even when the provider rejects it. No retry is
// attempted here.
func (s *Service) InitiateCall(ctx context.Context, req InitiateCallRequest) (Call, voice.Call, error) {
	lead, err := s.leads.GetByID(ctx, req.LeadID)
	if err != nil {
		return Call{}, voice.Call{}, err
	}

	now := s.clock().UTC()
	call := Call{
		ID:             uuid.NewString(),
		LeadID:         lead.ID,
		CampaignLeadID: req.CampaignLeadID,
		Status:         StatusInitiated,
		Direction:      DirectionOutbound,
		StartedAt:      now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, call); err != nil {
		return Call{}, voice.Call{}, err
	}

	providerCall, err := s.dialer.StartCall(ctx, voice.StartCallRequest{
		PhoneNumber:          lead.Phone,
		AssistantID:          req.AssistantID,
		SystemPromptOverride: req.ScriptOverride,
		Metadata: map[string]any{
			"callId":         call.ID,
			"leadId":         lead.ID,
			"campaignLeadId": req.CampaignLeadID,
			"leadName":       lead.FirstName + " " + lead.LastName,
		},
	})
	if err != nil {
		failedAt := s.clock().UTC()
		if markErr := s.repo.MarkFailed(ctx, call.ID, failedAt); markErr != nil {
			logger.From(ctx).ErrorContext(ctx, "failed to mark call failed",
				"callId", call.ID, "error", markErr)
		}
		call.Status = StatusFailed
		call.UpdatedAt = failedAt
		return call, voice.Call{}, fmt.Errorf("start provider call: %w", err)
	}

	dispatchedAt := s.clock().UTC()
	if err := s.repo.MarkDispatched(ctx, call.ID, providerCall.ID, dispatchedAt); err != nil {
		return Call{}, voice.Call{}, err
	}
	call.ProviderCallID = providerCall.ID
	call.Status = StatusRinging
	call.UpdatedAt = dispatchedAt

	eventData, _ := json.Marshal(map[string]any{
		"providerCallId": providerCall.ID,
		"phoneNumber":    lead.Phone,
	})
	if err := s.repo.AppendEvent(ctx, CallEvent{
		ID:        uuid.NewString(),
		CallID:    call.ID,
		Event:     EventCallInitiated,
		Data:      eventData,
		CreatedAt: dispatchedAt,
	}); err != nil {
		return Call{}, voice.Call{}, err
	}

	logger.From(ctx).InfoContext(ctx, "call initiated",
		"callId", call.ID, "leadId", lead.ID, "providerCallId", providerCall.ID)
	return call, providerCall, nil
}

// ProcessCallCompleted applies a provider end-of-call report. An unknown
// provider call id is not an error; webhook delivery may reference calls this
// system never placed. A call already in COMPLETED is left untouched so a
// redelivered webhook cannot double-apply the cascade.
func (s *Service) ProcessCallCompleted(ctx context.Context, providerCallID string, result voice.Call) (*Call, error) {
	call, err := s.repo.GetByProviderCallID(ctx, providerCallID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logger.From(ctx).WarnContext(ctx, "webhook for unknown call", "providerCallId", providerCallID)
			return nil, nil
		}
		return nil, err
	}

	if call.Status == StatusCompleted {
		logger.From(ctx).WarnContext(ctx, "duplicate completion webhook ignored",
			"callId", call.ID, "providerCallId", providerCallID)
		return &call, nil
	}

	outcome := ClassifyOutcome(result.Analysis.SuccessEvaluation)
	now := s.clock().UTC()

	eventData, _ := json.Marshal(map[string]any{
		"duration": result.Duration,
		"summary":  result.Summary,
		"analysis": result.Analysis,
		"cost":     result.Cost,
	})

	cpl := Completion{
		CallID:        call.ID,
		Outcome:       outcome,
		DurationSecs:  int(math.Round(result.Duration)),
		RecordingURL:  result.RecordingURL,
		Transcription: result.Transcript,
		EndedAt:       now,
		Event: CallEvent{
			ID:        uuid.NewString(),
			CallID:    call.ID,
			Event:     EventCallCompleted,
			Data:      eventData,
			CreatedAt: now,
		},
		CampaignLeadID: call.CampaignLeadID,
	}
	if outcome == OutcomeInterested {
		cpl.QualifyLeadID = call.LeadID
	}

	updated, err := s.repo.Complete(ctx, cpl)
	if err != nil {
		return nil, err
	}

	logger.From(ctx).InfoContext(ctx, "call completed",
		"callId", call.ID, "outcome", outcome, "duration", result.Duration)
	return &updated, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Call, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Call, int, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) ListEvents(ctx context.Context, callID string) ([]CallEvent, error) {
	return s.repo.ListEvents(ctx, callID)
}
