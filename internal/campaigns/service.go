package campaigns

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyActive = errors.New("campaigns: campaign is already active")
	ErrNotActive     = errors.New("campaigns: campaign is not active")
)

// Service owns campaign CRUD and the start/pause lifecycle.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

type CreateCampaignRequest struct {
	Name               string `json:"name" binding:"required,max=200"`
	Description        string `json:"description,omitempty"`
	Script             string `json:"script" binding:"required"`
	VoiceID            string `json:"voiceId,omitempty"`
	MaxRetries         *int   `json:"maxRetries,omitempty" binding:"omitempty,min=0,max=10"`
	RetryDelayMinutes  *int   `json:"retryDelayMinutes,omitempty" binding:"omitempty,min=1,max=1440"`
	CallingWindowStart string `json:"callingWindowStart,omitempty"`
	CallingWindowEnd   string `json:"callingWindowEnd,omitempty"`
	Timezone           string `json:"timezone,omitempty"`
}

// UpdateCampaignRequest applies a partial update; nil fields are untouched.
type UpdateCampaignRequest struct {
	Name               *string `json:"name,omitempty"`
	Description        *string `json:"description,omitempty"`
	Script             *string `json:"script,omitempty"`
	VoiceID            *string `json:"voiceId,omitempty"`
	MaxRetries         *int    `json:"maxRetries,omitempty"`
	RetryDelayMinutes  *int    `json:"retryDelayMinutes,omitempty"`
	CallingWindowStart *string `json:"callingWindowStart,omitempty"`
	CallingWindowEnd   *string `json:"callingWindowEnd,omitempty"`
	Timezone           *string `json:"timezone,omitempty"`
}

// CampaignDetail is a campaign with its lead associations.
type CampaignDetail struct {
	Campaign
	Leads []CampaignLead `json:"campaignLeads"`
}

func (s *Service) Create(ctx context.Context, req CreateCampaignRequest, createdByID string) (Campaign, error) {
	now := s.clock().UTC()
	cp := Campaign{
		ID:                 uuid.NewString(),
		Name:               req.Name,
		Description:        req.Description,
		Script:             req.Script,
		VoiceID:            req.VoiceID,
		MaxRetries:         3,
		RetryDelayMinutes:  60,
		CallingWindowStart: "09:00",
		CallingWindowEnd:   "17:00",
		Timezone:           "America/New_York",
		Status:             StatusDraft,
		CreatedByID:        createdByID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if req.MaxRetries != nil {
		cp.MaxRetries = *req.MaxRetries
	}
	if req.RetryDelayMinutes != nil {
		cp.RetryDelayMinutes = *req.RetryDelayMinutes
	}
	if req.CallingWindowStart != "" {
		cp.CallingWindowStart = req.CallingWindowStart
	}
	if req.CallingWindowEnd != "" {
		cp.CallingWindowEnd = req.CallingWindowEnd
	}
	if req.Timezone != "" {
		cp.Timezone = req.Timezone
	}

	if err := s.repo.Create(ctx, cp); err != nil {
		return Campaign{}, err
	}
	return cp, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (CampaignDetail, error) {
	cp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return CampaignDetail{}, err
	}
	cls, err := s.repo.ListLeads(ctx, id)
	if err != nil {
		return CampaignDetail{}, err
	}
	return CampaignDetail{Campaign: cp, Leads: cls}, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Campaign, int, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) Update(ctx context.Context, id string, req UpdateCampaignRequest) (Campaign, error) {
	cp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Campaign{}, err
	}

	if req.Name != nil {
		cp.Name = *req.Name
	}
	if req.Description != nil {
		cp.Description = *req.Description
	}
	if req.Script != nil {
		cp.Script = *req.Script
	}
	if req.VoiceID != nil {
		cp.VoiceID = *req.VoiceID
	}
	if req.MaxRetries != nil {
		cp.MaxRetries = *req.MaxRetries
	}
	if req.RetryDelayMinutes != nil {
		cp.RetryDelayMinutes = *req.RetryDelayMinutes
	}
	if req.CallingWindowStart != nil {
		cp.CallingWindowStart = *req.CallingWindowStart
	}
	if req.CallingWindowEnd != nil {
		cp.CallingWindowEnd = *req.CallingWindowEnd
	}
	if req.Timezone != nil {
		cp.Timezone = *req.Timezone
	}
	cp.UpdatedAt = s.clock().UTC()

	if err := s.repo.Update(ctx, cp); err != nil {
		return Campaign{}, err
	}
	return cp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Start activates a campaign. Starting an already-active campaign is a conflict.
func (s *Service) Start(ctx context.Context, id string) (Campaign, error) {
	cp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Campaign{}, err
	}
	if cp.Status == StatusActive {
		return Campaign{}, ErrAlreadyActive
	}
	if err := s.repo.UpdateStatus(ctx, id, StatusActive); err != nil {
		return Campaign{}, err
	}
	cp.Status = StatusActive
	return cp, nil
}

// Pause suspends an active campaign. Pausing a non-active campaign is a conflict.
func (s *Service) Pause(ctx context.Context, id string) (Campaign, error) {
	cp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Campaign{}, err
	}
	if cp.Status != StatusActive {
		return Campaign{}, ErrNotActive
	}
	if err := s.repo.UpdateStatus(ctx, id, StatusPaused); err != nil {
		return Campaign{}, err
	}
	cp.Status = StatusPaused
	return cp, nil
}

// AddLeads associates leads with a campaign. Existing pairs are skipped
// silently; the returned count covers only new associations.
func (s *Service) AddLeads(ctx context.Context, campaignID string, leadIDs []string) (int, error) {
	if _, err := s.repo.GetByID(ctx, campaignID); err != nil {
		return 0, err
	}

	now := s.clock().UTC()
	cls := make([]CampaignLead, 0, len(leadIDs))
	for _, leadID := range leadIDs {
		cls = append(cls, CampaignLead{
			ID:         uuid.NewString(),
			CampaignID: campaignID,
			LeadID:     leadID,
			Status:     LeadStatusPending,
			CreatedAt:  now,
		})
	}
	return s.repo.AddLeads(ctx, cls)
}
