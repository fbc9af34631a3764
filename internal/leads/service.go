package leads

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidArgument = errors.New("leads: invalid argument")

// Service owns lead CRUD and bulk operations.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

type CreateLeadRequest struct {
	FirstName    string          `json:"firstName" binding:"required,max=100"`
	LastName     string          `json:"lastName" binding:"required,max=100"`
	Phone        string          `json:"phone" binding:"required,min=5,max=20"`
	Email        string          `json:"email,omitempty" binding:"omitempty,email"`
	Company      string          `json:"company,omitempty" binding:"max=200"`
	Timezone     string          `json:"timezone,omitempty"`
	Source       Source          `json:"source,omitempty"`
	Tags         []string        `json:"tags,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	AssignedToID string          `json:"assignedToId,omitempty"`
}

// UpdateLeadRequest applies a partial update; nil fields are untouched.
type UpdateLeadRequest struct {
	FirstName    *string          `json:"firstName,omitempty"`
	LastName     *string          `json:"lastName,omitempty"`
	Phone        *string          `json:"phone,omitempty"`
	Email        *string          `json:"email,omitempty"`
	Company      *string          `json:"company,omitempty"`
	Timezone     *string          `json:"timezone,omitempty"`
	Status       *Status          `json:"status,omitempty"`
	Source       *Source          `json:"source,omitempty"`
	Score        *int             `json:"score,omitempty"`
	Tags         *[]string        `json:"tags,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
	Metadata     *json.RawMessage `json:"metadata,omitempty"`
	AssignedToID *string          `json:"assignedToId,omitempty"`
}

func (s *Service) Create(ctx context.Context, req CreateLeadRequest) (Lead, error) {
	source := req.Source
	if source == "" {
		source = SourceManual
	}
	if !source.Valid() {
		return Lead{}, ErrInvalidArgument
	}

	now := s.clock().UTC()
	l := Lead{
		ID:           uuid.NewString(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Email:        req.Email,
		Company:      req.Company,
		Timezone:     req.Timezone,
		Status:       StatusNew,
		Source:       source,
		Tags:         req.Tags,
		Notes:        req.Notes,
		Metadata:     req.Metadata,
		AssignedToID: req.AssignedToID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return Lead{}, err
	}
	return l, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Lead, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Lead, int, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) Update(ctx context.Context, id string, req UpdateLeadRequest) (Lead, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Lead{}, err
	}

	if req.FirstName != nil {
		l.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		l.LastName = *req.LastName
	}
	if req.Phone != nil {
		l.Phone = *req.Phone
	}
	if req.Email != nil {
		l.Email = *req.Email
	}
	if req.Company != nil {
		l.Company = *req.Company
	}
	if req.Timezone != nil {
		l.Timezone = *req.Timezone
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return Lead{}, ErrInvalidArgument
		}
		l.Status = *req.Status
	}
	if req.Source != nil {
		if !req.Source.Valid() {
			return Lead{}, ErrInvalidArgument
		}
		l.Source = *req.Source
	}
	if req.Score != nil {
		if *req.Score < 0 || *req.Score > 100 {
			return Lead{}, ErrInvalidArgument
		}
		l.Score = *req.Score
	}
	if req.Tags != nil {
		l.Tags = *req.Tags
	}
	if req.Notes != nil {
		l.Notes = *req.Notes
	}
	if req.Metadata != nil {
		l.Metadata = *req.Metadata
	}
	if req.AssignedToID != nil {
		l.AssignedToID = *req.AssignedToID
	}
	l.UpdatedAt = s.clock().UTC()

	if err := s.repo.Update(ctx, l); err != nil {
		return Lead{}, err
	}
	return l, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) BulkAssign(ctx context.Context, leadIDs []string, assignedToID string) (int, error) {
	if len(leadIDs) == 0 || assignedToID == "" {
		return 0, ErrInvalidArgument
	}
	return s.repo.BulkAssign(ctx, leadIDs, assignedToID)
}
