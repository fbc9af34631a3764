package calls

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is an in-memory Repository for tests and local bring-up.
// The completion cascade's cross-entity writes are recorded in
// CompletedCampaignLeads and QualifiedLeads so tests can assert on them.
type MemoryRepository struct {
	mu    sync.RWMutex
	rows  map[string]Call
	order []string

	events map[string][]CallEvent

	CompletedCampaignLeads map[string]int // campaignLeadID -> attempt count
	QualifiedLeads         map[string]bool
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		rows:                   make(map[string]Call),
		events:                 make(map[string][]CallEvent),
		CompletedCampaignLeads: make(map[string]int),
		QualifiedLeads:         make(map[string]bool),
	}
}

func (r *MemoryRepository) Create(_ context.Context, call Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[call.ID] = call
	r.order = append(r.order, call.ID)
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (Call, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	call, ok := r.rows[id]
	if !ok {
		return Call{}, ErrNotFound
	}
	return call, nil
}

func (r *MemoryRepository) GetByProviderCallID(_ context.Context, providerCallID string) (Call, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		if r.rows[id].ProviderCallID == providerCallID && providerCallID != "" {
			return r.rows[id], nil
		}
	}
	return Call{}, ErrNotFound
}

func (r *MemoryRepository) List(_ context.Context, f ListFilter) ([]Call, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []Call{}
	for _, id := range r.order {
		call := r.rows[id]
		if f.LeadID != "" && call.LeadID != f.LeadID {
			continue
		}
		if f.Status != "" && call.Status != f.Status {
			continue
		}
		if f.Outcome != "" && call.Outcome != f.Outcome {
			continue
		}
		matched = append(matched, call)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		less := matched[i].CreatedAt.Before(matched[j].CreatedAt)
		if f.SortOrder == "asc" {
			return less
		}
		return !less
	})

	total := len(matched)
	if f.Offset >= total {
		return []Call{}, total, nil
	}
	end := f.Offset + f.Limit
	if f.Limit <= 0 || end > total {
		end = total
	}
	return matched[f.Offset:end], total, nil
}

func (r *MemoryRepository) MarkDispatched(_ context.Context, callID, providerCallID string, at time.Time) error {
	return r.mutate(callID, func(call *Call) {
		call.ProviderCallID = providerCallID
		call.Status = StatusRinging
		call.UpdatedAt = at
	})
}

func (r *MemoryRepository) MarkFailed(_ context.Context, callID string, at time.Time) error {
	return r.mutate(callID, func(call *Call) {
		call.Status = StatusFailed
		call.UpdatedAt = at
	})
}

func (r *MemoryRepository) AppendEvent(_ context.Context, ev CallEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[ev.CallID] = append(r.events[ev.CallID], ev)
	return nil
}

func (r *MemoryRepository) ListEvents(_ context.Context, callID string) ([]CallEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]CallEvent{}, r.events[callID]...), nil
}

func (r *MemoryRepository) Complete(_ context.Context, cpl Completion) (Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	call, ok := r.rows[cpl.CallID]
	if !ok {
		return Call{}, ErrNotFound
	}

	endedAt := cpl.EndedAt
	call.Status = StatusCompleted
	call.DurationSecs = cpl.DurationSecs
	call.RecordingURL = cpl.RecordingURL
	call.Transcription = cpl.Transcription
	call.Outcome = cpl.Outcome
	call.EndedAt = &endedAt
	call.UpdatedAt = endedAt
	r.rows[cpl.CallID] = call

	r.events[cpl.CallID] = append(r.events[cpl.CallID], cpl.Event)

	if cpl.CampaignLeadID != "" {
		r.CompletedCampaignLeads[cpl.CampaignLeadID]++
	}
	if cpl.QualifyLeadID != "" {
		r.QualifiedLeads[cpl.QualifyLeadID] = true
	}
	return call, nil
}

func (r *MemoryRepository) mutate(id string, fn func(*Call)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	call, ok := r.rows[id]
	if !ok {
		return ErrNotFound
	}
	fn(&call)
	r.rows[id] = call
	return nil
}
