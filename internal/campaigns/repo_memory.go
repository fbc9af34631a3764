package campaigns

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepository is an in-memory Repository for tests and local bring-up.
type MemoryRepository struct {
	mu    sync.RWMutex
	rows  map[string]Campaign
	order []string

	links     map[string]CampaignLead // keyed by campaignID + "/" + leadID
	linkOrder []string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		rows:  make(map[string]Campaign),
		links: make(map[string]CampaignLead),
	}
}

func (r *MemoryRepository) Create(_ context.Context, cp Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[cp.ID] = cp
	r.order = append(r.order, cp.ID)
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cp, ok := r.rows[id]
	if !ok {
		return Campaign{}, ErrNotFound
	}
	return cp, nil
}

func (r *MemoryRepository) Update(_ context.Context, cp Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[cp.ID]; !ok {
		return ErrNotFound
	}
	r.rows[cp.ID] = cp
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return ErrNotFound
	}
	delete(r.rows, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryRepository) List(_ context.Context, f ListFilter) ([]Campaign, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []Campaign{}
	for _, id := range r.order {
		cp := r.rows[id]
		if f.Search != "" {
			term := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(cp.Name), term) &&
				!strings.Contains(strings.ToLower(cp.Description), term) {
				continue
			}
		}
		matched = append(matched, cp)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		less := matched[i].CreatedAt.Before(matched[j].CreatedAt)
		if f.SortOrder == "desc" {
			return !less
		}
		return less
	})

	total := len(matched)
	if f.Offset >= total {
		return []Campaign{}, total, nil
	}
	end := f.Offset + f.Limit
	if f.Limit <= 0 || end > total {
		end = total
	}
	return matched[f.Offset:end], total, nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp, ok := r.rows[id]
	if !ok {
		return ErrNotFound
	}
	cp.Status = status
	r.rows[id] = cp
	return nil
}

func (r *MemoryRepository) AddLeads(_ context.Context, cls []CampaignLead) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	added := 0
	for _, cl := range cls {
		key := cl.CampaignID + "/" + cl.LeadID
		if _, dup := r.links[key]; dup {
			continue
		}
		r.links[key] = cl
		r.linkOrder = append(r.linkOrder, key)
		added++
	}
	return added, nil
}

func (r *MemoryRepository) ListLeads(_ context.Context, campaignID string) ([]CampaignLead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []CampaignLead{}
	for _, key := range r.linkOrder {
		cl := r.links[key]
		if cl.CampaignID == campaignID {
			out = append(out, cl)
		}
	}
	return out, nil
}
