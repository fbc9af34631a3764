package leads

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepository is an in-memory Repository for tests and local bring-up.
type MemoryRepository struct {
	mu    sync.RWMutex
	rows  map[string]Lead
	order []string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[string]Lead)}
}

func (r *MemoryRepository) Create(_ context.Context, l Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[l.ID] = l
	r.order = append(r.order, l.ID)
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.rows[id]
	if !ok {
		return Lead{}, ErrNotFound
	}
	return l, nil
}

func (r *MemoryRepository) Update(_ context.Context, l Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[l.ID]; !ok {
		return ErrNotFound
	}
	r.rows[l.ID] = l
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

func (r *MemoryRepository) List(_ context.Context, f ListFilter) ([]Lead, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []Lead{}
	for _, id := range r.order {
		l := r.rows[id]
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		if f.Source != "" && l.Source != f.Source {
			continue
		}
		if f.Search != "" && !matchesSearch(l, f.Search) {
			continue
		}
		matched = append(matched, l)
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
		return []Lead{}, total, nil
	}
	end := f.Offset + f.Limit
	if f.Limit <= 0 || end > total {
		end = total
	}
	return matched[f.Offset:end], total, nil
}

func (r *MemoryRepository) BulkInsert(_ context.Context, ls []Lead) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	phones := make(map[string]struct{}, len(r.rows))
	for _, l := range r.rows {
		phones[l.Phone] = struct{}{}
	}

	inserted := 0
	for _, l := range ls {
		if _, dup := phones[l.Phone]; dup {
			continue
		}
		phones[l.Phone] = struct{}{}
		r.rows[l.ID] = l
		r.order = append(r.order, l.ID)
		inserted++
	}
	return inserted, nil
}

func (r *MemoryRepository) BulkAssign(_ context.Context, leadIDs []string, assignedToID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	updated := 0
	for _, id := range leadIDs {
		l, ok := r.rows[id]
		if !ok {
			continue
		}
		l.AssignedToID = assignedToID
		r.rows[id] = l
		updated++
	}
	return updated, nil
}

func matchesSearch(l Lead, term string) bool {
	term = strings.ToLower(term)
	for _, field := range []string{l.FirstName, l.LastName, l.Email, l.Phone, l.Company} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
