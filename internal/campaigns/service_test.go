package campaigns

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestService() (*Service, *MemoryRepository) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	svc.clock = func() time.Time { return time.Unix(1700000000, 0).UTC() }
	return svc, repo
}

func TestCreate_Defaults(t *testing.T) {
	svc, _ := newTestService()

	cp, err := svc.Create(context.Background(), CreateCampaignRequest{
		Name:   "Q4 outreach",
		Script: "Hi, this is a courtesy call.",
	}, "user-1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cp.Status != StatusDraft {
		t.Fatalf("new campaigns start in DRAFT, got %s", cp.Status)
	}
	if cp.MaxRetries != 3 || cp.RetryDelayMinutes != 60 {
		t.Fatalf("retry defaults not applied: %+v", cp)
	}
	if cp.CallingWindowStart != "09:00" || cp.CallingWindowEnd != "17:00" {
		t.Fatalf("calling window defaults not applied: %+v", cp)
	}
}

func TestStartPauseLifecycle(t *testing.T) {
	svc, _ := newTestService()
	cp, _ := svc.Create(context.Background(), CreateCampaignRequest{Name: "c", Script: "s"}, "u")

	started, err := svc.Start(context.Background(), cp.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Status != StatusActive {
		t.Fatalf("expected ACTIVE, got %s", started.Status)
	}

	if _, err := svc.Start(context.Background(), cp.ID); !errors.Is(err, ErrAlreadyActive) {
		t.Fatalf("starting an active campaign must conflict, got %v", err)
	}

	paused, err := svc.Pause(context.Background(), cp.ID)
	if err != nil {
		t.Fatalf("pause: %v", err)
	}
	if paused.Status != StatusPaused {
		t.Fatalf("expected PAUSED, got %s", paused.Status)
	}

	if _, err := svc.Pause(context.Background(), cp.ID); !errors.Is(err, ErrNotActive) {
		t.Fatalf("pausing a non-active campaign must conflict, got %v", err)
	}
}

func TestStart_UnknownCampaign(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Start(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddLeads_DeduplicatesPairs(t *testing.T) {
	svc, _ := newTestService()
	cp, _ := svc.Create(context.Background(), CreateCampaignRequest{Name: "c", Script: "s"}, "u")

	added, err := svc.AddLeads(context.Background(), cp.ID, []string{"l1", "l2"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if added != 2 {
		t.Fatalf("expected 2 added, got %d", added)
	}

	// Re-adding an existing pair is silently skipped.
	added, err = svc.AddLeads(context.Background(), cp.ID, []string{"l1", "l3"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if added != 1 {
		t.Fatalf("expected only the new pair counted, got %d", added)
	}

	detail, err := svc.GetByID(context.Background(), cp.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(detail.Leads) != 3 {
		t.Fatalf("expected 3 associations, got %d", len(detail.Leads))
	}
	for _, cl := range detail.Leads {
		if cl.Status != LeadStatusPending {
			t.Fatalf("new associations start PENDING, got %s", cl.Status)
		}
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	svc, _ := newTestService()
	cp, _ := svc.Create(context.Background(), CreateCampaignRequest{Name: "before", Script: "s"}, "u")

	name := "after"
	retries := 5
	updated, err := svc.Update(context.Background(), cp.ID, UpdateCampaignRequest{
		Name:       &name,
		MaxRetries: &retries,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if updated.Name != "after" || updated.MaxRetries != 5 {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.Script != "s" {
		t.Fatalf("untouched field changed: %q", updated.Script)
	}
}
