package leads

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newLeadService() (*Service, *MemoryRepository) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	svc.clock = func() time.Time { return time.Unix(1700000000, 0).UTC() }
	return svc, repo
}

func TestCreateLead_Defaults(t *testing.T) {
	svc, _ := newLeadService()

	l, err := svc.Create(context.Background(), CreateLeadRequest{
		FirstName: "Ada", LastName: "Lovelace", Phone: "+15550001111",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if l.Status != StatusNew {
		t.Fatalf("new leads start NEW, got %s", l.Status)
	}
	if l.Source != SourceManual {
		t.Fatalf("default source is MANUAL, got %s", l.Source)
	}
}

func TestCreateLead_RejectsBadSource(t *testing.T) {
	svc, _ := newLeadService()
	_, err := svc.Create(context.Background(), CreateLeadRequest{
		FirstName: "Ada", LastName: "L", Phone: "+1555", Source: "CARRIER_PIGEON",
	})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestUpdateLead_ValidatesStatusAndScore(t *testing.T) {
	svc, _ := newLeadService()
	l, _ := svc.Create(context.Background(), CreateLeadRequest{
		FirstName: "Ada", LastName: "L", Phone: "+15550001111",
	})

	bad := Status("SORT_OF_INTERESTED")
	if _, err := svc.Update(context.Background(), l.ID, UpdateLeadRequest{Status: &bad}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("invalid status must be rejected, got %v", err)
	}

	over := 150
	if _, err := svc.Update(context.Background(), l.ID, UpdateLeadRequest{Score: &over}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("score over 100 must be rejected, got %v", err)
	}

	good := StatusQualified
	score := 80
	updated, err := svc.Update(context.Background(), l.ID, UpdateLeadRequest{Status: &good, Score: &score})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if updated.Status != StatusQualified || updated.Score != 80 {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestListLeads_FilterAndPaginate(t *testing.T) {
	svc, _ := newLeadService()
	seed := []CreateLeadRequest{
		{FirstName: "Ada", LastName: "Lovelace", Phone: "+15550001111", Source: SourceAPI},
		{FirstName: "Grace", LastName: "Hopper", Phone: "+15550002222", Source: SourceCSV},
		{FirstName: "Joan", LastName: "Clarke", Phone: "+15550003333", Source: SourceAPI},
	}
	for _, req := range seed {
		if _, err := svc.Create(context.Background(), req); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	out, total, err := svc.List(context.Background(), ListFilter{Source: SourceAPI, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if total != 2 || len(out) != 2 {
		t.Fatalf("expected 2 API leads, got total=%d len=%d", total, len(out))
	}

	out, total, err = svc.List(context.Background(), ListFilter{Search: "hopper", Limit: 10})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if total != 1 || out[0].FirstName != "Grace" {
		t.Fatalf("search failed: total=%d %+v", total, out)
	}
}

func TestBulkAssign(t *testing.T) {
	svc, _ := newLeadService()
	a, _ := svc.Create(context.Background(), CreateLeadRequest{FirstName: "Ada", LastName: "L", Phone: "+15550001111"})
	b, _ := svc.Create(context.Background(), CreateLeadRequest{FirstName: "Grace", LastName: "H", Phone: "+15550002222"})

	updated, err := svc.BulkAssign(context.Background(), []string{a.ID, b.ID, "ghost"}, "user-1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if updated != 2 {
		t.Fatalf("expected 2 updated, got %d", updated)
	}

	if _, err := svc.BulkAssign(context.Background(), nil, "user-1"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("empty id list must be rejected, got %v", err)
	}
}
