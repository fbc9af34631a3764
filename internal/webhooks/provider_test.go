package webhooks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leadvoice/internal/calls"
	"leadvoice/internal/leads"
	"leadvoice/internal/voice"

	"github.com/gin-gonic/gin"
)

type stubDirectory struct{}

func (stubDirectory) GetByID(_ context.Context, id string) (leads.Lead, error) {
	return leads.Lead{ID: id, FirstName: "Ada", Phone: "+15550001111"}, nil
}

type stubDialer struct {
	id string
}

func (d stubDialer) StartCall(_ context.Context, _ voice.StartCallRequest) (voice.Call, error) {
	return voice.Call{ID: d.id}, nil
}

func newProviderRouter(t *testing.T, secret string) (*gin.Engine, *calls.MemoryRepository, *calls.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := calls.NewMemoryRepository()
	svc := calls.NewService(repo, stubDirectory{}, stubDialer{id: "prov-1"})

	r := gin.New()
	r.POST("/api/webhooks/provider", ProviderHandler{Calls: svc, Secret: secret}.Handle)
	return r, repo, svc
}

func post(r *gin.Engine, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/provider", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProviderWebhook_AlwaysAcknowledges(t *testing.T) {
	r, _, _ := newProviderRouter(t, "")

	cases := []struct {
		name string
		body string
	}{
		{"unknown type", `{"message":{"type":"speech-update"}}`},
		{"missing call id", `{"message":{"type":"end-of-call-report"}}`},
		{"malformed json", `{not json`},
		{"empty body", `{}`},
		{"report for unknown call", `{"message":{"type":"end-of-call-report","call":{"id":"ghost"}}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := post(r, tc.body, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("webhook must always return 200, got %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), `"success":true`) {
				t.Fatalf("expected success body, got %s", w.Body.String())
			}
		})
	}
}

func TestProviderWebhook_EndOfCallReport(t *testing.T) {
	r, repo, svc := newProviderRouter(t, "")

	call, _, err := svc.InitiateCall(context.Background(), calls.InitiateCallRequest{LeadID: "lead-1"})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	body := `{"message":{"type":"end-of-call-report","call":{"id":"prov-1"},` +
		`"duration":30.2,"transcript":"hi","summary":"done",` +
		`"analysis":{"successEvaluation":"customer interested"}}}`
	w := post(r, body, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	stored, err := repo.GetByID(context.Background(), call.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != calls.StatusCompleted {
		t.Fatalf("expected COMPLETED after report, got %s", stored.Status)
	}
	if stored.Outcome != calls.OutcomeInterested {
		t.Fatalf("expected INTERESTED, got %s", stored.Outcome)
	}
	if stored.DurationSecs != 30 {
		t.Fatalf("expected rounded duration 30, got %d", stored.DurationSecs)
	}
}

func TestProviderWebhook_SharedSecret(t *testing.T) {
	r, _, _ := newProviderRouter(t, "hunter2")

	w := post(r, `{"message":{"type":"status-update"}}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing secret must be rejected, got %d", w.Code)
	}

	w = post(r, `{"message":{"type":"status-update"}}`, map[string]string{"X-Provider-Secret": "hunter2"})
	if w.Code != http.StatusOK {
		t.Fatalf("valid secret must be accepted, got %d", w.Code)
	}
}
