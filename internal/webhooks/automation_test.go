package webhooks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leadvoice/internal/calls"
	"leadvoice/internal/leads"

	"github.com/gin-gonic/gin"
)

func newAutomationRouter(t *testing.T) (*gin.Engine, *leads.Service, *calls.MemoryRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	leadSvc := leads.NewService(leads.NewMemoryRepository())
	callRepo := calls.NewMemoryRepository()
	callSvc := calls.NewService(callRepo, leadSvc, stubDialer{id: "prov-9"})

	r := gin.New()
	r.POST("/api/webhooks/automation", AutomationHandler{Leads: leadSvc, Calls: callSvc}.Handle)
	return r, leadSvc, callRepo
}

func postAutomation(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/automation", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAutomation_UnknownAction(t *testing.T) {
	r, _, _ := newAutomationRouter(t)

	w := postAutomation(r, `{"action":"reticulate_splines","data":{}}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown action must be 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Unknown action: reticulate_splines") {
		t.Fatalf("error message missing action name: %s", w.Body.String())
	}
}

func TestAutomation_CreateLead(t *testing.T) {
	r, leadSvc, _ := newAutomationRouter(t)

	w := postAutomation(r, `{"action":"create_lead","data":{"firstName":"Ada","lastName":"Lovelace","phone":"+15550001111","company":"AE"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	out, total, err := leadSvc.List(context.Background(), leads.ListFilter{Limit: 10})
	if err != nil || total != 1 {
		t.Fatalf("lead not created: err=%v total=%d", err, total)
	}
	if out[0].Source != leads.SourceAPI {
		t.Fatalf("automation leads must carry source API, got %s", out[0].Source)
	}
}

func TestAutomation_TriggerCall(t *testing.T) {
	r, leadSvc, callRepo := newAutomationRouter(t)

	lead, err := leadSvc.Create(context.Background(), leads.CreateLeadRequest{
		FirstName: "Ada", LastName: "L", Phone: "+15550001111",
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	w := postAutomation(r, `{"action":"trigger_call","data":{"leadId":"`+lead.ID+`"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	stored, err := callRepo.GetByProviderCallID(context.Background(), "prov-9")
	if err != nil {
		t.Fatalf("call not dispatched: %v", err)
	}
	if stored.Status != calls.StatusRinging {
		t.Fatalf("expected RINGING, got %s", stored.Status)
	}
	if stored.LeadID != lead.ID {
		t.Fatalf("call linked to wrong lead: %s", stored.LeadID)
	}

	w = postAutomation(r, `{"action":"trigger_call","data":{"leadId":"ghost"}}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown lead must be 404, got %d", w.Code)
	}
}
