package webhooks

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"leadvoice/internal/calls"
	"leadvoice/internal/httpapi"
	"leadvoice/internal/leads"
	"leadvoice/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AutomationHandler receives actions from workflow automation tools.
// Unlike the provider webhook, the sender here handles failures, so
// validation and processing errors surface as real HTTP errors.
type AutomationHandler struct {
	Leads *leads.Service
	Calls *calls.Service
}

type automationRequest struct {
	Action string         `json:"action" binding:"required"`
	Data   map[string]any `json:"data" binding:"required"`
}

func (h AutomationHandler) Handle(c *gin.Context) {
	var req automationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Validation error")
		return
	}

	logger.FromGin(c).Info("automation webhook received", "action", req.Action)

	switch req.Action {
	case "create_lead":
		h.createLead(c, req.Data)
	case "update_lead":
		h.updateLead(c, req.Data)
	case "trigger_call":
		h.triggerCall(c, req.Data)
	default:
		httpapi.Fail(c, http.StatusBadRequest, fmt.Sprintf("Unknown action: %s", req.Action))
	}
}

func (h AutomationHandler) createLead(c *gin.Context, data map[string]any) {
	var metadata json.RawMessage
	if raw, ok := data["metadata"]; ok {
		metadata, _ = json.Marshal(raw)
	}
	lead, err := h.Leads.Create(c.Request.Context(), leads.CreateLeadRequest{
		FirstName: str(data, "firstName"),
		LastName:  str(data, "lastName"),
		Phone:     str(data, "phone"),
		Email:     str(data, "email"),
		Company:   str(data, "company"),
		Source:    leads.SourceAPI,
		Metadata:  metadata,
	})
	if err != nil {
		if errors.Is(err, leads.ErrInvalidArgument) {
			httpapi.Fail(c, http.StatusBadRequest, "Validation error")
			return
		}
		httpapi.Internal(c, logger.FromGin(c), err)
		return
	}
	httpapi.OK(c, lead)
}

func (h AutomationHandler) updateLead(c *gin.Context, data map[string]any) {
	upd := leads.UpdateLeadRequest{}
	if v := str(data, "status"); v != "" {
		status := leads.Status(v)
		upd.Status = &status
	}
	if raw, ok := data["score"].(float64); ok {
		score := int(raw)
		upd.Score = &score
	}
	if v := str(data, "notes"); v != "" {
		upd.Notes = &v
	}

	lead, err := h.Leads.Update(c.Request.Context(), str(data, "leadId"), upd)
	if err != nil {
		switch {
		case errors.Is(err, leads.ErrNotFound):
			httpapi.Fail(c, http.StatusNotFound, "Lead not found")
		case errors.Is(err, leads.ErrInvalidArgument):
			httpapi.Fail(c, http.StatusBadRequest, "Validation error")
		default:
			httpapi.Internal(c, logger.FromGin(c), err)
		}
		return
	}
	httpapi.OK(c, lead)
}

func (h AutomationHandler) triggerCall(c *gin.Context, data map[string]any) {
	call, providerCall, err := h.Calls.InitiateCall(c.Request.Context(), calls.InitiateCallRequest{
		LeadID:         str(data, "leadId"),
		CampaignLeadID: str(data, "campaignLeadId"),
		AssistantID:    str(data, "assistantId"),
	})
	if err != nil {
		if errors.Is(err, leads.ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Lead not found")
			return
		}
		httpapi.Internal(c, logger.FromGin(c), err)
		return
	}
	httpapi.OK(c, gin.H{"call": call, "providerCall": providerCall})
}

func str(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}
