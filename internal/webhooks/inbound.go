package webhooks

import (
	"encoding/json"
	"net/http"

	"leadvoice/internal/httpapi"
	"leadvoice/internal/leads"
	"leadvoice/pkg/logger"

	"github.com/gin-gonic/gin"
)

// InboundHandler accepts generic payloads from external integrations.
// Anything carrying a phone number becomes a lead; the whole payload is
// preserved as lead metadata.
type InboundHandler struct {
	Leads *leads.Service
}

func (h InboundHandler) Handle(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Validation error")
		return
	}

	logger.FromGin(c).Info("inbound webhook received", "fields", len(body))

	phone := str(body, "phone")
	if phone == "" {
		httpapi.OKMessage(c, "Webhook received")
		return
	}

	firstName := str(body, "firstName")
	if firstName == "" {
		firstName = str(body, "first_name")
	}
	if firstName == "" {
		firstName = "Unknown"
	}
	lastName := str(body, "lastName")
	if lastName == "" {
		lastName = str(body, "last_name")
	}

	metadata, _ := json.Marshal(body)
	lead, err := h.Leads.Create(c.Request.Context(), leads.CreateLeadRequest{
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
		Email:     str(body, "email"),
		Company:   str(body, "company"),
		Source:    leads.SourceAPI,
		Metadata:  metadata,
	})
	if err != nil {
		httpapi.Internal(c, logger.FromGin(c), err)
		return
	}
	httpapi.Created(c, lead)
}
