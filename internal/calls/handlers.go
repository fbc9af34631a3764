package calls

import (
	"context"
	"errors"
	"net/http"

	"leadvoice/internal/httpapi"
	"leadvoice/internal/leads"
	"leadvoice/internal/voice"
	"leadvoice/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Provider is the slice of the voice client used for passthrough endpoints.
type Provider interface {
	GetCall(ctx context.Context, providerCallID string) (voice.Call, error)
	ListCalls(ctx context.Context, params voice.ListCallsParams) ([]voice.Call, error)
	ListAssistants(ctx context.Context) ([]voice.Assistant, error)
	GetAssistant(ctx context.Context, id string) (voice.Assistant, error)
	CreateAssistant(ctx context.Context, a voice.Assistant) (voice.Assistant, error)
}

// Handlers exposes the /calls and /assistants HTTP surface.
type Handlers struct {
	Service  *Service
	Provider Provider
}

func (h Handlers) Create(c *gin.Context) {
	var req InitiateCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Validation error")
		return
	}

	call, providerCall, err := h.Service.InitiateCall(c.Request.Context(), req)
	if err != nil {
		var provErr *voice.ProviderError
		switch {
		case errors.Is(err, leads.ErrNotFound):
			httpapi.Fail(c, http.StatusNotFound, "Lead not found")
		case errors.Is(err, voice.ErrNotConfigured):
			httpapi.Fail(c, http.StatusBadGateway, "Voice provider not configured")
		case errors.As(err, &provErr):
			logger.FromGin(c).Warn("provider rejected call",
				"status", provErr.StatusCode, "body", provErr.Body)
			httpapi.Fail(c, http.StatusBadGateway, "Voice provider error")
		default:
			httpapi.Internal(c, logger.FromGin(c), err)
		}
		return
	}
	httpapi.Created(c, gin.H{"call": call, "providerCall": providerCall})
}

// List serves the local call log. With remote=true it lists the provider's
// view instead, unpaginated beyond the limit the provider accepts.
func (h Handlers) List(c *gin.Context) {
	p := httpapi.ParsePagination(c)

	if c.Query("remote") == "true" {
		out, err := h.Provider.ListCalls(c.Request.Context(), voice.ListCallsParams{Limit: p.Limit})
		if err != nil {
			h.providerError(c, err)
			return
		}
		httpapi.OK(c, out)
		return
	}

	f := ListFilter{
		LeadID:    c.Query("leadId"),
		Status:    Status(c.Query("status")),
		Outcome:   Outcome(c.Query("outcome")),
		SortOrder: p.SortOrder,
		Limit:     p.Limit,
		Offset:    p.Offset(),
	}
	out, total, err := h.Service.List(c.Request.Context(), f)
	if err != nil {
		httpapi.Internal(c, logger.FromGin(c), err)
		return
	}
	httpapi.OKPage(c, out, httpapi.NewPageMeta(total, p.Page, p.Limit))
}

// Get returns the provider's live view of a call.
func (h Handlers) Get(c *gin.Context) {
	providerCall, err := h.Provider.GetCall(c.Request.Context(), c.Param("callId"))
	if err != nil {
		var provErr *voice.ProviderError
		if errors.As(err, &provErr) && provErr.StatusCode == http.StatusNotFound {
			httpapi.Fail(c, http.StatusNotFound, "Call not found")
			return
		}
		h.providerError(c, err)
		return
	}
	httpapi.OK(c, providerCall)
}

func (h Handlers) Events(c *gin.Context) {
	if _, err := h.Service.GetByID(c.Request.Context(), c.Param("callId")); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Call not found")
			return
		}
		httpapi.Internal(c, logger.FromGin(c), err)
		return
	}
	events, err := h.Service.ListEvents(c.Request.Context(), c.Param("callId"))
	if err != nil {
		httpapi.Internal(c, logger.FromGin(c), err)
		return
	}
	httpapi.OK(c, events)
}

func (h Handlers) ListAssistants(c *gin.Context) {
	assistants, err := h.Provider.ListAssistants(c.Request.Context())
	if err != nil {
		h.providerError(c, err)
		return
	}
	httpapi.OK(c, assistants)
}

func (h Handlers) GetAssistant(c *gin.Context) {
	assistant, err := h.Provider.GetAssistant(c.Request.Context(), c.Param("id"))
	if err != nil {
		var provErr *voice.ProviderError
		if errors.As(err, &provErr) && provErr.StatusCode == http.StatusNotFound {
			httpapi.Fail(c, http.StatusNotFound, "Assistant not found")
			return
		}
		h.providerError(c, err)
		return
	}
	httpapi.OK(c, assistant)
}

func (h Handlers) CreateAssistant(c *gin.Context) {
	var req voice.Assistant
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Validation error")
		return
	}
	assistant, err := h.Provider.CreateAssistant(c.Request.Context(), req)
	if err != nil {
		h.providerError(c, err)
		return
	}
	httpapi.Created(c, assistant)
}

func (h Handlers) providerError(c *gin.Context, err error) {
	var provErr *voice.ProviderError
	switch {
	case errors.Is(err, voice.ErrNotConfigured):
		httpapi.Fail(c, http.StatusBadGateway, "Voice provider not configured")
	case errors.As(err, &provErr):
		logger.FromGin(c).Warn("voice provider error",
			"status", provErr.StatusCode, "body", provErr.Body)
		httpapi.Fail(c, http.StatusBadGateway, "Voice provider error")
	default:
		httpapi.Internal(c, logger.FromGin(c), err)
	}
}
