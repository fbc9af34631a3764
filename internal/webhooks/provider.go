package webhooks

import (
	"net/http"

	"leadvoice/internal/calls"
	"leadvoice/internal/voice"
	"leadvoice/pkg/logger"

	"github.com/gin-gonic/gin"
)

// providerMessage is the envelope the voice provider posts. The end-of-call
// fields live on the message itself, next to the call reference.
type providerMessage struct {
	Message struct {
		Type string `json:"type"`
		Call struct {
			ID string `json:"id"`
		} `json:"call"`
		Status       string         `json:"status,omitempty"`
		RecordingURL string         `json:"recordingUrl,omitempty"`
		Transcript   string         `json:"transcript,omitempty"`
		Summary      string         `json:"summary,omitempty"`
		Duration     float64        `json:"duration,omitempty"`
		Cost         float64        `json:"cost,omitempty"`
		Analysis     voice.Analysis `json:"analysis,omitempty"`
	} `json:"message"`
}

// ProviderHandler ingests asynchronous events from the voice provider.
//
// The provider expects an acknowledgment for every delivery, including event
// types this system does not act on. Internal failures are logged and
// swallowed; returning an error response would put the endpoint into the
// provider's retry loop.
type ProviderHandler struct {
	Calls *calls.Service

	// Secret, when set, must match the shared-secret header on every
	// delivery. Senders that fail the check are rejected outright.
	Secret string
}

func (h ProviderHandler) Handle(c *gin.Context) {
	log := logger.FromGin(c)

	if h.Secret != "" && c.GetHeader("X-Provider-Secret") != h.Secret {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
		return
	}

	var body providerMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		log.Warn("malformed provider webhook", "error", err)
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	msg := body.Message
	log.Info("provider webhook received", "type", msg.Type)

	switch msg.Type {
	case "end-of-call-report":
		if msg.Call.ID == "" {
			break
		}
		result := voice.Call{
			ID:           msg.Call.ID,
			RecordingURL: msg.RecordingURL,
			Transcript:   msg.Transcript,
			Summary:      msg.Summary,
			Duration:     msg.Duration,
			Cost:         msg.Cost,
			Analysis:     msg.Analysis,
		}
		if _, err := h.Calls.ProcessCallCompleted(c.Request.Context(), msg.Call.ID, result); err != nil {
			log.Error("failed to process call completion",
				"providerCallId", msg.Call.ID, "error", err)
		}

	case "status-update":
		log.Info("provider call status update",
			"providerCallId", msg.Call.ID, "status", msg.Status)

	case "transcript":
		log.Debug("provider transcript update received")

	default:
		log.Debug("unhandled provider webhook type", "type", msg.Type)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
