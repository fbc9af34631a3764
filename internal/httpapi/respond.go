package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the JSON envelope every endpoint returns.
// External collaborators (the dashboard, automation workflows) rely on this shape.
type Response struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   string    `json:"error,omitempty"`
	Message string    `json:"message,omitempty"`
	Meta    *PageMeta `json:"meta,omitempty"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func OKMessage(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Response{Success: true, Message: msg})
}

func OKPage(c *gin.Context, data any, meta PageMeta) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Meta: &meta})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// Fail writes an error envelope and aborts the handler chain.
func Fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Response{Success: false, Error: msg})
}

// Internal logs the real error and returns a generic 500.
// Internal detail must never leak to the caller.
func Internal(c *gin.Context, log *slog.Logger, err error) {
	log.Error("internal error", "err", err, "path", c.FullPath())
	Fail(c, http.StatusInternalServerError, "Internal server error")
}
