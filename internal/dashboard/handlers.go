package dashboard

import (
	"leadvoice/internal/httpapi"
	"leadvoice/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Service *Service
}

func (h Handlers) Stats(c *gin.Context) {
	stats, err := h.Service.Stats(c.Request.Context())
	if err != nil {
		httpapi.Internal(c, logger.FromGin(c), err)
		return
	}
	httpapi.OK(c, stats)
}

func (h Handlers) Charts(c *gin.Context) {
	charts, err := h.Service.Charts(c.Request.Context())
	if err != nil {
		httpapi.Internal(c, logger.FromGin(c), err)
		return
	}
	httpapi.OK(c, charts)
}
