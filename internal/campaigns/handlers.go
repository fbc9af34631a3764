package campaigns

import (
	"errors"
	"net/http"

	"leadvoice/internal/auth"
	"leadvoice/internal/httpapi"
	"leadvoice/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers exposes the /campaigns HTTP surface.
type Handlers struct {
	Service *Service
}

func (h Handlers) List(c *gin.Context) {
	p := httpapi.ParsePagination(c)
	cps, total, err := h.Service.List(c.Request.Context(), ListFilter{
		Search:    p.Search,
		SortOrder: p.SortOrder,
		Limit:     p.Limit,
		Offset:    p.Offset(),
	})
	if err != nil {
		httpapi.Internal(c, logger.FromGin(c), err)
		return
	}
	httpapi.OKPage(c, cps, httpapi.NewPageMeta(total, p.Page, p.Limit))
}

func (h Handlers) Get(c *gin.Context) {
	cp, err := h.Service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Campaign not found")
			return
		}
		httpapi.Internal(c, logger.FromGin(c), err)
		return
	}
	httpapi.OK(c, cp)
}

func (h Handlers) Create(c *gin.Context) {
	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Validation error")
		return
	}

	userID, _ := auth.UserID(c.Request.Context())
	cp, err := h.Service.Create(c.Request.Context(), req, userID)
	if err != nil {
		httpapi.Internal(c, logger.FromGin(c), err)
		return
	}
	httpapi.Created(c, cp)
}

func (h Handlers) Update(c *gin.Context) {
	var req UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Validation error")
		return
	}

	cp, err := h.Service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Campaign not found")
			return
		}
		httpapi.Internal(c, logger.FromGin(c), err)
		return
	}
	httpapi.OK(c, cp)
}

func (h Handlers) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Campaign not found")
			return
		}
		httpapi.Internal(c, logger.FromGin(c), err)
		return
	}
	httpapi.OKMessage(c, "Campaign deleted")
}

func (h Handlers) Start(c *gin.Context) {
	cp, err := h.Service.Start(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpapi.Fail(c, http.StatusNotFound, "Campaign not found")
		case errors.Is(err, ErrAlreadyActive):
			httpapi.Fail(c, http.StatusConflict, "Campaign is already active")
		default:
			httpapi.Internal(c, logger.FromGin(c), err)
		}
		return
	}
	httpapi.OK(c, cp)
}

func (h Handlers) Pause(c *gin.Context) {
	cp, err := h.Service.Pause(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpapi.Fail(c, http.StatusNotFound, "Campaign not found")
		case errors.Is(err, ErrNotActive):
			httpapi.Fail(c, http.StatusConflict, "Campaign is not active")
		default:
			httpapi.Internal(c, logger.FromGin(c), err)
		}
		return
	}
	httpapi.OK(c, cp)
}

type addLeadsRequest struct {
	LeadIDs []string `json:"leadIds" binding:"required,min=1"`
}

func (h Handlers) AddLeads(c *gin.Context) {
	var req addLeadsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Validation error")
		return
	}

	added, err := h.Service.AddLeads(c.Request.Context(), c.Param("id"), req.LeadIDs)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Campaign not found")
			return
		}
		httpapi.Internal(c, logger.FromGin(c), err)
		return
	}
	httpapi.OK(c, gin.H{"added": added})
}
