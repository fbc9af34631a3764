package leads

import (
	"errors"
	"net/http"

	"leadvoice/internal/httpapi"
	"leadvoice/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers exposes the /leads HTTP surface.
type Handlers struct {
	Service *Service
}

func (h Handlers) List(c *gin.Context) {
	p := httpapi.ParsePagination(c)
	f := ListFilter{
		Search:    p.Search,
		Status:    Status(c.Query("status")),
		Source:    Source(c.Query("source")),
		SortBy:    p.SortBy,
		SortOrder: p.SortOrder,
		Limit:     p.Limit,
		Offset:    p.Offset(),
	}

	ls, total, err := h.Service.List(c.Request.Context(), f)
	if err != nil {
		httpapi.Internal(c, logger.FromGin(c), err)
		return
	}
	httpapi.OKPage(c, ls, httpapi.NewPageMeta(total, p.Page, p.Limit))
}

func (h Handlers) Get(c *gin.Context) {
	l, err := h.Service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Lead not found")
			return
		}
		httpapi.Internal(c, logger.FromGin(c), err)
		return
	}
	httpapi.OK(c, l)
}

func (h Handlers) Create(c *gin.Context) {
	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Validation error")
		return
	}

	l, err := h.Service.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidArgument) {
			httpapi.Fail(c, http.StatusBadRequest, "Validation error")
			return
		}
		httpapi.Internal(c, logger.FromGin(c), err)
		return
	}
	httpapi.Created(c, l)
}

func (h Handlers) Update(c *gin.Context) {
	var req UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Validation error")
		return
	}

	l, err := h.Service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpapi.Fail(c, http.StatusNotFound, "Lead not found")
		case errors.Is(err, ErrInvalidArgument):
			httpapi.Fail(c, http.StatusBadRequest, "Validation error")
		default:
			httpapi.Internal(c, logger.FromGin(c), err)
		}
		return
	}
	httpapi.OK(c, l)
}

func (h Handlers) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "Lead not found")
			return
		}
		httpapi.Internal(c, logger.FromGin(c), err)
		return
	}
	httpapi.OKMessage(c, "Lead deleted")
}

// Import accepts a multipart CSV upload under the "file" field.
func (h Handlers) Import(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "No file uploaded")
		return
	}

	f, err := fh.Open()
	if err != nil {
		httpapi.Internal(c, logger.FromGin(c), err)
		return
	}
	defer f.Close()

	res, err := h.Service.ImportCSV(c.Request.Context(), f)
	if err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Malformed CSV")
		return
	}
	httpapi.OK(c, res)
}

type bulkAssignRequest struct {
	LeadIDs      []string `json:"leadIds" binding:"required,min=1"`
	AssignedToID string   `json:"assignedToId" binding:"required"`
}

func (h Handlers) BulkAssign(c *gin.Context) {
	var req bulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "Validation error")
		return
	}

	updated, err := h.Service.BulkAssign(c.Request.Context(), req.LeadIDs, req.AssignedToID)
	if err != nil {
		if errors.Is(err, ErrInvalidArgument) {
			httpapi.Fail(c, http.StatusBadRequest, "Validation error")
			return
		}
		httpapi.Internal(c, logger.FromGin(c), err)
		return
	}
	httpapi.OK(c, gin.H{"updated": updated})
}
