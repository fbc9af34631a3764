package httpapi

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// Pagination carries normalized list-query parameters.
type Pagination struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
}

// ParsePagination normalizes page/limit/search/sort query params.
// Out-of-range values are clamped rather than rejected.
func ParsePagination(c *gin.Context) Pagination {
	p := Pagination{
		Page:   defaultPage,
		Limit:  defaultLimit,
		Search: c.Query("search"),
		SortBy: c.Query("sortBy"),
	}
	if n, err := strconv.Atoi(c.Query("page")); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 {
		p.Limit = n
		if p.Limit > maxLimit {
			p.Limit = maxLimit
		}
	}
	if c.Query("sortOrder") == "desc" {
		p.SortOrder = "desc"
	} else {
		p.SortOrder = "asc"
	}
	return p
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageMeta describes a paginated result set.
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

func NewPageMeta(total, page, limit int) PageMeta {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return PageMeta{Total: total, Page: page, Limit: limit, TotalPages: pages}
}
