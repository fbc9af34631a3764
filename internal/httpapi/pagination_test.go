package httpapi

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func paginationFor(t *testing.T, rawQuery string) Pagination {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return ParsePagination(c)
}

func TestParsePagination_Defaults(t *testing.T) {
	p := paginationFor(t, "")
	if p.Page != 1 || p.Limit != 20 {
		t.Fatalf("defaults wrong: %+v", p)
	}
	if p.SortOrder != "asc" {
		t.Fatalf("default sort order must be asc, got %q", p.SortOrder)
	}
	if p.Offset() != 0 {
		t.Fatalf("offset for page 1 must be 0, got %d", p.Offset())
	}
}

func TestParsePagination_ClampsAndParses(t *testing.T) {
	p := paginationFor(t, "page=3&limit=500&search=ada&sortBy=createdAt&sortOrder=desc")
	if p.Limit != 100 {
		t.Fatalf("limit must clamp to 100, got %d", p.Limit)
	}
	if p.Page != 3 || p.Offset() != 200 {
		t.Fatalf("offset wrong: page=%d offset=%d", p.Page, p.Offset())
	}
	if p.Search != "ada" || p.SortBy != "createdAt" || p.SortOrder != "desc" {
		t.Fatalf("query fields not parsed: %+v", p)
	}

	p = paginationFor(t, "page=-2&limit=0")
	if p.Page != 1 || p.Limit != 20 {
		t.Fatalf("invalid values must fall back to defaults: %+v", p)
	}
}

func TestNewPageMeta(t *testing.T) {
	meta := NewPageMeta(45, 2, 20)
	if meta.TotalPages != 3 {
		t.Fatalf("expected 3 pages for 45/20, got %d", meta.TotalPages)
	}
	if meta.Total != 45 || meta.Page != 2 || meta.Limit != 20 {
		t.Fatalf("meta fields wrong: %+v", meta)
	}

	empty := NewPageMeta(0, 1, 20)
	if empty.TotalPages != 0 {
		t.Fatalf("zero rows means zero pages, got %d", empty.TotalPages)
	}
}
