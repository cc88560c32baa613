// Package listutil parses search, sort and page parameters for list views
// and applies them to in-memory slices fetched from the API.
package listutil

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 20

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{10, 20, 50, 100}

// Sort directions.
const (
	DirAsc  = "asc"
	DirDesc = "desc"
)

// ListParams are the list-view parameters carried in the query string.
type ListParams struct {
	Search  string // "q"
	Sort    string // "sort", one of the allowed columns or ""
	Dir     string // "dir", DirAsc or DirDesc
	Page    int    // "page", 1-indexed
	PerPage int    // "per_page", one of PerPageOptions
}

// ParseListParams reads q, sort, dir, page and per_page.
// PRE: allowedSort lists the sortable column names
// POST: unknown columns become "", bad numbers fall back to defaults, Dir is always set
func ParseListParams(q url.Values, allowedSort []string) ListParams {
	p := ListParams{
		Search: strings.TrimSpace(q.Get("q")),
		Sort:   q.Get("sort"),
		Dir:    q.Get("dir"),
	}
	if !slices.Contains(allowedSort, p.Sort) {
		p.Sort = ""
	}
	if p.Dir != DirDesc {
		p.Dir = DirAsc
	}
	p.Page, _ = strconv.Atoi(q.Get("page"))
	if p.Page < 1 {
		p.Page = 1
	}
	p.PerPage, _ = strconv.Atoi(q.Get("per_page"))
	if !slices.Contains(PerPageOptions, p.PerPage) {
		p.PerPage = DefaultPerPage
	}
	return p
}

// Query encodes the parameters back into a query string, omitting defaults.
func (p ListParams) Query() url.Values {
	q := url.Values{}
	if p.Search != "" {
		q.Set("q", p.Search)
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
		q.Set("dir", p.Dir)
	}
	if p.Page > 1 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage != DefaultPerPage && p.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(p.PerPage))
	}
	return q
}

// PageHref is the relative link to another page of the same list.
func (p ListParams) PageHref(page int) string {
	p.Page = page
	return "?" + p.Query().Encode()
}

// SortHref links to the list sorted by col, flipping the direction when col is already active.
// POST: the link always lands on page 1
func (p ListParams) SortHref(col string) string {
	dir := DirAsc
	if p.Sort == col && p.Dir == DirAsc {
		dir = DirDesc
	}
	p.Sort, p.Dir, p.Page = col, dir, 1
	return "?" + p.Query().Encode()
}

// Matches reports whether search is a case-insensitive substring of any field.
// An empty search matches everything.
func Matches(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0
// POST: TotalPages >= 1 and Page is clamped into [1, TotalPages]
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := max((total+perPage-1)/perPage, 1)
	return PageInfo{
		Page:       min(max(page, 1), totalPages),
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset is the index of the first row on the current page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// StartRow returns the 1-indexed first row number, or 0 for an empty list.
func (p PageInfo) StartRow() int {
	if p.Total == 0 {
		return 0
	}
	return p.Offset() + 1
}

// EndRow returns the 1-indexed last row number on the current page.
func (p PageInfo) EndRow() int {
	return min(p.Offset()+p.PerPage, p.Total)
}

// PageNumbers returns at most five page numbers centered on the current page.
func (p PageInfo) PageNumbers() []int {
	const maxButtons = 5
	start := max(p.Page-maxButtons/2, 1)
	end := start + maxButtons - 1
	if end > p.TotalPages {
		end = p.TotalPages
		start = max(end-maxButtons+1, 1)
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// ShowPagination reports whether there is more than one page.
func (p PageInfo) ShowPagination() bool {
	return p.TotalPages > 1
}

// Window returns the rows of items on the page described by info.
// PRE: info was computed from len(items)
func Window[T any](items []T, info PageInfo) []T {
	start := min(info.Offset(), len(items))
	end := min(start+info.PerPage, len(items))
	return items[start:end]
}
