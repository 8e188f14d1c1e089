// Package paging is the uniform query/filter contract shared by every list
// view. The upstream server answers either a Spring-style page envelope or a
// bare array; both are normalized into Page[T] at the boundary so internal
// components only ever see one shape.
package paging

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	DefaultSize = 20
	MaxSize     = 200

	SortAsc  = "asc"
	SortDesc = "desc"
)

var reISODate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Query carries the pagination and filter parameters every list-fetching
// operation accepts. Page is 0-based.
type Query struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string

	Status     string
	StartDate  string // YYYY-MM-DD
	EndDate    string // YYYY-MM-DD
	SingleDate string // YYYY-MM-DD, mutually exclusive with the range
}

// Normalize fills defaults and clamps out-of-range values.
func (q Query) Normalize() Query {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Size <= 0 {
		q.Size = DefaultSize
	}
	if q.Size > MaxSize {
		q.Size = MaxSize
	}
	if q.SortDir != "" && !strings.EqualFold(q.SortDir, SortAsc) && !strings.EqualFold(q.SortDir, SortDesc) {
		q.SortDir = SortAsc
	}
	// equal range bounds collapse to a single date
	if q.SingleDate == "" && q.StartDate != "" && q.StartDate == q.EndDate {
		q.SingleDate = q.StartDate
		q.StartDate, q.EndDate = "", ""
	}
	return q
}

// Validate rejects malformed dates and sort directions.
func (q Query) Validate() error {
	for name, d := range map[string]string{"startDate": q.StartDate, "endDate": q.EndDate, "singleDate": q.SingleDate} {
		if d != "" && !reISODate.MatchString(d) {
			return fmt.Errorf("invalid %s %q: expected YYYY-MM-DD", name, d)
		}
	}
	if q.SingleDate != "" && (q.StartDate != "" || q.EndDate != "") {
		return fmt.Errorf("singleDate cannot be combined with startDate/endDate")
	}
	if (q.StartDate == "") != (q.EndDate == "") {
		return fmt.Errorf("startDate and endDate must be provided together")
	}
	return nil
}

// Values renders the uniform query parameters for an upstream call.
func (q Query) Values() url.Values {
	q = q.Normalize()
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.Size))
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
		dir := q.SortDir
		if dir == "" {
			dir = SortAsc
		}
		v.Set("sortDir", strings.ToLower(dir))
	}
	if q.Status != "" && !strings.EqualFold(q.Status, "ALL") {
		v.Set("status", q.Status)
	}
	if q.SingleDate != "" {
		v.Set("singleDate", q.SingleDate)
	} else if q.StartDate != "" && q.EndDate != "" {
		v.Set("startDate", q.StartDate)
		v.Set("endDate", q.EndDate)
	}
	return v
}

// Page is the one canonical paginated-result shape.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Number        int   `json:"number"`
	HasNext       bool  `json:"hasNext"`
	HasPrevious   bool  `json:"hasPrevious"`
}

// FromSlice wraps a bare-array response as one full page.
func FromSlice[T any](items []T) Page[T] {
	return Page[T]{
		Content:       items,
		TotalPages:    1,
		TotalElements: int64(len(items)),
		Number:        0,
	}
}

// Of builds a page from a counted window, the way list endpoints respond.
func Of[T any](items []T, page, size int, total int64) Page[T] {
	if size <= 0 {
		size = DefaultSize
	}
	pages := int((total + int64(size) - 1) / int64(size))
	return Page[T]{
		Content:       items,
		TotalPages:    pages,
		TotalElements: total,
		Number:        page,
		HasNext:       page+1 < pages,
		HasPrevious:   page > 0,
	}
}

// Map converts a page's content, keeping the page metadata.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := Page[U]{
		Content:       make([]U, 0, len(p.Content)),
		TotalPages:    p.TotalPages,
		TotalElements: p.TotalElements,
		Number:        p.Number,
		HasNext:       p.HasNext,
		HasPrevious:   p.HasPrevious,
	}
	for _, item := range p.Content {
		out.Content = append(out.Content, fn(item))
	}
	return out
}
