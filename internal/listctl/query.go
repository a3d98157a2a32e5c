package listctl

import (
	"github.com/alfredjeanlab/dateadmin/internal/client"
)

// SortOrder is the direction of a sorted list.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// IsValid reports whether o is empty or a known direction.
func (o SortOrder) IsValid() bool {
	return o == "" || o == SortAsc || o == SortDesc
}

// DefaultPageSize is used when a controller is created without one.
const DefaultPageSize = 10

// Query is the list screen's view of what to fetch.
type Query struct {
	Page      int               `json:"page"`
	PageSize  int               `json:"pageSize"`
	SortBy    string            `json:"sortBy,omitempty"`
	SortOrder SortOrder         `json:"sortOrder,omitempty"`
	Filters   map[string]string `json:"filters,omitempty"`
	Search    string            `json:"search,omitempty"`
}

func (q Query) clone() Query {
	if q.Filters != nil {
		f := make(map[string]string, len(q.Filters))
		for k, v := range q.Filters {
			f[k] = v
		}
		q.Filters = f
	}
	return q
}

// Params converts q to the client's list parameters.
func (q Query) Params() client.ListParams {
	return client.ListParams{
		Page:      q.Page,
		Limit:     q.PageSize,
		Search:    q.Search,
		SortBy:    q.SortBy,
		SortOrder: string(q.SortOrder),
		Filters:   q.clone().Filters,
	}
}

// PageResult is one fetched page plus the pagination figures shown under
// the table.
type PageResult[T any] struct {
	Items        []T `json:"items"`
	TotalRecords int `json:"totalRecords"`
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	PageSize     int `json:"pageSize"`
}

// HasNext reports whether a later page exists.
func (r PageResult[T]) HasNext() bool { return r.CurrentPage < r.TotalPages }

// HasPrev reports whether an earlier page exists.
func (r PageResult[T]) HasPrev() bool { return r.CurrentPage > 1 }

// TotalPages returns ceil(total/pageSize), or 0 when there are no records.
func TotalPages(total, pageSize int) int {
	if total <= 0 {
		return 0
	}
	if pageSize <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// newPageResult builds a PageResult from a client page, filling in the
// figures the backend left out.
func newPageResult[T any](page *client.Page[T], q Query) PageResult[T] {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	r := PageResult[T]{
		Items:       items,
		CurrentPage: q.Page,
		PageSize:    q.PageSize,
	}
	if p := page.Pagination; p != nil {
		r.TotalRecords = p.Total
		if p.Page > 0 {
			r.CurrentPage = p.Page
		}
		if p.Limit > 0 {
			r.PageSize = p.Limit
		}
		r.TotalPages = p.TotalPages
		if r.TotalPages == 0 {
			r.TotalPages = TotalPages(r.TotalRecords, r.PageSize)
		}
		return r
	}
	// A bare array is everything the backend has.
	r.TotalRecords = len(items)
	if len(items) > 0 {
		r.TotalPages = 1
	}
	return r
}
