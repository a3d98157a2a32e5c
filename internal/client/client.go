// Package client provides the typed HTTP/JSON client the admin console uses
// to talk to the dating app's REST API.
//
// Every response is wrapped in an envelope carrying a "status" discriminator.
// Failures come back as one of two typed errors so callers never inspect
// transport shapes: *ValidationError when the body lists field errors and
// *APIError for everything else the server rejected. Transport failures are
// wrapped with fmt.Errorf.
package client

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/alfredjeanlab/dateadmin/internal/model"
)

// Envelope statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Pagination is the metadata the backend attaches to list responses.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// envelope is the common wire shape of every response body.
type envelope struct {
	Status     string          `json:"status"`
	Data       json.RawMessage `json:"data,omitempty"`
	Pagination *Pagination     `json:"pagination,omitempty"`
	Message    string          `json:"message,omitempty"`
}

// ListParams holds parameters for a list request.
type ListParams struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
	Filters   map[string]string
}

// Values encodes the params the way the backend expects them:
// page, limit, every filter as its own key, then search and sort.
func (p ListParams) Values() url.Values {
	q := url.Values{}
	for k, v := range p.Filters {
		if v != "" {
			q.Set(k, v)
		}
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.SortBy != "" {
		q.Set("sortBy", p.SortBy)
	}
	if p.SortOrder != "" {
		q.Set("sortOrder", p.SortOrder)
	}
	return q
}

// Page is one page of a list response. Pagination is nil when the backend
// returned a bare array.
type Page[T any] struct {
	Items      []T
	Pagination *Pagination
}

// File is an in-memory attachment sent as one part of a multipart request.
type File struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}
