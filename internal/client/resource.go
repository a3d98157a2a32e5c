package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Resource is the entity service for one REST collection, e.g. /templates.
type Resource[T any] struct {
	c    *HTTPClient
	path string
}

// NewResource binds a collection path to the client.
func NewResource[T any](c *HTTPClient, path string) *Resource[T] {
	return &Resource[T]{c: c, path: "/" + strings.Trim(path, "/")}
}

// Path returns the collection path.
func (r *Resource[T]) Path() string { return r.path }

func (r *Resource[T]) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

// List fetches one page of the collection.
func (r *Resource[T]) List(ctx context.Context, params ListParams) (*Page[T], error) {
	path := r.path
	if q := params.Values(); len(q) > 0 {
		path += "?" + q.Encode()
	}
	var items []T
	env, err := r.c.doJSON(ctx, http.MethodGet, path, nil, &items)
	if err != nil {
		return nil, err
	}
	return &Page[T]{Items: items, Pagination: env.Pagination}, nil
}

// Get fetches a single record.
func (r *Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	var item T
	if _, err := r.c.doJSON(ctx, http.MethodGet, r.itemPath(id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create posts payload. With files present the request is multipart,
// otherwise JSON.
func (r *Resource[T]) Create(ctx context.Context, payload any, files []File) (*T, error) {
	return r.send(ctx, http.MethodPost, r.path, payload, files)
}

// Update replaces the editable fields of the record with the given id.
func (r *Resource[T]) Update(ctx context.Context, id string, payload any, files []File) (*T, error) {
	return r.send(ctx, http.MethodPut, r.itemPath(id), payload, files)
}

func (r *Resource[T]) send(ctx context.Context, method, path string, payload any, files []File) (*T, error) {
	var (
		item T
		err  error
	)
	if len(files) > 0 {
		_, err = r.c.doMultipart(ctx, method, path, payload, files, &item)
	} else {
		_, err = r.c.doJSON(ctx, method, path, payload, &item)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes the record and returns the server's confirmation message.
func (r *Resource[T]) Delete(ctx context.Context, id string) (string, error) {
	env, err := r.c.doJSON(ctx, http.MethodDelete, r.itemPath(id), nil, nil)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// SetStatus activates or deactivates the record.
func (r *Resource[T]) SetStatus(ctx context.Context, id string, active bool) error {
	body := map[string]bool{"isActive": active}
	_, err := r.c.doJSON(ctx, http.MethodPatch, r.itemPath(id)+"/status", body, nil)
	return err
}

// Action posts to a named sub-resource of a record, e.g. /matches/{id}/block.
func (r *Resource[T]) Action(ctx context.Context, id, action string) (string, error) {
	env, err := r.c.doJSON(ctx, http.MethodPost, r.itemPath(id)+"/"+url.PathEscape(action), nil, nil)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// Stats fetches the aggregate counters shown above a list.
func (r *Resource[T]) Stats(ctx context.Context) (map[string]int, error) {
	stats := map[string]int{}
	if _, err := r.c.doJSON(ctx, http.MethodGet, r.path+"/stats", nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}
