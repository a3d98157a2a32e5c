package console

import (
	"context"

	"github.com/alfredjeanlab/dateadmin/internal/client"
)

// mediaService rewrites the media paths of every record svc returns, so
// list rows, detail views, events and exports all carry absolute URLs.
type mediaService[T any] struct {
	Service[T]
	rewrite func(T) T
}

func newMediaService[T any](svc Service[T], resolve func(T, func(string) string) T, media client.MediaResolver) Service[T] {
	return mediaService[T]{
		Service: svc,
		rewrite: func(item T) T { return resolve(item, media.Resolve) },
	}
}

func (s mediaService[T]) List(ctx context.Context, params client.ListParams) (*client.Page[T], error) {
	page, err := s.Service.List(ctx, params)
	if err != nil || page == nil {
		return page, err
	}
	out := *page
	if page.Items != nil {
		out.Items = make([]T, len(page.Items))
		for i, item := range page.Items {
			out.Items[i] = s.rewrite(item)
		}
	}
	return &out, nil
}

func (s mediaService[T]) Get(ctx context.Context, id string) (*T, error) {
	return s.one(s.Service.Get(ctx, id))
}

func (s mediaService[T]) Create(ctx context.Context, payload any, files []client.File) (*T, error) {
	return s.one(s.Service.Create(ctx, payload, files))
}

func (s mediaService[T]) Update(ctx context.Context, id string, payload any, files []client.File) (*T, error) {
	return s.one(s.Service.Update(ctx, id, payload, files))
}

func (s mediaService[T]) one(item *T, err error) (*T, error) {
	if err != nil || item == nil {
		return item, err
	}
	out := s.rewrite(*item)
	return &out, nil
}
