// Package export writes the records behind a list screen as JSONL and ships
// the result to a file, stdout or an S3-compatible bucket.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/alfredjeanlab/dateadmin/internal/listctl"
	"github.com/alfredjeanlab/dateadmin/internal/model"
)

// FormatVersion is written in every header record.
const FormatVersion = "1"

// Header is the first JSONL record of an export.
type Header struct {
	Version   string            `json:"version"`
	Type      string            `json:"type"`
	Entity    model.EntityName  `json:"entity"`
	Timestamp time.Time         `json:"timestamp"`
	Count     int               `json:"count"`
	Filters   map[string]string `json:"filters,omitempty"`
	Search    string            `json:"search,omitempty"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Source walks every page of a list. *listctl.Controller satisfies it.
type Source[T any] interface {
	Pages(ctx context.Context, fn func(listctl.PageResult[T]) error) error
	Query() listctl.Query
}

// JSONL writes every record src yields to w: a header first, then one
// record per line sorted by ID. It returns the number of records written.
func JSONL[T model.Entity](ctx context.Context, entity model.EntityName, src Source[T], w io.Writer) (int, error) {
	var items []T
	err := src.Pages(ctx, func(p listctl.PageResult[T]) error {
		items = append(items, p.Items...)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("collecting %s: %w", entity, err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].EntityID() < items[j].EntityID()
	})

	q := src.Query()
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(Header{
		Version:   FormatVersion,
		Type:      "header",
		Entity:    entity,
		Timestamp: time.Now().UTC(),
		Count:     len(items),
		Filters:   q.Filters,
		Search:    q.Search,
	}); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	for i, item := range items {
		if err := enc.Encode(record{Type: entity.String(), Data: item}); err != nil {
			return i, fmt.Errorf("write %s %s: %w", entity, item.EntityID(), err)
		}
	}
	return len(items), nil
}
