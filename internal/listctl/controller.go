// Package listctl implements the paginated list controller behind every
// list screen of the console.
//
// A Controller owns one Query and the latest PageResult. Each change to the
// query issues exactly one fetch. Fetches are fenced by a sequence number:
// only the response to the most recently issued fetch may replace the
// result, so a slow earlier response can never overwrite newer data. A
// failed fetch leaves the previous result in place and raises one error
// toast.
package listctl

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/alfredjeanlab/dateadmin/internal/apierr"
	"github.com/alfredjeanlab/dateadmin/internal/client"
	"github.com/alfredjeanlab/dateadmin/internal/model"
	"github.com/alfredjeanlab/dateadmin/internal/toast"
)

var (
	// ErrClosed is returned by operations on a closed controller.
	ErrClosed = errors.New("list controller is closed")
	// ErrStale is returned by a fetch whose response was superseded.
	ErrStale = errors.New("list response superseded by a newer fetch")
	// ErrInvalidPage is returned for a page number below 1.
	ErrInvalidPage = errors.New("page must be 1 or greater")
	// ErrInvalidPageSize is returned for a page size below 1.
	ErrInvalidPageSize = errors.New("page size must be 1 or greater")
)

// Lister is the list endpoint of an entity service.
type Lister[T any] interface {
	List(ctx context.Context, params client.ListParams) (*client.Page[T], error)
}

// ListerFunc adapts a function to Lister.
type ListerFunc[T any] func(ctx context.Context, params client.ListParams) (*client.Page[T], error)

func (f ListerFunc[T]) List(ctx context.Context, params client.ListParams) (*client.Page[T], error) {
	return f(ctx, params)
}

// StatsFunc loads the aggregate counters shown above a list.
type StatsFunc func(ctx context.Context) (map[string]int, error)

// State is the controller's fetch state.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Controller drives one list screen.
type Controller[T model.Entity] struct {
	lister   Lister[T]
	statsFn  StatsFunc
	notifier toast.Notifier
	log      logrus.FieldLogger
	title    string

	mu       sync.Mutex
	query    Query
	result   PageResult[T]
	stats    map[string]int
	state    State
	err      error
	seq      uint64
	inflight int
	closed   bool
}

// Option configures a Controller.
type Option[T model.Entity] func(*Controller[T])

// WithPageSize sets the initial page size.
func WithPageSize[T model.Entity](n int) Option[T] {
	return func(c *Controller[T]) {
		if n > 0 {
			c.query.PageSize = n
		}
	}
}

// WithSort sets the initial sort.
func WithSort[T model.Entity](by string, order SortOrder) Option[T] {
	return func(c *Controller[T]) {
		c.query.SortBy = by
		c.query.SortOrder = order
	}
}

// WithNotifier sets where fetch failures are reported.
func WithNotifier[T model.Entity](n toast.Notifier) Option[T] {
	return func(c *Controller[T]) { c.notifier = n }
}

// WithLogger sets the controller's logger.
func WithLogger[T model.Entity](l logrus.FieldLogger) Option[T] {
	return func(c *Controller[T]) { c.log = l }
}

// WithTitle names the list in toasts, e.g. "templates".
func WithTitle[T model.Entity](title string) Option[T] {
	return func(c *Controller[T]) { c.title = title }
}

// WithStats makes every successful fetch also refresh the aggregate counters.
func WithStats[T model.Entity](fn StatsFunc) Option[T] {
	return func(c *Controller[T]) { c.statsFn = fn }
}

// New creates an idle controller at page 1.
func New[T model.Entity](lister Lister[T], opts ...Option[T]) *Controller[T] {
	c := &Controller[T]{
		lister: lister,
		log:    logrus.StandardLogger(),
		title:  "records",
		query:  Query{Page: 1, PageSize: DefaultPageSize},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.result = PageResult[T]{Items: []T{}, CurrentPage: 1, PageSize: c.query.PageSize}
	return c
}

// --- query changes ---

// SetFilter sets one filter (an empty value removes it), resets to page 1
// and fetches.
func (c *Controller[T]) SetFilter(ctx context.Context, key, value string) error {
	return c.Update(ctx, func(q *Query) {
		if q.Filters == nil {
			q.Filters = map[string]string{}
		}
		if value == "" {
			delete(q.Filters, key)
		} else {
			q.Filters[key] = value
		}
	})
}

// ClearFilters removes every filter and the search term, resets to page 1
// and fetches.
func (c *Controller[T]) ClearFilters(ctx context.Context) error {
	return c.Update(ctx, func(q *Query) {
		q.Filters = nil
		q.Search = ""
	})
}

// SetSearch sets the search term, resets to page 1 and fetches.
func (c *Controller[T]) SetSearch(ctx context.Context, term string) error {
	return c.Update(ctx, func(q *Query) { q.Search = term })
}

// SetSort sets the sort, resets to page 1 and fetches.
func (c *Controller[T]) SetSort(ctx context.Context, by string, order SortOrder) error {
	if !order.IsValid() {
		return fmt.Errorf("invalid sort order %q", order)
	}
	return c.Update(ctx, func(q *Query) {
		q.SortBy = by
		q.SortOrder = order
	})
}

// SetPageSize changes the page size, resets to page 1 and fetches.
func (c *Controller[T]) SetPageSize(ctx context.Context, n int) error {
	if n < 1 {
		return ErrInvalidPageSize
	}
	return c.Update(ctx, func(q *Query) { q.PageSize = n })
}

// Update applies several query changes at once, resets to page 1 and
// issues a single fetch.
func (c *Controller[T]) Update(ctx context.Context, fn func(q *Query)) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	q := c.query.clone()
	fn(&q)
	q = q.clone()
	if q.PageSize < 1 {
		q.PageSize = c.query.PageSize
	}
	q.Page = 1
	c.query = q
	c.mu.Unlock()
	return c.fetch(ctx)
}

// SetQuery replaces the whole query, page included, and issues a single
// fetch. It is for callers that restore a known view, such as a deep link
// to page 3 of a search.
func (c *Controller[T]) SetQuery(ctx context.Context, q Query) error {
	if q.Page < 1 {
		return ErrInvalidPage
	}
	if q.PageSize < 1 {
		return ErrInvalidPageSize
	}
	if !q.SortOrder.IsValid() {
		return fmt.Errorf("invalid sort order %q", q.SortOrder)
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.query = q.clone()
	c.mu.Unlock()
	return c.fetch(ctx)
}

// SetPage moves to page n and fetches.
func (c *Controller[T]) SetPage(ctx context.Context, n int) error {
	if n < 1 {
		return ErrInvalidPage
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.query.Page = n
	c.mu.Unlock()
	return c.fetch(ctx)
}

// Next moves to the following page, if any.
func (c *Controller[T]) Next(ctx context.Context) error {
	c.mu.Lock()
	r := c.result
	c.mu.Unlock()
	if !r.HasNext() {
		return nil
	}
	return c.SetPage(ctx, r.CurrentPage+1)
}

// Prev moves to the preceding page, if any.
func (c *Controller[T]) Prev(ctx context.Context) error {
	c.mu.Lock()
	r := c.result
	c.mu.Unlock()
	if !r.HasPrev() {
		return nil
	}
	return c.SetPage(ctx, r.CurrentPage-1)
}

// Fetch loads the current query.
func (c *Controller[T]) Fetch(ctx context.Context) error {
	return c.fetch(ctx)
}

// Refetch re-issues the current query unchanged. Screens call it after
// every create, update, delete or status change.
func (c *Controller[T]) Refetch(ctx context.Context) error {
	return c.fetch(ctx)
}

func (c *Controller[T]) fetch(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.seq++
	seq := c.seq
	q := c.query.clone()
	c.inflight++
	c.state = StateFetching
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inflight--
		c.mu.Unlock()
	}()

	log := c.log.WithFields(logrus.Fields{"list": c.title, "seq": seq, "page": q.Page})
	page, err := c.lister.List(ctx, q.Params())

	var stats map[string]int
	if err == nil && c.statsFn != nil {
		var statsErr error
		if stats, statsErr = c.statsFn(ctx); statsErr != nil {
			log.WithError(statsErr).Warn("loading list stats")
		}
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		log.Debug("discarding response for closed list")
		return ErrClosed
	}
	if seq != c.seq {
		c.mu.Unlock()
		log.Debug("discarding superseded list response")
		return ErrStale
	}
	if err != nil {
		c.state = StateFailed
		c.err = err
		c.mu.Unlock()

		log.WithError(err).Warn("list fetch failed")
		if c.notifier != nil {
			c.notifier.Show(toast.Toast{
				Kind:    toast.KindError,
				Title:   "Failed to load " + c.title,
				Message: apierr.Message(err),
			})
		}
		return err
	}
	c.result = newPageResult(page, q)
	if stats != nil {
		c.stats = stats
	}
	c.state = StateReady
	c.err = nil
	c.mu.Unlock()
	return nil
}

// --- accessors ---

// Query returns a copy of the current query.
func (c *Controller[T]) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query.clone()
}

// Result returns the latest successful page.
func (c *Controller[T]) Result() PageResult[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := c.result
	r.Items = append([]T(nil), c.result.Items...)
	return r
}

// Items returns the rows of the latest successful page.
func (c *Controller[T]) Items() []T {
	return c.Result().Items
}

// Find returns the row with the given id from the latest page.
func (c *Controller[T]) Find(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.result.Items {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Stats returns the aggregate counters from the latest successful fetch.
func (c *Controller[T]) Stats() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int, len(c.stats))
	for k, v := range c.stats {
		out[k] = v
	}
	return out
}

// State returns the fetch state.
func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error of the latest failed fetch, or nil after a success.
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Loading reports whether any fetch is in flight.
func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight > 0
}

// Close tears the controller down. Responses that arrive afterwards are
// discarded and further operations return ErrClosed.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Pages walks every page of the current query, starting at page 1, and
// calls fn for each. It does not touch the controller's visible state.
func (c *Controller[T]) Pages(ctx context.Context, fn func(PageResult[T]) error) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	q := c.query.clone()
	c.mu.Unlock()

	for q.Page = 1; ; q.Page++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		page, err := c.lister.List(ctx, q.Params())
		if err != nil {
			return fmt.Errorf("listing %s page %d: %w", c.title, q.Page, err)
		}
		r := newPageResult(page, q)
		if err := fn(r); err != nil {
			return err
		}
		if len(r.Items) == 0 || r.CurrentPage >= r.TotalPages {
			return nil
		}
	}
}
