package listctl

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfredjeanlab/dateadmin/internal/client"
	"github.com/alfredjeanlab/dateadmin/internal/model"
	"github.com/alfredjeanlab/dateadmin/internal/toast"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type recordingNotifier struct {
	mu     sync.Mutex
	toasts []toast.Toast
}

func (n *recordingNotifier) Show(t toast.Toast) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = append(n.toasts, t)
	return "t"
}

func (n *recordingNotifier) all() []toast.Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]toast.Toast(nil), n.toasts...)
}

// stubLister answers immediately and records what it was asked.
type stubLister struct {
	mu     sync.Mutex
	calls  []client.ListParams
	answer func(p client.ListParams) (*client.Page[model.Template], error)
}

func (s *stubLister) List(_ context.Context, p client.ListParams) (*client.Page[model.Template], error) {
	s.mu.Lock()
	s.calls = append(s.calls, p)
	s.mu.Unlock()
	return s.answer(p)
}

func (s *stubLister) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *stubLister) last() client.ListParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[len(s.calls)-1]
}

type reply struct {
	page *client.Page[model.Template]
	err  error
}

type pendingCall struct {
	params client.ListParams
	reply  chan reply
}

// gatedLister blocks each call until the test answers it, so responses can
// be delivered in any order.
type gatedLister struct {
	calls chan pendingCall
}

func newGatedLister() *gatedLister {
	return &gatedLister{calls: make(chan pendingCall)}
}

func (g *gatedLister) List(ctx context.Context, p client.ListParams) (*client.Page[model.Template], error) {
	c := pendingCall{params: p, reply: make(chan reply, 1)}
	g.calls <- c
	select {
	case r := <-c.reply:
		return r.page, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func templates(ids ...string) []model.Template {
	out := make([]model.Template, len(ids))
	for i, id := range ids {
		out[i] = model.Template{ID: id, Title: "Template " + id, IsActive: true}
	}
	return out
}

func paged(total int, items ...string) func(p client.ListParams) (*client.Page[model.Template], error) {
	return func(p client.ListParams) (*client.Page[model.Template], error) {
		return &client.Page[model.Template]{
			Items:      templates(items...),
			Pagination: &client.Pagination{Total: total, Page: p.Page, Limit: p.Limit},
		}, nil
	}
}

func TestFetchPopulatesResult(t *testing.T) {
	lister := &stubLister{answer: paged(25, "a", "b")}
	c := New[model.Template](lister, WithLogger[model.Template](quietLogger()))

	assert.Equal(t, StateIdle, c.State())
	require.NoError(t, c.Fetch(context.Background()))

	r := c.Result()
	assert.Equal(t, StateReady, c.State())
	assert.Len(t, r.Items, 2)
	assert.Equal(t, 25, r.TotalRecords)
	assert.Equal(t, 3, r.TotalPages)
	assert.Equal(t, 1, r.CurrentPage)
	assert.Equal(t, DefaultPageSize, r.PageSize)
	assert.True(t, r.HasNext())
	assert.False(t, r.HasPrev())
	assert.False(t, c.Loading())

	got, ok := c.Find("b")
	require.True(t, ok)
	assert.Equal(t, "Template b", got.Title)
	_, ok = c.Find("missing")
	assert.False(t, ok)
}

func TestQueryChangesResetPageAndFetchOnce(t *testing.T) {
	ctx := context.Background()
	lister := &stubLister{answer: paged(100, "a")}
	c := New[model.Template](lister, WithLogger[model.Template](quietLogger()))

	require.NoError(t, c.SetPage(ctx, 3))
	assert.Equal(t, 1, lister.count())
	assert.Equal(t, 3, lister.last().Page)

	require.NoError(t, c.SetFilter(ctx, "status", "active"))
	assert.Equal(t, 2, lister.count())
	assert.Equal(t, 1, lister.last().Page)
	assert.Equal(t, map[string]string{"status": "active"}, lister.last().Filters)

	require.NoError(t, c.SetPage(ctx, 2))
	require.NoError(t, c.SetSearch(ctx, "picnic"))
	assert.Equal(t, 4, lister.count())
	assert.Equal(t, 1, lister.last().Page)
	assert.Equal(t, "picnic", lister.last().Search)

	require.NoError(t, c.SetSort(ctx, "title", SortDesc))
	assert.Equal(t, "title", lister.last().SortBy)
	assert.Equal(t, "desc", lister.last().SortOrder)

	require.NoError(t, c.SetPage(ctx, 4))
	require.NoError(t, c.SetPageSize(ctx, 25))
	assert.Equal(t, 1, lister.last().Page)
	assert.Equal(t, 25, lister.last().Limit)

	require.NoError(t, c.SetFilter(ctx, "status", ""))
	assert.Empty(t, lister.last().Filters)

	require.NoError(t, c.ClearFilters(ctx))
	assert.Empty(t, lister.last().Search)
	assert.Equal(t, 9, lister.count())
}

func TestInvalidQueryChangesDoNotFetch(t *testing.T) {
	ctx := context.Background()
	lister := &stubLister{answer: paged(0)}
	c := New[model.Template](lister)

	assert.ErrorIs(t, c.SetPage(ctx, 0), ErrInvalidPage)
	assert.ErrorIs(t, c.SetPageSize(ctx, 0), ErrInvalidPageSize)
	assert.Error(t, c.SetSort(ctx, "title", SortOrder("sideways")))
	assert.Zero(t, lister.count())
}

func TestUpdateAppliesSeveralChangesWithOneFetch(t *testing.T) {
	lister := &stubLister{answer: paged(3, "a")}
	c := New[model.Template](lister, WithLogger[model.Template](quietLogger()))

	require.NoError(t, c.Update(context.Background(), func(q *Query) {
		q.Search = "wine"
		q.Filters = map[string]string{"category": "dinner"}
		q.SortBy = "sortOrder"
	}))
	assert.Equal(t, 1, lister.count())
	p := lister.last()
	assert.Equal(t, "wine", p.Search)
	assert.Equal(t, "dinner", p.Filters["category"])
	assert.Equal(t, "sortOrder", p.SortBy)
	assert.Equal(t, 1, p.Page)
}

func TestUpdateDoesNotKeepCallersMap(t *testing.T) {
	lister := &stubLister{answer: paged(3, "a")}
	c := New[model.Template](lister)

	filters := map[string]string{"category": "dinner"}
	require.NoError(t, c.Update(context.Background(), func(q *Query) { q.Filters = filters }))
	filters["category"] = "brunch"
	filters["city"] = "Lyon"

	assert.Equal(t, map[string]string{"category": "dinner"}, c.Query().Filters)
	assert.Equal(t, map[string]string{"category": "dinner"}, lister.last().Filters)
}

func TestSetQueryFetchesRequestedPageOnce(t *testing.T) {
	lister := &stubLister{answer: paged(25, "a")}
	c := New[model.Template](lister)

	q := c.Query()
	q.Search = "wine"
	q.Page = 3
	q.Filters = map[string]string{"category": "dinner"}
	require.NoError(t, c.SetQuery(context.Background(), q))

	assert.Equal(t, 1, lister.count())
	p := lister.last()
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, "wine", p.Search)
	assert.Equal(t, 3, c.Result().CurrentPage)

	q.Filters["category"] = "brunch"
	assert.Equal(t, "dinner", c.Query().Filters["category"])
}

func TestSetQueryRejectsInvalidQueries(t *testing.T) {
	lister := &stubLister{answer: paged(3, "a")}
	c := New[model.Template](lister)
	ctx := context.Background()

	q := c.Query()
	q.Page = 0
	assert.ErrorIs(t, c.SetQuery(ctx, q), ErrInvalidPage)

	q = c.Query()
	q.PageSize = 0
	assert.ErrorIs(t, c.SetQuery(ctx, q), ErrInvalidPageSize)

	q = c.Query()
	q.SortOrder = "sideways"
	assert.Error(t, c.SetQuery(ctx, q))

	assert.Zero(t, lister.count())
}

func TestNewerResponseWinsWhenOlderArrivesLast(t *testing.T) {
	ctx := context.Background()
	g := newGatedLister()
	c := New[model.Template](g, WithLogger[model.Template](quietLogger()))

	errA := make(chan error, 1)
	go func() { errA <- c.SetPage(ctx, 1) }()
	first := <-g.calls

	errB := make(chan error, 1)
	go func() { errB <- c.SetPage(ctx, 2) }()
	second := <-g.calls
	assert.True(t, c.Loading())

	second.reply <- reply{page: &client.Page[model.Template]{
		Items:      templates("page2"),
		Pagination: &client.Pagination{Total: 20, Page: 2, Limit: 10},
	}}
	require.NoError(t, <-errB)

	first.reply <- reply{page: &client.Page[model.Template]{
		Items:      templates("page1"),
		Pagination: &client.Pagination{Total: 20, Page: 1, Limit: 10},
	}}
	assert.ErrorIs(t, <-errA, ErrStale)

	r := c.Result()
	require.Len(t, r.Items, 1)
	assert.Equal(t, "page2", r.Items[0].ID)
	assert.Equal(t, 2, r.CurrentPage)
	assert.Equal(t, StateReady, c.State())
	assert.False(t, c.Loading())
}

func TestNewerResponseWinsWhenOlderArrivesFirst(t *testing.T) {
	ctx := context.Background()
	g := newGatedLister()
	c := New[model.Template](g, WithLogger[model.Template](quietLogger()))

	errA := make(chan error, 1)
	go func() { errA <- c.SetSearch(ctx, "old") }()
	first := <-g.calls

	errB := make(chan error, 1)
	go func() { errB <- c.SetSearch(ctx, "new") }()
	second := <-g.calls

	first.reply <- reply{page: &client.Page[model.Template]{Items: templates("old")}}
	assert.ErrorIs(t, <-errA, ErrStale)
	assert.Equal(t, StateFetching, c.State())
	assert.Empty(t, c.Items())

	second.reply <- reply{page: &client.Page[model.Template]{Items: templates("new")}}
	require.NoError(t, <-errB)
	require.Len(t, c.Items(), 1)
	assert.Equal(t, "new", c.Items()[0].ID)
}

func TestStaleFailureRaisesNoToast(t *testing.T) {
	ctx := context.Background()
	g := newGatedLister()
	n := &recordingNotifier{}
	c := New[model.Template](g, WithNotifier[model.Template](n), WithLogger[model.Template](quietLogger()))

	errA := make(chan error, 1)
	go func() { errA <- c.Fetch(ctx) }()
	first := <-g.calls
	errB := make(chan error, 1)
	go func() { errB <- c.Fetch(ctx) }()
	second := <-g.calls

	second.reply <- reply{page: &client.Page[model.Template]{Items: templates("x")}}
	require.NoError(t, <-errB)
	first.reply <- reply{err: &client.APIError{StatusCode: http.StatusInternalServerError, Message: "boom"}}
	assert.ErrorIs(t, <-errA, ErrStale)

	assert.Empty(t, n.all())
	assert.NoError(t, c.Err())
}

func TestFailureKeepsResultAndToastsOnce(t *testing.T) {
	ctx := context.Background()
	fail := false
	lister := &stubLister{answer: func(p client.ListParams) (*client.Page[model.Template], error) {
		if fail {
			return nil, &client.APIError{StatusCode: http.StatusInternalServerError, Message: "database unavailable"}
		}
		return paged(2, "a", "b")(p)
	}}
	n := &recordingNotifier{}
	c := New[model.Template](lister,
		WithNotifier[model.Template](n),
		WithTitle[model.Template]("templates"),
		WithLogger[model.Template](quietLogger()))

	require.NoError(t, c.Fetch(ctx))
	fail = true
	err := c.Refetch(ctx)
	require.Error(t, err)

	var apiErr *client.APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, StateFailed, c.State())
	assert.Equal(t, err, c.Err())
	assert.Len(t, c.Items(), 2)

	toasts := n.all()
	require.Len(t, toasts, 1)
	assert.Equal(t, toast.KindError, toasts[0].Kind)
	assert.Equal(t, "Failed to load templates", toasts[0].Title)
	assert.Equal(t, "database unavailable", toasts[0].Message)

	fail = false
	require.NoError(t, c.Refetch(ctx))
	assert.NoError(t, c.Err())
	assert.Equal(t, StateReady, c.State())
}

func TestCloseDiscardsInflightResponse(t *testing.T) {
	ctx := context.Background()
	g := newGatedLister()
	n := &recordingNotifier{}
	c := New[model.Template](g, WithNotifier[model.Template](n), WithLogger[model.Template](quietLogger()))

	errc := make(chan error, 1)
	go func() { errc <- c.Fetch(ctx) }()
	pending := <-g.calls

	c.Close()
	pending.reply <- reply{err: errors.New("connection reset")}
	assert.ErrorIs(t, <-errc, ErrClosed)
	assert.Empty(t, n.all())
	assert.Empty(t, c.Items())

	assert.ErrorIs(t, c.Fetch(ctx), ErrClosed)
	assert.ErrorIs(t, c.SetFilter(ctx, "k", "v"), ErrClosed)
}

func TestStatsRefreshOnSuccess(t *testing.T) {
	lister := &stubLister{answer: paged(1, "a")}
	calls := 0
	stats := func(context.Context) (map[string]int, error) {
		calls++
		if calls > 1 {
			return nil, errors.New("stats down")
		}
		return map[string]int{"total": 1, "active": 1}, nil
	}
	c := New[model.Template](lister, WithStats[model.Template](stats), WithLogger[model.Template](quietLogger()))

	require.NoError(t, c.Fetch(context.Background()))
	assert.Equal(t, map[string]int{"total": 1, "active": 1}, c.Stats())

	// A stats failure keeps the old counters and does not fail the fetch.
	require.NoError(t, c.Refetch(context.Background()))
	assert.Equal(t, 1, c.Stats()["total"])
}

func TestBareArrayResponse(t *testing.T) {
	lister := &stubLister{answer: func(client.ListParams) (*client.Page[model.Template], error) {
		return &client.Page[model.Template]{Items: templates("a", "b", "c")}, nil
	}}
	c := New[model.Template](lister, WithPageSize[model.Template](2))

	require.NoError(t, c.Fetch(context.Background()))
	r := c.Result()
	assert.Equal(t, 3, r.TotalRecords)
	// A bare array is the whole collection, whatever the page size.
	assert.Equal(t, 1, r.TotalPages)
	assert.Equal(t, 2, r.PageSize)
	assert.False(t, r.HasNext())
}

func TestEmptyBareArrayHasNoPages(t *testing.T) {
	lister := &stubLister{answer: func(client.ListParams) (*client.Page[model.Template], error) {
		return &client.Page[model.Template]{}, nil
	}}
	c := New[model.Template](lister)

	require.NoError(t, c.Fetch(context.Background()))
	assert.Zero(t, c.Result().TotalRecords)
	assert.Zero(t, c.Result().TotalPages)
}

func TestNextAndPrev(t *testing.T) {
	ctx := context.Background()
	lister := &stubLister{answer: paged(25, "a")}
	c := New[model.Template](lister)

	require.NoError(t, c.Prev(ctx)) // nothing loaded, nothing to do
	assert.Zero(t, lister.count())

	require.NoError(t, c.Fetch(ctx))
	require.NoError(t, c.Next(ctx))
	assert.Equal(t, 2, lister.last().Page)
	require.NoError(t, c.Next(ctx))
	assert.Equal(t, 3, lister.last().Page)
	assert.Equal(t, 3, lister.count())

	// Already on the last page: no request.
	require.NoError(t, c.Next(ctx))
	assert.Equal(t, 3, lister.count())
	assert.Equal(t, 3, c.Result().CurrentPage)

	require.NoError(t, c.Prev(ctx))
	assert.Equal(t, 2, lister.last().Page)
}

func TestPagesWalksEveryPage(t *testing.T) {
	lister := &stubLister{answer: func(p client.ListParams) (*client.Page[model.Template], error) {
		ids := map[int][]string{1: {"a", "b"}, 2: {"c", "d"}, 3: {"e"}}[p.Page]
		return &client.Page[model.Template]{
			Items:      templates(ids...),
			Pagination: &client.Pagination{Total: 5, Page: p.Page, Limit: 2, TotalPages: 3},
		}, nil
	}}
	c := New[model.Template](lister, WithPageSize[model.Template](2))
	require.NoError(t, c.SetFilter(context.Background(), "category", "outdoor"))

	var seen []string
	err := c.Pages(context.Background(), func(r PageResult[model.Template]) error {
		for _, item := range r.Items {
			seen = append(seen, item.ID)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, seen)
	assert.Equal(t, "outdoor", lister.last().Filters["category"])
	assert.Equal(t, 1, c.Result().CurrentPage)
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 10, 0},
		{-1, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{5, 0, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.total, tt.size), "TotalPages(%d, %d)", tt.total, tt.size)
	}
}
