// Package toast implements the console's queue of transient notifications.
//
// Toasts are shown in insertion order and each expires on its own timer.
// Removal is idempotent, so a toast dismissed by the user and then reached
// by its timer is removed once.
package toast

import (
	"sync"
	"time"

	"github.com/alfredjeanlab/dateadmin/internal/idgen"
)

// DefaultDuration is how long a toast stays visible when none is given.
const DefaultDuration = 5 * time.Second

// Kind is the severity of a toast.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// Toast is one transient message.
type Toast struct {
	ID       string        `json:"id"`
	Kind     Kind          `json:"kind"`
	Title    string        `json:"title,omitempty"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration"`
	ShownAt  time.Time     `json:"shownAt"`
}

// Notifier is the surface other components use to raise toasts.
type Notifier interface {
	Show(t Toast) string
}

// Queue holds the visible toasts.
type Queue struct {
	mu     sync.Mutex
	items  []Toast
	timers map[string]*time.Timer
	closed bool

	defaultDuration time.Duration
	newID           func() string
	notify          func(Toast)
}

// Option configures a Queue.
type Option func(*Queue)

// WithDefaultDuration overrides DefaultDuration.
func WithDefaultDuration(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.defaultDuration = d
		}
	}
}

// WithNotify registers fn to be called, outside the lock, for every shown toast.
func WithNotify(fn func(Toast)) Option {
	return func(q *Queue) { q.notify = fn }
}

// WithIDFunc overrides ID generation.
func WithIDFunc(fn func() string) Option {
	return func(q *Queue) { q.newID = fn }
}

// New creates an empty queue.
func New(opts ...Option) *Queue {
	q := &Queue{
		timers:          make(map[string]*time.Timer),
		defaultDuration: DefaultDuration,
		newID:           func() string { return idgen.MustGenerate(idgen.PrefixToast) },
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Show assigns t an ID, appends it and schedules its removal. Any ID set
// by the caller is replaced. It returns the assigned ID.
func (q *Queue) Show(t Toast) string {
	if t.Duration <= 0 {
		t.Duration = q.defaultDuration
	}
	if t.Kind == "" {
		t.Kind = KindInfo
	}
	t.ID = q.newID()
	t.ShownAt = time.Now()

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return t.ID
	}
	q.items = append(q.items, t)
	id := t.ID
	q.timers[id] = time.AfterFunc(t.Duration, func() { q.Remove(id) })
	notify := q.notify
	q.mu.Unlock()

	if notify != nil {
		notify(t)
	}
	return id
}

// Success shows a success toast.
func (q *Queue) Success(title, message string) string {
	return q.Show(Toast{Kind: KindSuccess, Title: title, Message: message})
}

// Error shows an error toast.
func (q *Queue) Error(title, message string) string {
	return q.Show(Toast{Kind: KindError, Title: title, Message: message})
}

// Warning shows a warning toast.
func (q *Queue) Warning(title, message string) string {
	return q.Show(Toast{Kind: KindWarning, Title: title, Message: message})
}

// Info shows an info toast.
func (q *Queue) Info(title, message string) string {
	return q.Show(Toast{Kind: KindInfo, Title: title, Message: message})
}

// Remove drops the toast with the given id. Removing an absent id is a no-op.
func (q *Queue) Remove(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if timer, ok := q.timers[id]; ok {
		timer.Stop()
		delete(q.timers, id)
	}
	for i, t := range q.items {
		if t.ID == id {
			q.items = append(q.items[:i:i], q.items[i+1:]...)
			return
		}
	}
}

// List returns a snapshot of the visible toasts in insertion order.
func (q *Queue) List() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Toast, len(q.items))
	copy(out, q.items)
	return out
}

// Len returns the number of visible toasts.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops every pending timer and drops all toasts. Later calls to
// Show are ignored.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for id, timer := range q.timers {
		timer.Stop()
		delete(q.timers, id)
	}
	q.items = nil
	q.closed = true
}
