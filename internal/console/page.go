package console

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/alfredjeanlab/dateadmin/internal/apierr"
	"github.com/alfredjeanlab/dateadmin/internal/client"
	"github.com/alfredjeanlab/dateadmin/internal/events"
	"github.com/alfredjeanlab/dateadmin/internal/form"
	"github.com/alfredjeanlab/dateadmin/internal/listctl"
	"github.com/alfredjeanlab/dateadmin/internal/model"
	"github.com/alfredjeanlab/dateadmin/internal/toast"
	"github.com/alfredjeanlab/dateadmin/internal/ui"
)

var (
	// ErrReadOnly is returned by Create and Edit on screens without a form.
	ErrReadOnly = errors.New("records on this screen cannot be edited")
	// ErrNotFound is returned when an id is neither on the current page nor
	// on the server.
	ErrNotFound = errors.New("record not found")
)

// Service is the entity service a page drives. *client.Resource satisfies it.
type Service[T any] interface {
	List(ctx context.Context, params client.ListParams) (*client.Page[T], error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, payload any, files []client.File) (*T, error)
	Update(ctx context.Context, id string, payload any, files []client.File) (*T, error)
	Delete(ctx context.Context, id string) (string, error)
	SetStatus(ctx context.Context, id string, active bool) error
	Stats(ctx context.Context) (map[string]int, error)
}

// PageConfig describes one entity screen.
type PageConfig[T model.Entity, D any] struct {
	Entity model.EntityName
	// Noun and Plural name the record in toasts and prompts, e.g.
	// "Template" and "templates".
	Noun   string
	Plural string
	// NewDraft and DraftFrom back the create and edit forms. A page whose
	// NewDraft is nil has no form.
	NewDraft  func() D
	DraftFrom func(T) D
	// WithStats loads the aggregate counters with every fetch.
	WithStats bool
	// ResolveMedia rewrites the media paths of a record. Records of a page
	// that sets it carry absolute URLs everywhere they leave the page.
	ResolveMedia func(item T, resolve func(string) string) T
}

// Deps are the process-wide collaborators shared by every page.
type Deps struct {
	Toasts    toast.Notifier
	Confirm   ui.Confirmer
	Events    events.Publisher
	Validator *form.Validator
	Log       logrus.FieldLogger
	// Actor returns the signed-in admin's email for event attribution.
	Actor    func() string
	PageSize int
	// Media turns relative media paths into absolute URLs. Paths are left
	// alone when its BaseURL is empty.
	Media client.MediaResolver
}

func (d Deps) withDefaults() Deps {
	if d.Confirm == nil {
		d.Confirm = ui.AutoConfirm(false)
	}
	if d.Events == nil {
		d.Events = events.NoopPublisher{}
	}
	if d.Validator == nil {
		d.Validator = form.NewValidator()
	}
	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}
	if d.Actor == nil {
		d.Actor = func() string { return "" }
	}
	return d
}

func (d Deps) succeed(title, msg string) {
	if d.Toasts != nil {
		d.Toasts.Show(toast.Toast{Kind: toast.KindSuccess, Title: title, Message: msg})
	}
}

func (d Deps) fail(log logrus.FieldLogger, title string, err error) {
	log.WithError(err).Warn(title)
	if d.Toasts != nil {
		d.Toasts.Show(toast.Toast{Kind: toast.KindError, Title: title, Message: apierr.Message(err)})
	}
}

// Page is one CRUD screen: a list controller, an optional form modal and
// the row actions (delete, activate, deactivate).
type Page[T model.Entity, D any] struct {
	cfg  PageConfig[T, D]
	svc  Service[T]
	deps Deps
	log  logrus.FieldLogger

	List *listctl.Controller[T]
	Form *form.Modal[D]
}

// NewPage wires a screen for svc. Nothing is fetched until Load.
func NewPage[T model.Entity, D any](svc Service[T], cfg PageConfig[T, D], deps Deps) *Page[T, D] {
	deps = deps.withDefaults()
	if cfg.Noun == "" {
		cfg.Noun = "Record"
	}
	if cfg.Plural == "" {
		cfg.Plural = strings.ToLower(cfg.Noun) + "s"
	}
	if cfg.ResolveMedia != nil && deps.Media.BaseURL != "" {
		svc = newMediaService(svc, cfg.ResolveMedia, deps.Media)
	}
	p := &Page[T, D]{
		cfg:  cfg,
		svc:  svc,
		deps: deps,
		log:  deps.Log.WithField("entity", cfg.Entity.String()),
	}

	listOpts := []listctl.Option[T]{
		listctl.WithTitle[T](cfg.Plural),
		listctl.WithLogger[T](p.log),
	}
	if deps.Toasts != nil {
		listOpts = append(listOpts, listctl.WithNotifier[T](deps.Toasts))
	}
	if deps.PageSize > 0 {
		listOpts = append(listOpts, listctl.WithPageSize[T](deps.PageSize))
	}
	if cfg.WithStats {
		listOpts = append(listOpts, listctl.WithStats[T](svc.Stats))
	}
	p.List = listctl.New[T](svc, listOpts...)

	if cfg.NewDraft != nil {
		formOpts := []form.Option[D]{
			form.WithNoun[D](cfg.Noun),
			form.WithLogger[D](p.log),
			form.WithValidator[D](deps.Validator),
			form.WithOnSuccess[D](p.List.Refetch),
		}
		if deps.Toasts != nil {
			formOpts = append(formOpts, form.WithNotifier[D](deps.Toasts))
		}
		p.Form = form.New(cfg.NewDraft, p.save, formOpts...)
	}
	return p
}

// Entity returns the page's entity type.
func (p *Page[T, D]) Entity() model.EntityName { return p.cfg.Entity }

// Noun returns the display name of one record.
func (p *Page[T, D]) Noun() string { return p.cfg.Noun }

// Load fetches the first view of the list.
func (p *Page[T, D]) Load(ctx context.Context) error {
	return p.List.Fetch(ctx)
}

// Create opens the form on a fresh draft.
func (p *Page[T, D]) Create() error {
	if p.Form == nil {
		return ErrReadOnly
	}
	return p.Form.Open(form.ModeCreate, "", nil)
}

// Get returns the record with the given id, from the current page when
// present and from the server otherwise.
func (p *Page[T, D]) Get(ctx context.Context, id string) (T, error) {
	if item, ok := p.List.Find(id); ok {
		return item, nil
	}
	got, err := p.svc.Get(ctx, id)
	if err != nil {
		var zero T
		if client.IsNotFound(err) {
			return zero, fmt.Errorf("%s %s: %w", strings.ToLower(p.cfg.Noun), id, ErrNotFound)
		}
		p.fail("Failed to load "+strings.ToLower(p.cfg.Noun), err)
		return zero, err
	}
	return *got, nil
}

// Edit opens the form seeded from the record with the given id.
func (p *Page[T, D]) Edit(ctx context.Context, id string) error {
	if p.Form == nil || p.cfg.DraftFrom == nil {
		return ErrReadOnly
	}
	item, err := p.Get(ctx, id)
	if err != nil {
		return err
	}
	draft := p.cfg.DraftFrom(item)
	return p.Form.Open(form.ModeEdit, id, &draft)
}

// Submit saves the open form.
func (p *Page[T, D]) Submit(ctx context.Context) error {
	if p.Form == nil {
		return ErrReadOnly
	}
	return p.Form.Submit(ctx)
}

func (p *Page[T, D]) save(ctx context.Context, mode form.Mode, id string, draft D, files []client.File) error {
	var (
		saved  *T
		err    error
		action = events.ActionCreated
	)
	if mode == form.ModeEdit {
		action = events.ActionUpdated
		saved, err = p.svc.Update(ctx, id, draft, files)
	} else {
		saved, err = p.svc.Create(ctx, draft, files)
	}
	if err != nil {
		return err
	}
	var record any
	if saved != nil {
		record = *saved
		if id == "" {
			id = (*saved).EntityID()
		}
	}
	p.publish(ctx, action, id, record)
	return nil
}

// Delete asks for confirmation and removes the record. A declined prompt
// makes no call, raises no toast and reports false.
func (p *Page[T, D]) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := p.deps.Confirm.Confirm(ctx, fmt.Sprintf("Delete %s %s?", strings.ToLower(p.cfg.Noun), id))
	if err != nil || !ok {
		return false, err
	}
	msg, err := p.svc.Delete(ctx, id)
	if err != nil {
		p.fail("Failed to delete "+strings.ToLower(p.cfg.Noun), err)
		return false, err
	}
	if msg == "" {
		msg = p.cfg.Noun + " deleted successfully"
	}
	p.succeed("Deleted", msg)
	p.publish(ctx, events.ActionDeleted, id, nil)
	p.refetch(ctx)
	return true, nil
}

// SetActive activates or deactivates the record and refetches the list.
func (p *Page[T, D]) SetActive(ctx context.Context, id string, active bool) error {
	if err := p.svc.SetStatus(ctx, id, active); err != nil {
		p.fail("Failed to update status", err)
		return err
	}
	action := events.ActionDeactivated
	if active {
		action = events.ActionActivated
	}
	p.succeed("Status updated", fmt.Sprintf("%s %s successfully", p.cfg.Noun, action))
	p.publish(ctx, action, id, nil)
	p.refetch(ctx)
	return nil
}

// Toggle flips the active flag of a record on the current page.
func (p *Page[T, D]) Toggle(ctx context.Context, id string) error {
	item, ok := p.List.Find(id)
	if !ok {
		return fmt.Errorf("%s %s is not on the current page: %w", strings.ToLower(p.cfg.Noun), id, ErrNotFound)
	}
	return p.SetActive(ctx, id, !item.Active())
}

// Close tears the page down. Responses still in flight are discarded.
func (p *Page[T, D]) Close() {
	p.List.Close()
	if p.Form != nil {
		p.Form.Close()
	}
}

func (p *Page[T, D]) refetch(ctx context.Context) {
	if err := p.List.Refetch(ctx); err != nil {
		p.log.WithError(err).Debug("refetch after mutation")
	}
}

func (p *Page[T, D]) publish(ctx context.Context, action events.Action, id string, record any) {
	m := events.Mutation{
		Entity: p.cfg.Entity,
		Action: action,
		ID:     id,
		Actor:  p.deps.Actor(),
		Record: record,
	}
	if err := events.PublishMutation(ctx, p.deps.Events, m); err != nil {
		p.log.WithError(err).WithField("subject", m.Subject()).Warn("publishing mutation event")
	}
}

func (p *Page[T, D]) succeed(title, msg string) {
	p.deps.succeed(title, msg)
}

func (p *Page[T, D]) fail(title string, err error) {
	p.deps.fail(p.log, title, err)
}
