// Package form implements the create/edit modal shared by every entity
// screen: one draft, its field errors, pending attachments and a guarded
// submit.
package form

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	playform "github.com/go-playground/form"
	"github.com/sirupsen/logrus"

	"github.com/alfredjeanlab/dateadmin/internal/apierr"
	"github.com/alfredjeanlab/dateadmin/internal/client"
	"github.com/alfredjeanlab/dateadmin/internal/toast"
)

var (
	// ErrInvalid is returned by Submit when local validation fails.
	ErrInvalid = errors.New("form has invalid fields")
	// ErrBusy is returned while a submit is in flight.
	ErrBusy = errors.New("form is submitting")
	// ErrClosed is returned by operations that need an open form.
	ErrClosed = errors.New("form is not open")
)

// Mode says whether the modal creates a new record or edits one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// SubmitFunc persists a draft. id is empty in create mode. files holds the
// pending attachments; when it is empty the request is plain JSON.
type SubmitFunc[D any] func(ctx context.Context, mode Mode, id string, draft D, files []client.File) error

// Modal is one entity form.
type Modal[D any] struct {
	newDraft  func() D
	submit    SubmitFunc[D]
	onSuccess func(ctx context.Context) error
	notifier  toast.Notifier
	log       logrus.FieldLogger
	noun      string

	validator *Validator
	decoder   *playform.Decoder
	fields    fieldSet

	mu          sync.Mutex
	open        bool
	mode        Mode
	id          string
	draft       D
	errors      apierr.FieldErrors
	attachments map[string]Attachment
	submitting  bool
}

// Option configures a Modal.
type Option[D any] func(*Modal[D])

// WithOnSuccess registers fn to run after a successful submit, normally the
// list controller's Refetch.
func WithOnSuccess[D any](fn func(ctx context.Context) error) Option[D] {
	return func(m *Modal[D]) { m.onSuccess = fn }
}

// WithNotifier sets where submit outcomes are reported.
func WithNotifier[D any](n toast.Notifier) Option[D] {
	return func(m *Modal[D]) { m.notifier = n }
}

// WithLogger sets the modal's logger.
func WithLogger[D any](l logrus.FieldLogger) Option[D] {
	return func(m *Modal[D]) { m.log = l }
}

// WithNoun names the record in toasts, e.g. "Template".
func WithNoun[D any](noun string) Option[D] {
	return func(m *Modal[D]) { m.noun = noun }
}

// WithValidator shares a Validator between modals.
func WithValidator[D any](v *Validator) Option[D] {
	return func(m *Modal[D]) { m.validator = v }
}

// New creates a closed modal. newDraft supplies the defaults for create mode.
func New[D any](newDraft func() D, submit SubmitFunc[D], opts ...Option[D]) *Modal[D] {
	m := &Modal[D]{
		newDraft: newDraft,
		submit:   submit,
		log:      logrus.StandardLogger(),
		noun:     "Record",
		decoder:  newDecoder(),
		fields:   fieldsOf(reflect.TypeOf((*D)(nil)).Elem()),
		errors:   apierr.FieldErrors{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.validator == nil {
		m.validator = NewValidator()
	}
	return m
}

// Open starts a create or edit session. In edit mode seed is copied into
// the draft; in create mode seed is ignored. Field errors and attachments
// from any earlier session are dropped.
func (m *Modal[D]) Open(mode Mode, id string, seed *D) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submitting {
		return ErrBusy
	}
	switch mode {
	case ModeCreate:
		m.draft = m.newDraft()
		id = ""
	case ModeEdit:
		if seed == nil {
			return errors.New("edit mode needs a seed record")
		}
		m.draft = *seed
	default:
		return fmt.Errorf("unknown form mode %d", int(mode))
	}
	m.open = true
	m.mode = mode
	m.id = id
	m.errors = apierr.FieldErrors{}
	m.attachments = nil
	return nil
}

// SetField decodes raw into the draft field whose form name is name and
// clears that field's error. Names that are not draft fields are rejected.
func (m *Modal[D]) SetField(name, raw string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.editable(); err != nil {
		return err
	}
	if !m.fields.has(name) {
		return fmt.Errorf("unknown field %q", name)
	}
	delete(m.errors, name)
	if err := decodeField(m.decoder, &m.draft, name, raw); err != nil {
		m.errors[name] = m.fields.labels[name] + " is invalid"
		return err
	}
	return nil
}

// SetFields applies several fields in name order. It stops at the first
// failure.
func (m *Modal[D]) SetFields(values map[string]string) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := m.SetField(name, values[name]); err != nil {
			return err
		}
	}
	return nil
}

// Fields returns the form names of the draft's editable fields.
func (m *Modal[D]) Fields() []string {
	return append([]string(nil), m.fields.names...)
}

// Attach holds a file for upload with the next submit, replacing any file
// already attached to field.
func (m *Modal[D]) Attach(field, filename string, data []byte) (Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.editable(); err != nil {
		return Attachment{}, err
	}
	a := newAttachment(field, filename, data)
	if m.attachments == nil {
		m.attachments = map[string]Attachment{}
	}
	m.attachments[field] = a
	delete(m.errors, field)
	return a, nil
}

// Preview returns a data: URL for the image attached to field, so it can be
// shown before upload. It reports false when nothing or a non-image is
// attached.
func (m *Modal[D]) Preview(field string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attachments[field]
	if !ok || !a.IsImage() {
		return "", false
	}
	return a.DataURL(), true
}

// Validate checks the current draft without touching the modal's state.
func (m *Modal[D]) Validate() apierr.FieldErrors {
	m.mu.Lock()
	draft := m.draft
	m.mu.Unlock()
	return m.validator.Struct(draft)
}

// Submit validates the draft and, if it is valid, hands it to the submit
// function. On success the modal closes and onSuccess runs. Field errors
// from the server are kept on the modal, which stays open; any other
// failure raises one error toast.
func (m *Modal[D]) Submit(ctx context.Context) error {
	m.mu.Lock()
	if err := m.editable(); err != nil {
		m.mu.Unlock()
		return err
	}
	draft := m.draft
	if errs := m.validator.Struct(draft); len(errs) > 0 {
		m.errors = errs
		m.mu.Unlock()
		return ErrInvalid
	}
	m.submitting = true
	mode, id := m.mode, m.id
	files := m.files()
	m.mu.Unlock()

	log := m.log.WithFields(logrus.Fields{"form": m.noun, "mode": mode.String(), "id": id})
	err := m.submit(ctx, mode, id, draft, files)

	m.mu.Lock()
	m.submitting = false
	if err != nil {
		out := apierr.Normalize(err)
		if out.HasFieldErrors() {
			m.errors = out.FieldErrors
			m.mu.Unlock()
			log.WithError(err).Debug("server rejected fields")
			return err
		}
		m.mu.Unlock()
		log.WithError(err).Warn("submit failed")
		m.toast(toast.KindError, "Failed to save "+strings.ToLower(m.noun), out.ToastMessage)
		return err
	}
	m.reset()
	m.mu.Unlock()

	verb := "created"
	if mode == ModeEdit {
		verb = "updated"
	}
	m.toast(toast.KindSuccess, "Saved", fmt.Sprintf("%s %s successfully", m.noun, verb))

	if m.onSuccess != nil {
		if err := m.onSuccess(ctx); err != nil {
			log.WithError(err).Debug("after-submit hook failed")
		}
	}
	return nil
}

// Close discards the draft. It does nothing and returns false while a
// submit is in flight.
func (m *Modal[D]) Close() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submitting {
		return false
	}
	m.reset()
	return true
}

// Draft returns a copy of the draft.
func (m *Modal[D]) Draft() D {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

// Errors returns a copy of the current field errors.
func (m *Modal[D]) Errors() apierr.FieldErrors {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errors.Clone()
}

// Mode returns the current mode and the id being edited.
func (m *Modal[D]) Mode() (Mode, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode, m.id
}

// IsOpen reports whether a session is active.
func (m *Modal[D]) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// IsSubmitting reports whether a submit is in flight.
func (m *Modal[D]) IsSubmitting() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.submitting
}

func (m *Modal[D]) editable() error {
	if !m.open {
		return ErrClosed
	}
	if m.submitting {
		return ErrBusy
	}
	return nil
}

func (m *Modal[D]) files() []client.File {
	if len(m.attachments) == 0 {
		return nil
	}
	fields := make([]string, 0, len(m.attachments))
	for f := range m.attachments {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	files := make([]client.File, 0, len(fields))
	for _, f := range fields {
		files = append(files, m.attachments[f].file())
	}
	return files
}

// reset must be called with mu held.
func (m *Modal[D]) reset() {
	var zero D
	m.open = false
	m.mode = ModeCreate
	m.id = ""
	m.draft = zero
	m.errors = apierr.FieldErrors{}
	m.attachments = nil
}

func (m *Modal[D]) toast(kind toast.Kind, title, msg string) {
	if m.notifier == nil {
		return
	}
	m.notifier.Show(toast.Toast{Kind: kind, Title: title, Message: msg})
}
