package console

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/alfredjeanlab/dateadmin/internal/client"
	"github.com/alfredjeanlab/dateadmin/internal/events"
	"github.com/alfredjeanlab/dateadmin/internal/form"
	"github.com/alfredjeanlab/dateadmin/internal/model"
)

// SettingsService reads and writes settings tabs. *client.HTTPClient
// satisfies it.
type SettingsService interface {
	GetSettings(ctx context.Context, tab model.SettingsTab, out any) error
	UpdateSettings(ctx context.Context, tab model.SettingsTab, in any, out any) error
}

// TabNoun is the display name of a settings tab.
func TabNoun(tab model.SettingsTab) string {
	switch tab {
	case model.TabSMTP:
		return "SMTP settings"
	case model.TabStripe:
		return "Stripe settings"
	case model.TabPrivacy:
		return "Privacy policy"
	case model.TabInvitation:
		return "Invitation settings"
	}
	return "Settings"
}

// SettingsTab is one tab of the settings panel. Its form is always in edit
// mode, seeded from the server.
type SettingsTab[D any] struct {
	tab  model.SettingsTab
	svc  SettingsService
	deps Deps
	log  logrus.FieldLogger

	Form *form.Modal[D]
}

// NewSettingsTab wires the tab.
func NewSettingsTab[D any](svc SettingsService, tab model.SettingsTab, deps Deps) *SettingsTab[D] {
	deps = deps.withDefaults()
	s := &SettingsTab[D]{
		tab:  tab,
		svc:  svc,
		deps: deps,
		log:  deps.Log.WithField("settings", tab.String()),
	}
	opts := []form.Option[D]{
		form.WithNoun[D](TabNoun(tab)),
		form.WithLogger[D](s.log),
		form.WithValidator[D](deps.Validator),
	}
	if deps.Toasts != nil {
		opts = append(opts, form.WithNotifier[D](deps.Toasts))
	}
	s.Form = form.New(func() D { var zero D; return zero }, s.save, opts...)
	return s
}

// Tab returns the tab name.
func (s *SettingsTab[D]) Tab() model.SettingsTab { return s.tab }

// Load fetches the stored values and opens the form on them.
func (s *SettingsTab[D]) Load(ctx context.Context) error {
	var current D
	if err := s.svc.GetSettings(ctx, s.tab, &current); err != nil {
		s.deps.fail(s.log, "Failed to load "+strings.ToLower(TabNoun(s.tab)), err)
		return err
	}
	return s.Form.Open(form.ModeEdit, s.tab.String(), &current)
}

// Save validates and stores the form.
func (s *SettingsTab[D]) Save(ctx context.Context) error {
	return s.Form.Submit(ctx)
}

func (s *SettingsTab[D]) save(ctx context.Context, _ form.Mode, _ string, draft D, _ []client.File) error {
	if err := s.svc.UpdateSettings(ctx, s.tab, draft, nil); err != nil {
		return err
	}
	m := events.Mutation{
		Entity: model.EntitySettings,
		Action: events.ActionSaved,
		ID:     s.tab.String(),
		Actor:  s.deps.Actor(),
	}
	if err := events.PublishMutation(ctx, s.deps.Events, m); err != nil {
		s.log.WithError(err).Warn("publishing settings event")
	}
	return nil
}
