// Package console assembles the admin screens: one generic page per entity,
// the settings tabs, and the session and notification plumbing they share.
// Each screen drives the backend through the client, reports outcomes as
// toasts and announces successful mutations on the event bus.
package console

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alfredjeanlab/dateadmin/internal/apierr"
	"github.com/alfredjeanlab/dateadmin/internal/client"
	"github.com/alfredjeanlab/dateadmin/internal/events"
	"github.com/alfredjeanlab/dateadmin/internal/form"
	"github.com/alfredjeanlab/dateadmin/internal/model"
	"github.com/alfredjeanlab/dateadmin/internal/session"
	"github.com/alfredjeanlab/dateadmin/internal/toast"
	"github.com/alfredjeanlab/dateadmin/internal/ui"
)

// notificationDebounce coalesces bursts of feed events into one refresh.
const notificationDebounce = 250 * time.Millisecond

// Console holds every screen of the admin console.
type Console struct {
	Client  *client.HTTPClient
	Session *session.Store
	Toasts  *toast.Queue
	Media   client.MediaResolver

	Templates *Page[model.Template, model.TemplateDraft]
	Lounges   *Page[model.Lounge, model.LoungeDraft]
	FAQs      *Page[model.FAQ, model.FAQDraft]
	Matches   *Matches

	SMTP       *SettingsTab[model.SMTPSettings]
	Stripe     *SettingsTab[model.StripeSettings]
	Privacy    *SettingsTab[model.PrivacySettings]
	Invitation *SettingsTab[model.InvitationSettings]

	events events.Publisher
	log    logrus.FieldLogger
}

// Options are the collaborators New wires together. Client, Session and
// Toasts are required.
type Options struct {
	Client   *client.HTTPClient
	Session  *session.Store
	Toasts   *toast.Queue
	Media    client.MediaResolver
	Events   events.Publisher
	Confirm  ui.Confirmer
	Log      logrus.FieldLogger
	PageSize int
}

// New builds the console. Nothing is fetched until a screen is loaded.
func New(opts Options) *Console {
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	if opts.Events == nil {
		opts.Events = events.NoopPublisher{}
	}
	c := &Console{
		Client:  opts.Client,
		Session: opts.Session,
		Toasts:  opts.Toasts,
		Media:   opts.Media,
		events:  opts.Events,
		log:     opts.Log,
	}
	deps := Deps{
		Toasts:    opts.Toasts,
		Confirm:   opts.Confirm,
		Events:    opts.Events,
		Validator: form.NewValidator(),
		Log:       opts.Log,
		Actor:     c.actor,
		PageSize:  opts.PageSize,
		Media:     opts.Media,
	}

	c.Templates = NewPage[model.Template, model.TemplateDraft](
		client.NewResource[model.Template](opts.Client, "/templates"),
		PageConfig[model.Template, model.TemplateDraft]{
			Entity:    model.EntityTemplate,
			Noun:      "Template",
			Plural:    "templates",
			NewDraft:  model.NewTemplateDraft,
			DraftFrom: model.TemplateDraftFrom,
			WithStats: true,

			ResolveMedia: model.Template.ResolveMedia,
		}, deps)
	c.Lounges = NewPage[model.Lounge, model.LoungeDraft](
		client.NewResource[model.Lounge](opts.Client, "/lounges"),
		PageConfig[model.Lounge, model.LoungeDraft]{
			Entity:    model.EntityLounge,
			Noun:      "Lounge",
			Plural:    "lounges",
			NewDraft:  model.NewLoungeDraft,
			DraftFrom: model.LoungeDraftFrom,
			WithStats: true,

			ResolveMedia: model.Lounge.ResolveMedia,
		}, deps)
	c.FAQs = NewPage[model.FAQ, model.FAQDraft](
		client.NewResource[model.FAQ](opts.Client, "/faqs"),
		PageConfig[model.FAQ, model.FAQDraft]{
			Entity:    model.EntityFAQ,
			Noun:      "FAQ",
			Plural:    "FAQs",
			NewDraft:  model.NewFAQDraft,
			DraftFrom: model.FAQDraftFrom,
		}, deps)
	c.Matches = NewMatches(client.NewResource[model.Match](opts.Client, "/matches"), deps)

	c.SMTP = NewSettingsTab[model.SMTPSettings](opts.Client, model.TabSMTP, deps)
	c.Stripe = NewSettingsTab[model.StripeSettings](opts.Client, model.TabStripe, deps)
	c.Privacy = NewSettingsTab[model.PrivacySettings](opts.Client, model.TabPrivacy, deps)
	c.Invitation = NewSettingsTab[model.InvitationSettings](opts.Client, model.TabInvitation, deps)
	return c
}

func (c *Console) actor() string {
	if u := c.Session.State().User; u != nil {
		return u.Email
	}
	return ""
}

// Login signs in and greets the admin.
func (c *Console) Login(ctx context.Context, email, password string) error {
	if err := c.Session.Login(ctx, c.Client, email, password); err != nil {
		c.Toasts.Error("Login failed", apierr.Message(err))
		return err
	}
	name := email
	if u := c.Session.State().User; u != nil && u.Name != "" {
		name = u.Name
	}
	c.Toasts.Success("Signed in", "Welcome back, "+name)
	return nil
}

// Logout ends the session. Local state is cleared even when the server
// cannot be reached.
func (c *Console) Logout(ctx context.Context) error {
	err := c.Session.Logout(ctx, c.Client.Logout)
	if err != nil {
		c.Toasts.Warning("Signed out locally", apierr.Message(err))
		return err
	}
	c.Toasts.Success("Signed out", "You have been logged out")
	return nil
}

// Bootstrap verifies the stored token, if any, with the server.
func (c *Console) Bootstrap(ctx context.Context) error {
	err := c.Session.Bootstrap(ctx, c.Client)
	if err != nil {
		c.log.WithError(err).Info("session bootstrap")
	}
	return err
}

// RequireAuth bootstraps the session and fails unless it is authenticated.
func (c *Console) RequireAuth(ctx context.Context) error {
	if err := c.Bootstrap(ctx); err != nil {
		return fmt.Errorf("not signed in: %w", err)
	}
	if !c.Session.State().IsAuthenticated {
		return fmt.Errorf("not signed in: run `dateadmin login` first")
	}
	return nil
}

// RefreshNotifications reloads the notification feed into the session.
func (c *Console) RefreshNotifications(ctx context.Context) ([]model.Notification, error) {
	list, err := c.Client.ListNotifications(ctx)
	if err != nil {
		c.Toasts.Error("Failed to load notifications", apierr.Message(err))
		return nil, err
	}
	if err := c.Session.Dispatch(session.SetNotifications{List: list}); err != nil {
		return nil, err
	}
	return list, nil
}

// MarkNotificationRead marks one notification read and refreshes the feed.
func (c *Console) MarkNotificationRead(ctx context.Context, id string) error {
	if err := c.Client.MarkNotificationRead(ctx, id); err != nil {
		c.Toasts.Error("Failed to update notification", apierr.Message(err))
		return err
	}
	_, err := c.RefreshNotifications(ctx)
	return err
}

// MarkAllNotificationsRead clears the unread badge.
func (c *Console) MarkAllNotificationsRead(ctx context.Context) error {
	if err := c.Client.MarkAllNotificationsRead(ctx); err != nil {
		c.Toasts.Error("Failed to update notifications", apierr.Message(err))
		return err
	}
	_, err := c.RefreshNotifications(ctx)
	return err
}

// WatchNotifications refreshes the feed whenever the backend announces a
// notification on the bus, coalescing bursts, until ctx is done.
func (c *Console) WatchNotifications(ctx context.Context, sub events.Subscriber, onChange func([]model.Notification)) error {
	return events.Watch(ctx, sub, events.SubjectNotifications, notificationDebounce, func(ctx context.Context) {
		list, err := c.RefreshNotifications(ctx)
		if err == nil && onChange != nil {
			onChange(list)
		}
	})
}

// Close tears down every screen.
func (c *Console) Close() {
	c.Templates.Close()
	c.Lounges.Close()
	c.FAQs.Close()
	c.Matches.Close()
	for _, f := range []interface{ Close() bool }{c.SMTP.Form, c.Stripe.Form, c.Privacy.Form, c.Invitation.Form} {
		f.Close()
	}
}
