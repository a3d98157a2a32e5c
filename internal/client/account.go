package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/alfredjeanlab/dateadmin/internal/model"
)

// --- Auth ---

// Login exchanges credentials for a bearer token.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var res LoginResult
	if _, err := c.doJSON(ctx, http.MethodPost, "/auth/login", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Logout invalidates the current token on the server.
func (c *HTTPClient) Logout(ctx context.Context) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil)
	return err
}

// Me returns the user the current token belongs to.
func (c *HTTPClient) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if _, err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// --- Settings ---

// GetSettings decodes the given settings tab into out.
func (c *HTTPClient) GetSettings(ctx context.Context, tab model.SettingsTab, out any) error {
	_, err := c.doJSON(ctx, http.MethodGet, "/settings/"+url.PathEscape(tab.String()), nil, out)
	return err
}

// UpdateSettings saves in to the given settings tab and decodes the stored
// result into out when out is non-nil.
func (c *HTTPClient) UpdateSettings(ctx context.Context, tab model.SettingsTab, in any, out any) error {
	_, err := c.doJSON(ctx, http.MethodPut, "/settings/"+url.PathEscape(tab.String()), in, out)
	return err
}

// --- Notifications ---

// ListNotifications returns the admin notification feed, newest first.
func (c *HTTPClient) ListNotifications(ctx context.Context) ([]model.Notification, error) {
	var list []model.Notification
	if _, err := c.doJSON(ctx, http.MethodGet, "/notifications", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// MarkNotificationRead marks one notification as read.
func (c *HTTPClient) MarkNotificationRead(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodPatch, "/notifications/"+url.PathEscape(id)+"/read", nil, nil)
	return err
}

// MarkAllNotificationsRead marks the whole feed as read.
func (c *HTTPClient) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := c.doJSON(ctx, http.MethodPatch, "/notifications/read-all", nil, nil)
	return err
}
