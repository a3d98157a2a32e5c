// Package session holds the console's authentication and chrome state.
//
// State changes go through Reduce, a pure function over typed actions.
// Store wraps the reducer with a mutex and performs the only side effect
// of a transition: LoginSuccess persists the token, Logout erases it.
package session

import "github.com/alfredjeanlab/dateadmin/internal/model"

// State is the process-wide session state.
type State struct {
	IsAuthenticated  bool                 `json:"isAuthenticated"`
	User             *model.User          `json:"user,omitempty"`
	Token            string               `json:"-"`
	Loading          bool                 `json:"loading"`
	SidebarCollapsed bool                 `json:"sidebarCollapsed"`
	Notifications    []model.Notification `json:"notifications,omitempty"`
	UnreadCount      int                  `json:"unreadCount"`
}

func (s State) clone() State {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	if s.Notifications != nil {
		s.Notifications = append([]model.Notification(nil), s.Notifications...)
	}
	return s
}

// Action is a state transition request.
type Action interface {
	actionName() string
}

// LoginSuccess records an authenticated user and their token.
type LoginSuccess struct {
	User  model.User
	Token string
}

// Logout clears the user and token.
type Logout struct{}

// SetLoading toggles the global loading flag.
type SetLoading struct{ Loading bool }

// ToggleSidebar flips the sidebar collapse flag.
type ToggleSidebar struct{}

// SetNotifications replaces the notification feed and recounts unread items.
type SetNotifications struct{ List []model.Notification }

// SetUnreadCount overrides the unread counter.
type SetUnreadCount struct{ N int }

func (LoginSuccess) actionName() string     { return "LOGIN_SUCCESS" }
func (Logout) actionName() string           { return "LOGOUT" }
func (SetLoading) actionName() string       { return "SET_LOADING" }
func (ToggleSidebar) actionName() string    { return "TOGGLE_SIDEBAR" }
func (SetNotifications) actionName() string { return "SET_NOTIFICATIONS" }
func (SetUnreadCount) actionName() string   { return "SET_UNREAD_COUNT" }

// Reduce returns the state that results from applying a to s. It has no
// side effects and never mutates s.
func Reduce(s State, a Action) State {
	next := s.clone()
	switch act := a.(type) {
	case LoginSuccess:
		u := act.User
		next.IsAuthenticated = true
		next.User = &u
		next.Token = act.Token
		next.Loading = false
	case Logout:
		next.IsAuthenticated = false
		next.User = nil
		next.Token = ""
		next.Notifications = nil
		next.UnreadCount = 0
		next.Loading = false
	case SetLoading:
		next.Loading = act.Loading
	case ToggleSidebar:
		next.SidebarCollapsed = !next.SidebarCollapsed
	case SetNotifications:
		next.Notifications = append([]model.Notification(nil), act.List...)
		next.UnreadCount = model.CountUnread(act.List)
	case SetUnreadCount:
		if act.N < 0 {
			act.N = 0
		}
		next.UnreadCount = act.N
	}
	return next
}
