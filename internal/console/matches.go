package console

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/dateadmin/internal/events"
	"github.com/alfredjeanlab/dateadmin/internal/model"
)

// NoDraft is the draft type of screens without a form.
type NoDraft struct{}

// MatchService is the match endpoint set: the common entity service plus
// record actions.
type MatchService interface {
	Service[model.Match]
	Action(ctx context.Context, id, action string) (string, error)
}

// Matches is the read-only match screen with its extra block action.
type Matches struct {
	*Page[model.Match, NoDraft]
	svc MatchService
}

// NewMatches wires the match screen.
func NewMatches(svc MatchService, deps Deps) *Matches {
	cfg := PageConfig[model.Match, NoDraft]{
		Entity:    model.EntityMatch,
		Noun:      "Match",
		Plural:    "matches",
		WithStats: true,
	}
	return &Matches{Page: NewPage[model.Match, NoDraft](svc, cfg, deps), svc: svc}
}

// Block asks for confirmation and blocks the match. A declined prompt makes
// no call and raises no toast.
func (m *Matches) Block(ctx context.Context, id string) (bool, error) {
	ok, err := m.deps.Confirm.Confirm(ctx, fmt.Sprintf("Block match %s? Both members will stop seeing each other.", id))
	if err != nil || !ok {
		return false, err
	}
	msg, err := m.svc.Action(ctx, id, "block")
	if err != nil {
		m.fail("Failed to block match", err)
		return false, err
	}
	if msg == "" {
		msg = "Match blocked successfully"
	}
	m.succeed("Blocked", msg)
	m.publish(ctx, events.ActionBlocked, id, nil)
	m.refetch(ctx)
	return true, nil
}
