package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestEntityName_IsValid(t *testing.T) {
	for _, tc := range []struct {
		name EntityName
		want bool
	}{
		{EntityTemplate, true},
		{EntityLounge, true},
		{EntityMatch, true},
		{EntityFAQ, true},
		{EntitySettings, true},
		{EntityName(""), false},
		{EntityName("user"), false},
	} {
		if got := tc.name.IsValid(); got != tc.want {
			t.Errorf("EntityName(%q).IsValid() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestMatchStatus_IsValid(t *testing.T) {
	for _, tc := range []struct {
		status MatchStatus
		want   bool
	}{
		{MatchPending, true},
		{MatchMatched, true},
		{MatchBlocked, true},
		{MatchExpired, true},
		{MatchStatus(""), false},
		{MatchStatus("unmatched"), false},
	} {
		if got := tc.status.IsValid(); got != tc.want {
			t.Errorf("MatchStatus(%q).IsValid() = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestSettingsTab_IsValid(t *testing.T) {
	for _, tab := range SettingsTabs {
		if !tab.IsValid() {
			t.Errorf("SettingsTab(%q).IsValid() = false", tab)
		}
	}
	if SettingsTab("billing").IsValid() {
		t.Error(`SettingsTab("billing").IsValid() = true`)
	}
}

func TestNewDraftsStartActive(t *testing.T) {
	if !NewTemplateDraft().IsActive {
		t.Error("new template draft should be active")
	}
	if !NewLoungeDraft().IsActive {
		t.Error("new lounge draft should be active")
	}
	if !NewFAQDraft().IsActive {
		t.Error("new FAQ draft should be active")
	}
}

func TestTemplateDraftFrom(t *testing.T) {
	tpl := Template{
		ID:              "t1",
		Title:           "Picnic",
		Description:     "Blanket and basket",
		Category:        "outdoor",
		DurationMinutes: 90,
		EstimatedCost:   decimal.RequireFromString("24.50"),
		SortOrder:       3,
		IsActive:        false,
		ImageURL:        "/uploads/picnic.png",
	}
	d := TemplateDraftFrom(tpl)
	if d.Title != "Picnic" || d.Category != "outdoor" || d.DurationMinutes != 90 || d.SortOrder != 3 {
		t.Errorf("TemplateDraftFrom copied wrong fields: %+v", d)
	}
	if !d.EstimatedCost.Equal(decimal.RequireFromString("24.5")) {
		t.Errorf("EstimatedCost = %s, want 24.5", d.EstimatedCost)
	}
	if d.IsActive {
		t.Error("IsActive should follow the record")
	}
}

func TestLoungeAndFAQDraftFrom(t *testing.T) {
	l := LoungeDraftFrom(Lounge{ID: "l1", Name: "Jazz", City: "Lyon", Capacity: 40, MemberCount: 12, IsActive: true})
	if l.Name != "Jazz" || l.City != "Lyon" || l.Capacity != 40 || !l.IsActive {
		t.Errorf("LoungeDraftFrom = %+v", l)
	}
	f := FAQDraftFrom(FAQ{ID: "f1", Question: "How?", Answer: "Like this.", SortOrder: 2})
	if f.Question != "How?" || f.Answer != "Like this." || f.SortOrder != 2 || f.IsActive {
		t.Errorf("FAQDraftFrom = %+v", f)
	}
}

func TestEntityInterface(t *testing.T) {
	for _, tc := range []struct {
		e      Entity
		id     string
		active bool
	}{
		{Template{ID: "t1", IsActive: true}, "t1", true},
		{Lounge{ID: "l1"}, "l1", false},
		{FAQ{ID: "f1", IsActive: true}, "f1", true},
		{Match{ID: "m1"}, "m1", false},
	} {
		if tc.e.EntityID() != tc.id || tc.e.Active() != tc.active {
			t.Errorf("%T: EntityID() = %q, Active() = %v", tc.e, tc.e.EntityID(), tc.e.Active())
		}
	}
}

func TestCountUnread(t *testing.T) {
	list := []Notification{
		{ID: "1", IsRead: false},
		{ID: "2", IsRead: true},
		{ID: "3", IsRead: false},
	}
	if got := CountUnread(list); got != 2 {
		t.Errorf("CountUnread() = %d, want 2", got)
	}
	if got := CountUnread(nil); got != 0 {
		t.Errorf("CountUnread(nil) = %d, want 0", got)
	}
}

func TestMatchJSON(t *testing.T) {
	raw := `{"id":"m1","userA":{"id":"u1","name":"Ana"},"userB":{"id":"u2","name":"Ben"},
		"status":"matched","score":0.82,"isActive":true,"matchedAt":"2026-05-01T10:00:00Z"}`
	var m Match
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if m.UserA.Name != "Ana" || m.UserB.Name != "Ben" || m.Status != MatchMatched {
		t.Errorf("decoded %+v", m)
	}
	want := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	if m.MatchedAt == nil || !m.MatchedAt.Equal(want) {
		t.Errorf("MatchedAt = %v, want %v", m.MatchedAt, want)
	}
}

func TestResolveMedia(t *testing.T) {
	prefix := func(p string) string { return "https://cdn.test" + p }
	if got := (Template{ImageURL: "/a.png"}).ResolveMedia(prefix).ImageURL; got != "https://cdn.test/a.png" {
		t.Errorf("Template.ResolveMedia = %q", got)
	}
	if got := (Lounge{ID: "l1", ImageURL: "/b.png"}).ResolveMedia(prefix); got.ImageURL != "https://cdn.test/b.png" || got.ID != "l1" {
		t.Errorf("Lounge.ResolveMedia = %+v", got)
	}
}
