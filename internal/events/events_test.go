package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/alfredjeanlab/dateadmin/internal/model"
)

func TestSubject(t *testing.T) {
	tests := []struct {
		entity model.EntityName
		action Action
		want   string
	}{
		{model.EntityTemplate, ActionCreated, "dateadmin.template.created"},
		{model.EntityMatch, ActionBlocked, "dateadmin.match.blocked"},
		{model.EntitySettings, ActionSaved, "dateadmin.settings.saved"},
	}
	for _, tt := range tests {
		if got := Subject(tt.entity, tt.action); got != tt.want {
			t.Errorf("Subject(%s, %s) = %q, want %q", tt.entity, tt.action, got, tt.want)
		}
	}
}

func TestNoopPublisher(t *testing.T) {
	var pub Publisher = NoopPublisher{}
	if err := pub.Publish(context.Background(), "dateadmin.template.created", Mutation{}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNATSPublisher_ImplementsPublisher(t *testing.T) {
	var _ Publisher = (*NATSPublisher)(nil)
}

func TestPublishMutation(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connecting subscriber: %v", err)
	}
	defer nc.Close()

	ch := make(chan *nats.Msg, 1)
	sub, err := nc.ChanSubscribe("dateadmin.template.>", ch)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer sub.Unsubscribe() //nolint:errcheck
	nc.Flush()

	m := Mutation{
		Entity: model.EntityTemplate,
		Action: ActionDeactivated,
		ID:     "tpl-1",
		Actor:  "admin@example.com",
	}
	if err := PublishMutation(context.Background(), pub, m); err != nil {
		t.Fatalf("PublishMutation: %v", err)
	}
	if err := pub.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	select {
	case msg := <-ch:
		if msg.Subject != "dateadmin.template.deactivated" {
			t.Errorf("subject = %q", msg.Subject)
		}
		var got Mutation
		if err := json.Unmarshal(msg.Data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.ID != "tpl-1" || got.Action != ActionDeactivated || got.Actor != "admin@example.com" {
			t.Errorf("got %+v", got)
		}
		if got.At.IsZero() {
			t.Error("expected At to be stamped")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

func TestNATSPublisher_CanceledContext(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := pub.Publish(ctx, "dateadmin.faq.created", Mutation{}); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestNATSPublisher_Close(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	err = pub.Publish(context.Background(), "dateadmin.faq.created", Mutation{})
	if err == nil {
		t.Error("expected error publishing after close")
	}
}
