package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "info")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.GetLevel() != logrus.InfoLevel {
		t.Errorf("level = %s", l.GetLevel())
	}
	l.Debug("hidden")
	l.WithField("entity", "template").Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug line written at info level")
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "entity=template") {
		t.Errorf("output = %q", out)
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "chatty"); err == nil {
		t.Fatal("expected error")
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("dropped")
	if l.GetLevel() != logrus.PanicLevel {
		t.Errorf("level = %s", l.GetLevel())
	}
}
