package ui

import (
	"context"
	"io"
	"strings"
)

// Confirmer asks the operator to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// AutoConfirm answers every prompt with its own value; true backs --yes.
type AutoConfirm bool

func (a AutoConfirm) Confirm(context.Context, string) (bool, error) {
	return bool(a), nil
}

// PromptConfirmer asks on Out and reads a y/N answer from In.
type PromptConfirmer struct {
	In  io.Reader
	Out io.Writer
}

func (p PromptConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	answer, err := ReadLine(RenderWarning(prompt)+" [y/N] ", p.In, p.Out)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
