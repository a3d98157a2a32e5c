package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ContentType is the media type of an export payload.
const ContentType = "application/x-ndjson"

// Destination is the interface for an export target (file, S3, etc.).
type Destination interface {
	// Write sends the JSONL payload to the destination.
	Write(ctx context.Context, data []byte) error
	// Location describes where the payload went, for the operator.
	Location() string
}

// FileDestination writes the payload to a local file, replacing it
// atomically.
type FileDestination struct {
	Path string
}

func (d FileDestination) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(d.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close export: %w", err)
	}
	if err := os.Rename(tmp.Name(), d.Path); err != nil {
		return fmt.Errorf("move export into place: %w", err)
	}
	return nil
}

func (d FileDestination) Location() string { return d.Path }

// WriterDestination copies the payload to W, typically stdout.
type WriterDestination struct {
	W    io.Writer
	Name string
}

func (d WriterDestination) Write(_ context.Context, data []byte) error {
	_, err := d.W.Write(data)
	return err
}

func (d WriterDestination) Location() string {
	if d.Name == "" {
		return "stdout"
	}
	return d.Name
}

// WriteAll writes data to every destination. A failing destination does
// not stop the others; all failures are returned joined.
func WriteAll(ctx context.Context, data []byte, dests ...Destination) error {
	var errs []error
	for _, d := range dests {
		if err := d.Write(ctx, data); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.Location(), err))
		}
	}
	return errors.Join(errs...)
}
