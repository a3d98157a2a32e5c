package form

import (
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/alfredjeanlab/dateadmin/internal/client"
)

// Attachment is a file picked in the form and held in memory until submit.
type Attachment struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

func newAttachment(field, filename string, data []byte) Attachment {
	return Attachment{
		Field:       field,
		Filename:    filename,
		ContentType: mimetype.Detect(data).String(),
		Data:        data,
	}
}

// IsImage reports whether the attachment's detected type is an image.
func (a Attachment) IsImage() bool {
	return strings.HasPrefix(a.ContentType, "image/")
}

// DataURL returns the attachment inlined as a data: URL.
func (a Attachment) DataURL() string {
	ct, _, _ := strings.Cut(a.ContentType, ";")
	return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}

func (a Attachment) file() client.File {
	return client.File{Field: a.Field, Filename: a.Filename, ContentType: a.ContentType, Data: a.Data}
}
