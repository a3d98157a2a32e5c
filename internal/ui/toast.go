package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/alfredjeanlab/dateadmin/internal/toast"
)

// ToastPrinter writes toasts to a terminal as they are shown.
type ToastPrinter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewToastPrinter creates a printer writing to w.
func NewToastPrinter(w io.Writer) *ToastPrinter {
	return &ToastPrinter{w: w}
}

// Print writes one toast line. It has the signature toast.WithNotify expects.
func (p *ToastPrinter) Print(t toast.Toast) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, FormatToast(t))
}

// FormatToast renders t as a single line such as
// "✓ Saved: Template created successfully".
func FormatToast(t toast.Toast) string {
	var icon string
	render := RenderAccent
	switch t.Kind {
	case toast.KindSuccess:
		icon, render = "✓", RenderSuccess
	case toast.KindError:
		icon, render = "✗", RenderError
	case toast.KindWarning:
		icon, render = "!", RenderWarning
	default:
		icon = "i"
	}
	head := icon
	if t.Title != "" {
		head += " " + t.Title + ":"
	}
	return render(head) + " " + t.Message
}
