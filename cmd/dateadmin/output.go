package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/alfredjeanlab/dateadmin/internal/apierr"
	"github.com/alfredjeanlab/dateadmin/internal/ui"
)

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// splitField splits "key=value". The key must be non-empty.
func splitField(s string) (string, string, bool) {
	i := strings.IndexByte(s, '=')
	if i <= 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

// parsePairs turns repeated key=value flags into a map. A repeated key
// keeps its last value.
func parsePairs(flag string, pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := splitField(p)
		if !ok {
			return nil, fmt.Errorf("invalid --%s %q (expected key=value)", flag, p)
		}
		out[k] = v
	}
	return out, nil
}

// printFieldErrors lists inline form errors under the failed command.
func printFieldErrors(errs apierr.FieldErrors) {
	if len(errs) == 0 {
		return
	}
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %s %s\n", ui.RenderWarning(name+":"), errs[name])
	}
}

func activeLabel(active bool) string {
	if active {
		return ui.RenderSuccess("active")
	}
	return ui.RenderMuted("inactive")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func printStats(stats map[string]int) {
	if len(stats) == 0 {
		return
	}
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %d", k, stats[k]))
	}
	fmt.Println(ui.RenderMuted(strings.Join(parts, " · ")))
}
