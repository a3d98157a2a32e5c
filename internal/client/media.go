package client

import "strings"

// MediaResolver rewrites the relative media paths the backend returns into
// absolute URLs.
type MediaResolver struct {
	// BaseURL is prepended to relative paths, e.g. "https://cdn.example.com".
	BaseURL string
	// APIPrefix is stripped from the front of relative paths, e.g. "/api".
	APIPrefix string
}

// Resolve returns an absolute URL for path. Paths that already start with
// "http" and empty paths are returned unchanged.
func (m MediaResolver) Resolve(path string) string {
	if path == "" || strings.HasPrefix(path, "http") {
		return path
	}
	p := path
	if prefix := strings.TrimRight(m.APIPrefix, "/"); prefix != "" {
		if p == prefix {
			p = ""
		} else if strings.HasPrefix(p, prefix+"/") {
			p = strings.TrimPrefix(p, prefix)
		} else if strings.HasPrefix(p, strings.TrimPrefix(prefix, "/")+"/") {
			p = "/" + strings.TrimPrefix(p, strings.TrimPrefix(prefix, "/")+"/")
		}
	}
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimRight(m.BaseURL, "/") + p
}
