package console

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/alfredjeanlab/dateadmin/internal/model"
)

// fakeBackend is an in-memory admin API covering the endpoints the console
// drives.
type fakeBackend struct {
	mu        sync.Mutex
	templates map[string]*model.Template
	matches   map[string]*model.Match
	smtp      model.SMTPSettings
	notes     []model.Notification
	calls     []string
	nextID    int

	token       string
	logoutFails bool
	listFails   bool
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	b := &fakeBackend{
		templates: map[string]*model.Template{},
		matches:   map[string]*model.Match{},
		token:     "tok-123",
		smtp:      model.SMTPSettings{Host: "smtp.example.com", Port: 587, FromEmail: "noreply@example.com", Encryption: "tls"},
	}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *fakeBackend) addTemplate(id, title string, active bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.templates[id] = &model.Template{ID: id, Title: title, Description: title + " description", IsActive: active}
}

func (b *fakeBackend) callsFor(prefix string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, c := range b.calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "data": data})
}

func writeFail(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"status": "error", "message": msg})
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, r.Method+" "+r.URL.Path)

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.URL.Path == "/auth/login" && r.Method == http.MethodPost:
		var creds struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "secret" {
			writeFail(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		writeOK(w, map[string]any{"token": b.token, "user": model.User{ID: "u1", Email: creds.Email, Name: "Ada", Role: "admin"}})
	case r.URL.Path == "/auth/logout":
		if b.logoutFails {
			writeFail(w, http.StatusBadGateway, "upstream unavailable")
			return
		}
		writeOK(w, nil)
	case r.URL.Path == "/auth/me":
		if r.Header.Get("Authorization") != "Bearer "+b.token {
			writeFail(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		writeOK(w, model.User{ID: "u1", Email: "ada@example.com", Name: "Ada", Role: "admin"})
	case r.URL.Path == "/notifications":
		writeOK(w, b.notes)
	case r.URL.Path == "/settings/smtp":
		if r.Method == http.MethodPut {
			_ = json.NewDecoder(r.Body).Decode(&b.smtp)
		}
		writeOK(w, b.smtp)
	case parts[0] == "templates":
		b.serveTemplates(w, r, parts[1:])
	case parts[0] == "matches":
		b.serveMatches(w, r, parts[1:])
	default:
		writeFail(w, http.StatusNotFound, "Not found")
	}
}

func (b *fakeBackend) serveTemplates(w http.ResponseWriter, r *http.Request, rest []string) {
	switch {
	case len(rest) == 0 && r.Method == http.MethodGet:
		if b.listFails {
			writeFail(w, http.StatusInternalServerError, "database unavailable")
			return
		}
		b.listTemplates(w, r)
	case len(rest) == 0 && r.Method == http.MethodPost:
		var d model.TemplateDraft
		_ = json.NewDecoder(r.Body).Decode(&d)
		if d.Title == "Taken" {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"status":  "error",
				"message": "Validation failed",
				"data":    []map[string]string{{"field": "title", "message": "Title already exists"}},
			})
			return
		}
		b.nextID++
		tpl := &model.Template{ID: fmt.Sprintf("new-%d", b.nextID)}
		applyDraft(tpl, d)
		b.templates[tpl.ID] = tpl
		writeJSON(w, http.StatusCreated, map[string]any{"status": "success", "data": tpl})
	case len(rest) == 1 && rest[0] == "stats":
		active := 0
		for _, t := range b.templates {
			if t.IsActive {
				active++
			}
		}
		writeOK(w, map[string]int{"total": len(b.templates), "active": active})
	case len(rest) == 1:
		tpl, found := b.templates[rest[0]]
		if !found {
			writeFail(w, http.StatusNotFound, "Template not found")
			return
		}
		switch r.Method {
		case http.MethodGet:
			writeOK(w, tpl)
		case http.MethodPut:
			var d model.TemplateDraft
			_ = json.NewDecoder(r.Body).Decode(&d)
			applyDraft(tpl, d)
			writeOK(w, tpl)
		case http.MethodDelete:
			delete(b.templates, rest[0])
			writeJSON(w, http.StatusOK, map[string]any{"status": "success", "message": "Template deleted successfully"})
		}
	case len(rest) == 2 && rest[1] == "status":
		tpl, found := b.templates[rest[0]]
		if !found {
			writeFail(w, http.StatusNotFound, "Template not found")
			return
		}
		var body struct {
			IsActive bool `json:"isActive"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		tpl.IsActive = body.IsActive
		writeOK(w, tpl)
	default:
		writeFail(w, http.StatusNotFound, "Not found")
	}
}

func (b *fakeBackend) listTemplates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	var all []model.Template
	for _, t := range b.templates {
		if s := q.Get("search"); s != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(s)) {
			continue
		}
		if st := q.Get("status"); st != "" && (st == "active") != t.IsActive {
			continue
		}
		all = append(all, *t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"data":   all[start:end],
		"pagination": map[string]int{
			"total":      len(all),
			"page":       page,
			"limit":      limit,
			"totalPages": (len(all) + limit - 1) / limit,
		},
	})
}

func (b *fakeBackend) serveMatches(w http.ResponseWriter, r *http.Request, rest []string) {
	switch {
	case len(rest) == 0:
		var all []model.Match
		for _, m := range b.matches {
			all = append(all, *m)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
		writeOK(w, all)
	case len(rest) == 1 && rest[0] == "stats":
		writeOK(w, map[string]int{"total": len(b.matches)})
	case len(rest) == 2 && rest[1] == "block" && r.Method == http.MethodPost:
		m, found := b.matches[rest[0]]
		if !found {
			writeFail(w, http.StatusNotFound, "Match not found")
			return
		}
		m.Status = model.MatchBlocked
		m.IsActive = false
		writeJSON(w, http.StatusOK, map[string]any{"status": "success", "message": "Match blocked successfully"})
	default:
		writeFail(w, http.StatusNotFound, "Not found")
	}
}

func applyDraft(t *model.Template, d model.TemplateDraft) {
	t.Title = d.Title
	t.Description = d.Description
	t.Category = d.Category
	t.DurationMinutes = d.DurationMinutes
	t.EstimatedCost = d.EstimatedCost
	t.SortOrder = d.SortOrder
	t.IsActive = d.IsActive
}

// with runs fn under the backend's lock.
func (b *fakeBackend) with(fn func(b *fakeBackend)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b)
}
