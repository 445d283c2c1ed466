//go:build integration

package integration

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bissquit/statusdash/internal/apiclient"
	"github.com/bissquit/statusdash/internal/domain"
	"github.com/go-chi/chi/v5"
)

// fakeBackend is an in-memory status backend whose service statuses the
// tests change between recorder polls.
type fakeBackend struct {
	mu       sync.Mutex
	services []domain.Service
	users    map[string]domain.User
}

func newFakeBackend() *fakeBackend {
	created := time.Now().Add(-48 * time.Hour)
	return &fakeBackend{
		services: []domain.Service{
			{ID: 1, Name: "API", Status: domain.ServiceStatusOperational, IsActive: true, CreatedAt: created, UpdatedAt: created},
			{ID: 2, Name: "Database", Status: domain.ServiceStatusOperational, IsActive: true, CreatedAt: created, UpdatedAt: created},
		},
		users: map[string]domain.User{
			"viewer-token": {ID: 1, Email: "viewer@example.com", FullName: "Viewer", Role: domain.RoleViewer, IsActive: true},
			"admin-token":  {ID: 2, Email: "admin@example.com", FullName: "Admin", Role: domain.RoleAdmin, IsActive: true},
		},
	}
}

// setStatus changes a service status as an operator would upstream.
func (f *fakeBackend) setStatus(id int64, status domain.ServiceStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.services {
		if f.services[i].ID == id {
			f.services[i].Status = status
			f.services[i].UpdatedAt = time.Now()
		}
	}
}

func (f *fakeBackend) snapshot() []domain.Service {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Service, len(f.services))
	copy(out, f.services)
	return out
}

func (f *fakeBackend) router() http.Handler {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/public/services", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, f.snapshot())
		})
		r.Get("/public/incidents/active", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, []domain.Incident{})
		})
		r.Get("/public/maintenances/active", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, []domain.Maintenance{})
		})
		r.Get("/public/timeline", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, []domain.TimelineEvent{})
		})
		r.Post("/users/login", func(w http.ResponseWriter, r *http.Request) {
			var in apiclient.LoginRequest
			_ = json.NewDecoder(r.Body).Decode(&in)
			if in.Email != "admin@example.com" || in.Password != "secret" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"access_token": "admin-token", "token_type": "bearer"})
		})
		r.Get("/users/me", func(w http.ResponseWriter, r *http.Request) {
			user, ok := f.users[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
			if !ok {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
				return
			}
			writeJSON(w, http.StatusOK, user)
		})
	})
	return r
}

// fakeWebhook records Mattermost incoming webhook posts.
type fakeWebhook struct {
	mu    sync.Mutex
	posts []webhookPost
}

type webhookPost struct {
	Username    string `json:"username"`
	Text        string `json:"text"`
	Attachments []struct {
		Title string `json:"title"`
		Text  string `json:"text"`
		Color string `json:"color"`
	} `json:"attachments"`
}

func (f *fakeWebhook) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var post webhookPost
	if err := json.Unmarshal(body, &post); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.posts = append(f.posts, post)
	f.mu.Unlock()

	_, _ = w.Write([]byte("ok"))
}

// Posts returns a copy of the received posts.
func (f *fakeWebhook) Posts() []webhookPost {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]webhookPost, len(f.posts))
	copy(out, f.posts)
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
