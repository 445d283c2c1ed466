package gateway

import (
	"net/http"

	"github.com/bissquit/statusdash/internal/apiclient"
	"github.com/bissquit/statusdash/internal/domain"
	"github.com/bissquit/statusdash/internal/pkg/ctxlog"
	"github.com/bissquit/statusdash/internal/pkg/httputil"
	"github.com/bissquit/statusdash/internal/session"
)

// SessionMiddleware resolves the bearer token into a session and stores it
// in the request context. Requests without a usable token continue as
// anonymous.
func (h *Handler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		store := session.NewMemoryStore()
		if token := httputil.BearerToken(r); token != "" {
			_ = store.Save(ctx, token)
		}

		sess := session.New(store, h.client)
		if err := sess.Hydrate(ctx); err != nil {
			handleError(w, r, err)
			return
		}

		if user := sess.CurrentUser(); user != nil {
			ctx = ctxlog.With(ctx, "user_id", user.ID)
		}
		next.ServeHTTP(w, r.WithContext(session.WithSession(ctx, sess)))
	})
}

// RequireAuthenticated rejects anonymous requests with 401.
func RequireAuthenticated(next http.Handler) http.Handler {
	return RequireCapability(nil)(next)
}

// RequireCapability rejects anonymous requests with 401 and requests whose
// session fails allowed with 403. A nil allowed admits any signed-in user.
func RequireCapability(allowed func(*session.Session) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromContext(r.Context())
			if !sess.IsAuthenticated() {
				httputil.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if allowed != nil && !allowed(sess) {
				httputil.Error(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionResponse describes the caller to the browser.
type SessionResponse struct {
	User         *domain.User         `json:"user,omitempty"`
	Capabilities session.Capabilities `json:"capabilities"`
}

// LoginResponse carries the token the browser must present on later calls.
type LoginResponse struct {
	AccessToken  string               `json:"access_token"`
	TokenType    string               `json:"token_type"`
	User         *domain.User         `json:"user"`
	Capabilities session.Capabilities `json:"capabilities"`
}

// GetSession handles GET /session request.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	httputil.Success(w, http.StatusOK, SessionResponse{
		User:         sess.CurrentUser(),
		Capabilities: sess.Capabilities(),
	})
}

// Login handles POST /auth/login request.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req apiclient.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	sess := session.New(session.NewMemoryStore(), h.client)
	if _, err := sess.Login(r.Context(), req.Email, req.Password); err != nil {
		handleError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, loginResponse(sess))
}

// Register handles POST /auth/register request.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req apiclient.RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	sess := session.New(session.NewMemoryStore(), h.client)
	if _, err := sess.Register(r.Context(), req); err != nil {
		handleError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusCreated, loginResponse(sess))
}

func loginResponse(sess *session.Session) LoginResponse {
	return LoginResponse{
		AccessToken:  sess.Token(),
		TokenType:    "bearer",
		User:         sess.CurrentUser(),
		Capabilities: sess.Capabilities(),
	}
}
