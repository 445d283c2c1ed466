package httputil

import (
	"context"
	"errors"
	"net/http"

	"github.com/bissquit/statusdash/internal/pkg/ctxlog"
)

// ErrorMapping defines how an error maps to an HTTP response.
type ErrorMapping struct {
	Error   error
	Status  int
	Message string // if empty, uses err.Error()
}

// HandleError maps an error to an HTTP response using provided mappings.
// Mapped 5xx responses are logged as warnings since they usually reflect an
// upstream failure. If no mapping matches, logs the error and returns 500.
func HandleError(ctx context.Context, w http.ResponseWriter, err error, mappings []ErrorMapping) {
	for _, m := range mappings {
		if errors.Is(err, m.Error) {
			msg := m.Message
			if msg == "" {
				msg = err.Error()
			}
			if m.Status >= http.StatusInternalServerError {
				ctxlog.FromContext(ctx).Warn("upstream error", "status", m.Status, "error", err)
			}
			Error(w, m.Status, msg)
			return
		}
	}
	ctxlog.FromContext(ctx).Error("internal error", "error", err)
	Error(w, http.StatusInternalServerError, "internal error")
}
