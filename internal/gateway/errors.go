package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/bissquit/statusdash/internal/apiclient"
	"github.com/bissquit/statusdash/internal/pkg/httputil"
	"github.com/bissquit/statusdash/internal/uptime"
)

var errorMappings = []httputil.ErrorMapping{
	{Error: apiclient.ErrUnauthorized, Status: http.StatusUnauthorized},
	{Error: apiclient.ErrForbidden, Status: http.StatusForbidden},
	{Error: apiclient.ErrNotFound, Status: http.StatusNotFound},
	{Error: uptime.ErrUnknownPeriod, Status: http.StatusBadRequest},
	{Error: context.DeadlineExceeded, Status: http.StatusGatewayTimeout, Message: "upstream timeout"},
	{Error: apiclient.ErrNetwork, Status: http.StatusBadGateway, Message: "upstream unavailable"},
	{Error: apiclient.ErrServer, Status: http.StatusBadGateway, Message: "upstream error"},
	{Error: apiclient.ErrInvalidResponse, Status: http.StatusBadGateway, Message: "invalid upstream response"},
}

// handleError writes the HTTP response for an upstream or view-model error.
// Validation errors keep their field details.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *apiclient.ValidationError
	if errors.As(err, &verr) {
		fields := verr.Fields
		if fields == nil {
			fields = []apiclient.FieldError{}
		}
		msg := verr.Message
		if msg == "" {
			msg = "validation error"
		}
		httputil.ErrorDetails(w, http.StatusBadRequest, msg, fields)
		return
	}
	httputil.HandleError(r.Context(), w, err, errorMappings)
}
