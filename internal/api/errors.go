// internal/api/errors.go
//
// Fault taxonomy → HTTP status mapping.
//
// Every rejection carries enough detail for an actionable message, so the
// response body always includes the core's own error text.  MalformedGraph
// additionally logs at ERROR: it signals prior data corruption, not a bad
// request.
package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/seonet/internal/netlock"
	"github.com/yanizio/seonet/internal/structure"
)

type errBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Field string `json:"field,omitempty"`
	Rule  string `json:"rule,omitempty"`
}

// writeError maps a core fault onto a status code and structured body.
func writeError(w http.ResponseWriter, err error) {
	var (
		ve *structure.ValidationError
		iv *structure.InvariantViolation
		mg *structure.MalformedGraph
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, errBody{
			Error: ve.Error(), Kind: "validation", Field: ve.Field,
		})
	case errors.As(err, &iv):
		writeJSON(w, http.StatusConflict, errBody{
			Error: iv.Error(), Kind: "invariant", Rule: iv.Rule,
		})
	case errors.Is(err, structure.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errBody{
			Error: "not found", Kind: "not_found",
		})
	case errors.Is(err, netlock.ErrBusy):
		writeJSON(w, http.StatusServiceUnavailable, errBody{
			Error: "network busy, retry shortly", Kind: "busy",
		})
	case errors.As(err, &mg):
		zap.S().Errorw("malformed graph surfaced to API", "err", err)
		writeJSON(w, http.StatusInternalServerError, errBody{
			Error: mg.Error(), Kind: "malformed_graph",
		})
	default:
		zap.S().Errorw("unhandled API error", "err", err)
		writeJSON(w, http.StatusInternalServerError, errBody{
			Error: "internal error", Kind: "internal",
		})
	}
}
