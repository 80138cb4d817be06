// Package respond shapes every HTTP response in the API into one envelope:
//
//	{code, error?, identifier?, debugErrorDescription?, data?,
//	 isServerGeneratedError?, isUserShowableErrorMessage?}
//
// Handlers never write bare payloads or bare errors; 2xx and non-2xx
// responses share this single JSON shape.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/noteskit/noteskit/internal/apperror"
)

// Envelope is the wire form. The error fields appear only when a rendered
// reason is non-empty; the two boolean flags only accompany an error.
type Envelope struct {
	Code                       int             `json:"code"`
	Error                      string          `json:"error,omitempty"`
	Identifier                 string          `json:"identifier,omitempty"`
	DebugErrorDescription      string          `json:"debugErrorDescription,omitempty"`
	Data                       json.RawMessage `json:"data,omitempty"`
	IsServerGeneratedError     *bool           `json:"isServerGeneratedError,omitempty"`
	IsUserShowableErrorMessage *bool           `json:"isUserShowableErrorMessage,omitempty"`
}

// Success writes a 2xx envelope around data. If the payload cannot be
// serialized the response collapses to a plain error envelope carrying the
// serialization failure text.
func Success(w http.ResponseWriter, status int, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		Failure(w, http.StatusInternalServerError, apperror.Wrap(err))
		return
	}
	write(w, status, Envelope{Code: status, Data: raw})
}

// Failure writes an error envelope for a domain or client error.
func Failure(w http.ResponseWriter, status int, msg *apperror.Message) {
	write(w, status, errorEnvelope(status, msg, false))
}

// ServerFailure writes an error envelope flagged as server-generated; the
// fallback middleware uses it for panics and un-enveloped errors.
func ServerFailure(w http.ResponseWriter, status int, msg *apperror.Message) {
	write(w, status, errorEnvelope(status, msg, true))
}

func errorEnvelope(status int, msg *apperror.Message, serverGenerated bool) Envelope {
	env := Envelope{Code: status}
	reason := msg.Reason()
	if reason == "" {
		return env
	}
	env.Error = reason
	env.Identifier = msg.Identifier()
	env.DebugErrorDescription = msg.DebugDescription()
	showable := msg.UserShowable()
	env.IsServerGeneratedError = &serverGenerated
	env.IsUserShowableErrorMessage = &showable
	return env
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		// Headers are already out; nothing left to do but log it.
		slog.Error("failed to encode response envelope", slog.String("error", err.Error()))
	}
}
