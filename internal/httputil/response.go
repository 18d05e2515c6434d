// Package httputil holds the JSON response helpers shared by the host and
// the modules.
package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/R3E-Network/modulith/pkg/logger"
	"github.com/R3E-Network/modulith/pkg/result"
)

// MaxBodyBytes bounds request bodies read by DecodeJSON.
const MaxBodyBytes = 1 << 20

// Body decoding failures.
var (
	ErrEmptyBody    = errors.New("request body is required")
	ErrInvalidJSON  = errors.New("request body is not valid JSON")
	ErrBodyTooLarge = errors.New("request body is too large")
)

// WriteJSON writes data as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes the host's plain {"error","message"} body, used by
// middleware that rejects a request before it reaches a module.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, map[string]string{"error": code, "message": message})
}

// DecodeJSON reads exactly one JSON value from the request body into dst.
// Anything but whitespace after the value is rejected.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return decodeError(err, ErrEmptyBody)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return decodeError(err, ErrInvalidJSON)
	}
	return nil
}

func decodeError(err, onEOF error) error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return ErrBodyTooLarge
	case errors.Is(err, io.EOF):
		return onEOF
	default:
		return ErrInvalidJSON
	}
}

// Problem is an RFC 9457 problem details body. Errors maps an error code to
// its messages.
type Problem struct {
	Type    string              `json:"type"`
	Title   string              `json:"title"`
	Status  int                 `json:"status"`
	Errors  map[string][]string `json:"errors,omitempty"`
	TraceID string              `json:"traceId,omitempty"`
}

var problemTypes = map[int]struct{ typ, title string }{
	http.StatusBadRequest:          {"https://tools.ietf.org/html/rfc9110#section-15.5.1", "One or more validation errors occurred."},
	http.StatusNotFound:            {"https://tools.ietf.org/html/rfc9110#section-15.5.5", "Not Found"},
	http.StatusInternalServerError: {"https://tools.ietf.org/html/rfc9110#section-15.6.1", "An error occurred while processing your request."},
}

// NewProblem builds the problem body for status, carrying failure (if any)
// and the request trace ID.
func NewProblem(r *http.Request, status int, failure *result.Error) Problem {
	meta, ok := problemTypes[status]
	if !ok {
		meta.title = http.StatusText(status)
	}
	p := Problem{
		Type:    meta.typ,
		Title:   meta.title,
		Status:  status,
		TraceID: logger.TraceID(r.Context()),
	}
	if failure != nil {
		p.Errors = map[string][]string{failure.Code: {failure.Message}}
	}
	return p
}

// WriteProblem writes an application/problem+json response.
func WriteProblem(w http.ResponseWriter, r *http.Request, status int, failure *result.Error) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(NewProblem(r, status, failure))
}
