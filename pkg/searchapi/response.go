package searchapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/searchkit/pkg/search"
)

// Response is the envelope of every API reply.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestError is a client mistake detected before reaching the registry.
type requestError struct{ msg string }

func (e requestError) Error() string { return e.msg }

func badRequest(msg string) error { return requestError{msg: msg} }

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, data any, meta map[string]any) {
	writeJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

func writeError(w http.ResponseWriter, err error) {
	status, detail := errorDetail(err)
	writeJSON(w, status, Response{Error: detail})
}

// errorDetail maps err to a status code and public error body.
func errorDetail(err error) (int, *ErrorDetail) {
	var reqErr requestError
	if errors.As(err, &reqErr) {
		return http.StatusBadRequest, &ErrorDetail{Code: "invalid_request", Message: reqErr.msg}
	}

	kind := search.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case search.KindConfiguration:
		status = http.StatusNotFound
	case search.KindInvalidDocument:
		status = http.StatusBadRequest
	case search.KindUnavailable:
		status = http.StatusServiceUnavailable
	case search.KindTransport:
		status = http.StatusBadGateway
	default:
		return status, &ErrorDetail{Code: "internal_error", Message: http.StatusText(status)}
	}
	return status, &ErrorDetail{Code: string(kind), Message: err.Error()}
}
