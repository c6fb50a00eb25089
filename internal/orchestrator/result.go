package orchestrator

import (
	"net/http"

	"github.com/mcncl/contentjson/internal/models"
)

// Status is the outcome category of a render request.
type Status int

const (
	StatusOK Status = iota
	StatusBadRequest
	StatusNotFound
	StatusInternalError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusBadRequest:
		return "bad_request"
	case StatusNotFound:
		return "not_found"
	case StatusInternalError:
		return "internal_error"
	default:
		return "unknown"
	}
}

// HTTPStatus maps the status to an HTTP status code.
func (s Status) HTTPStatus() int {
	switch s {
	case StatusOK:
		return http.StatusOK
	case StatusBadRequest:
		return http.StatusBadRequest
	case StatusNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Result is the outcome of one render request. Message is set for every
// non-OK status; Payload is the empty object in that case.
type Result struct {
	Payload models.JSONValue
	Status  Status
	Message string
}

// OK reports whether the request succeeded.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

func success(payload models.JSONValue) Result {
	return Result{Payload: payload, Status: StatusOK}
}

func failure(status Status, message string) Result {
	return Result{Payload: models.EmptyObject(), Status: status, Message: message}
}
