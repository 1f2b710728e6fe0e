package apiclient

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/docvault-console/internal/models"
)

// Kind classifies a failed API call
type Kind int

const (
	KindTransport Kind = iota
	KindAuthentication
	KindValidation
	KindAuthorization
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	default:
		return "transport"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindAuthentication:
		return models.ErrAuthentication
	case KindValidation:
		return models.ErrValidation
	case KindAuthorization:
		return models.ErrAuthorization
	case KindNotFound:
		return models.ErrNotFound
	default:
		return models.ErrTransport
	}
}

// Error is returned by every failed Client call
type Error struct {
	Op      string // e.g. "DELETE /documents/3"
	Kind    Kind
	Status  int    // 0 when no response was received
	Message string // server-provided text, if any
	Err     error  // underlying transport or decoding error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s failure", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the models sentinel of the error kind
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// KindForStatus maps an HTTP status code to an error kind
func KindForStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized:
		return KindAuthentication
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity, http.StatusRequestEntityTooLarge:
		return KindValidation
	case http.StatusForbidden:
		return KindAuthorization
	case http.StatusNotFound:
		return KindNotFound
	default:
		return KindTransport
	}
}

// KindOf classifies any error produced by the client or by callers that
// wrap the models sentinels. Unknown errors are transport failures.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	switch {
	case errors.Is(err, models.ErrAuthentication), errors.Is(err, models.ErrNoSession):
		return KindAuthentication
	case errors.Is(err, models.ErrValidation):
		return KindValidation
	case errors.Is(err, models.ErrAuthorization):
		return KindAuthorization
	case errors.Is(err, models.ErrNotFound):
		return KindNotFound
	default:
		return KindTransport
	}
}
