package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/logutils"
)

// Kind classifies a domain error. Handlers map kinds to HTTP statuses; the
// UI discriminates on the machine-readable code, never on the message.
type Kind string

const (
	KindValidation       Kind = "VALIDATION"
	KindUnauthorized     Kind = "UNAUTHORIZED"
	KindForbidden        Kind = "FORBIDDEN"
	KindNotFound         Kind = "NOT_FOUND"
	KindConflict         Kind = "CONFLICT"
	KindExpiredToken     Kind = "EXPIRED_TOKEN"
	KindUpstreamDelivery Kind = "UPSTREAM_DELIVERY"
	KindInternal         Kind = "INTERNAL"
)

var kindStatus = map[Kind]int{
	KindValidation:       http.StatusBadRequest,
	KindUnauthorized:     http.StatusUnauthorized,
	KindForbidden:        http.StatusForbidden,
	KindNotFound:         http.StatusNotFound,
	KindConflict:         http.StatusConflict,
	KindExpiredToken:     http.StatusGone,
	KindUpstreamDelivery: http.StatusBadGateway,
	KindInternal:         http.StatusInternalServerError,
}

var kindCode = map[Kind]string{
	KindValidation:       ErrCodeInvalidInput,
	KindUnauthorized:     ErrCodeUnauthorized,
	KindForbidden:        ErrCodeForbidden,
	KindNotFound:         ErrCodeNotFound,
	KindConflict:         ErrCodeConflict,
	KindExpiredToken:     ErrCodeExpiredToken,
	KindUpstreamDelivery: ErrCodeUpstreamDelivery,
	KindInternal:         ErrCodeInternalError,
}

// Error is a domain error carrying a kind, a machine-readable code and a
// message that is safe to show to the caller.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same kind and code, so sentinel values
// declared with New work with errors.Is even after wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// New creates an error of the given kind using the kind's default code.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Code: kindCode[kind], Message: message}
}

// NewWithCode creates an error of the given kind with a specific code.
func NewWithCode(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap attaches a cause to a copy of e.
func (e *Error) Wrap(err error) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: e.Message, Err: err}
}

// KindOf returns the kind of err, or KindInternal for errors that carry none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Respond writes err as an APIError. Errors without a kind are logged and
// reported as a generic internal error.
func Respond(c *gin.Context, err error) {
	var e *Error
	if !stderrors.As(err, &e) {
		logutils.Log.WithError(err).WithFields(logutils.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString(constants.ContextKeyRequestID),
		}).Error("unhandled error")
		InternalError(c, "")
		return
	}

	if e.Kind == KindInternal {
		logutils.Log.WithError(err).WithFields(logutils.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString(constants.ContextKeyRequestID),
		}).Error("internal error")
	}

	status, ok := kindStatus[e.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	code := e.Code
	if code == "" {
		code = kindCode[e.Kind]
	}
	RespondWithError(c, status, NewAPIError(code, e.Message))
}
