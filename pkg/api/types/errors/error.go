package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ErrorMessage is the payload the term server responds with on failure.
//
// Cause stays on the server: it is logged, never sent.
type ErrorMessage struct {
	Reason string `json:"reason"`
	Advice string `json:"advice,omitempty"`
	Cause  error  `json:"-"`
}

var errNoReason = errors.New(`required field missing: "reason"`)

func (em *ErrorMessage) UnmarshalJSON(bytes []byte) error {
	var payload struct {
		Reason *string `json:"reason"`
		Advice string  `json:"advice"`
	}
	if err := json.Unmarshal(bytes, &payload); err != nil {
		return err
	}
	if payload.Reason == nil {
		return errNoReason
	}
	*em = ErrorMessage{Reason: *payload.Reason, Advice: payload.Advice}
	return nil
}

// MarshalJSON encodes reason and advice only.
//
// echo sends a json.Marshaler message as it is, but an error in {"message": ...} form.
func (e ErrorMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Reason string `json:"reason"`
		Advice string `json:"advice,omitempty"`
	}{Reason: e.Reason, Advice: e.Advice})
}

func (e ErrorMessage) String() string {
	b := new(strings.Builder)
	b.WriteString(e.Reason)
	if e.Advice != "" {
		b.WriteString("\n" + e.Advice)
	}
	if e.Cause != nil {
		b.WriteString("\n caused by:" + e.Cause.Error())
	}
	return b.String()
}

func (e ErrorMessage) Error() string {
	return e.String()
}

func (e ErrorMessage) Unwrap() error {
	return e.Cause
}

type ErrorMessageOption func(in *ErrorMessage) *ErrorMessage

func WithAdvice(advice string) ErrorMessageOption {
	return func(in *ErrorMessage) *ErrorMessage {
		if advice != "" {
			in.Advice = advice
		}
		return in
	}
}

func WithError(err error) ErrorMessageOption {
	return func(in *ErrorMessage) *ErrorMessage {
		if err != nil {
			in.Cause = err
		}
		return in
	}
}

// NewErrorMessage builds an echo error whose body is an ErrorMessage.
func NewErrorMessage(code int, reason string, opts ...ErrorMessageOption) *echo.HTTPError {
	msg := &ErrorMessage{Reason: reason}
	for _, opt := range opts {
		msg = opt(msg)
	}
	return echo.NewHTTPError(code, *msg).SetInternal(*msg)
}

// BadRequest is 400 for a request curate cannot make sense of: a malformed id, query or action.
func BadRequest(advice string, err error) *echo.HTTPError {
	return NewErrorMessage(http.StatusBadRequest, "bad request", WithAdvice(advice), WithError(err))
}

// Unauthorized is 401: the token is missing, broken or expired, or the password is wrong.
func Unauthorized(advice string) *echo.HTTPError {
	return NewErrorMessage(http.StatusUnauthorized, "authentication required", WithAdvice(advice))
}

// Forbidden is 403: the user has no role for it.
func Forbidden(reason string) *echo.HTTPError {
	return NewErrorMessage(http.StatusForbidden, reason)
}

// Conflict is 409: the workflow state does not allow it.
func Conflict(reason string, options ...ErrorMessageOption) *echo.HTTPError {
	return NewErrorMessage(http.StatusConflict, reason, options...)
}

func InternalServerError(err error) *echo.HTTPError {
	return NewErrorMessage(
		http.StatusInternalServerError,
		"unexpected error",
		WithAdvice("ask your term server admin."),
		WithError(err),
	)
}
