package models

import "errors"

// ErrorKind classifies a failed fetch for the UI layer.
type ErrorKind string

const (
	KindCityNotFound        ErrorKind = "city_not_found"
	KindLocationUnavailable ErrorKind = "location_unavailable"
	KindMalformedResponse   ErrorKind = "malformed_response"
	KindAPIFailure          ErrorKind = "api_failure"
)

// UnknownErrorMessage is used when the upstream returned no structured error
// body at all (transport failure, unreadable body).
const UnknownErrorMessage = "Unknown error occurred"

// APIError is the uniform failure shape surfaced to the UI: a display
// message and, when the upstream produced one, its HTTP status as a string.
// Platform geolocation failures carry the numeric geolocation code instead.
// No stack or internal detail crosses this boundary.
type APIError struct {
	Kind    ErrorKind `json:"-"`
	Message string    `json:"message" example:"city not found"`
	Code    string    `json:"code,omitempty" example:"404"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return e.Message + " (code " + e.Code + ")"
	}
	return e.Message
}

func NewCityNotFound(message, code string) *APIError {
	return &APIError{Kind: KindCityNotFound, Message: message, Code: code}
}

func NewLocationUnavailable(message, code string) *APIError {
	return &APIError{Kind: KindLocationUnavailable, Message: message, Code: code}
}

func NewMalformedResponse(message string) *APIError {
	return &APIError{Kind: KindMalformedResponse, Message: message}
}

func NewAPIFailure(message, code string) *APIError {
	if message == "" {
		message = UnknownErrorMessage
	}
	return &APIError{Kind: KindAPIFailure, Message: message, Code: code}
}

// AsAPIError unwraps err into an *APIError, wrapping arbitrary errors into
// the APIFailure kind so the UI always has something displayable.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewAPIFailure(err.Error(), "")
}

// IsKind reports whether err is an APIError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}
