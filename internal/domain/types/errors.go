package types

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrSRCodeTaken       = errors.New("SRCODE already registered")
	ErrCredentialsNeeded = errors.New("SRCODE and password are required")
	ErrInvalidCredential = errors.New("incorrect SRCODE or password")
	ErrForbidden         = errors.New("token does not belong to this SRCODE")
	ErrInvalidToken      = errors.New("invalid token")

	ErrUnknownDistrict = errors.New("unknown district")
	ErrRecordNotFound  = errors.New("fare record not found")
	ErrNotFound        = errors.New("requested item not found")
	ErrInvalidFare     = errors.New("invalid fare")

	// client side
	ErrStartLocationRequired = errors.New("start location is required")
	ErrNoFareResult          = errors.New("no fare result to save")
	ErrRequestInFlight       = errors.New("a request is already in flight")
	ErrInputsChanged         = errors.New("inputs changed while the request was in flight")
	ErrNotAuthenticated      = errors.New("not authenticated")
	ErrLoadFailed            = errors.New("dashboard load failed")
	ErrUnknownField          = errors.New("unknown form field")
)

// FieldError is a failure attributable to one input of the fare form.
type FieldError struct {
	Field   Field  `json:"field"`
	Message string `json:"error"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// UserMessage is the wording shown next to the field or in a notice.
func (e *FieldError) UserMessage() string {
	return e.Message
}

func NewFieldError(field Field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}
