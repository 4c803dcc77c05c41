package maney

import "fmt"

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// Credentials are submitted to log in. They are never persisted.
//
// Backends identify users either by email or by username: only non empty
// fields are sent.
type Credentials struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
}

// Registration holds the registration form.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Confirm  string `json:"-"`
}

// ValidationError is a client side rejection. No request is sent when one occurs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the registration form before it is submitted.
func (r Registration) Validate() error {
	if r.Password != r.Confirm {
		return &ValidationError{Field: "confirm", Reason: "passwords do not match"}
	}
	if len(r.Password) < MinPasswordLength {
		return &ValidationError{Field: "password", Reason: fmt.Sprintf("must contain at least %d characters", MinPasswordLength)}
	}
	return nil
}
