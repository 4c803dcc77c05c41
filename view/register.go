package view

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/maney"
)

const minPasswordLength = maney.MinPasswordLength

// Register is the registration form.
type Register struct {
	lifecycle
	app     *App
	reg     maney.Registration
	message string
}

var _ Form = (*Register)(nil)

// NewRegister returns an empty registration form.
func NewRegister(app *App) *Register { return &Register{app: app} }

// RegisterState is what the registration form shows.
type RegisterState struct {
	Username    string
	Email       string
	HasPassword bool
	HasConfirm  bool
	Message     string
	Submitting  bool
}

func (v *Register) Mount(ctx context.Context) { v.mount() }

func (v *Register) State() RegisterState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return RegisterState{
		Username:    v.reg.Username,
		Email:       v.reg.Email,
		HasPassword: v.reg.Password != "",
		HasConfirm:  v.reg.Confirm != "",
		Message:     v.message,
		Submitting:  v.busy,
	}
}

// Set updates one of the username, email, password or confirm fields.
func (v *Register) Set(field, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch strings.ToLower(field) {
	case "username":
		v.reg.Username = value
	case "email":
		v.reg.Email = value
	case "password":
		v.reg.Password = value
	case "confirm", "confirmpassword":
		v.reg.Confirm = value
	default:
		return fmt.Errorf("register: %w %q", ErrUnknownField, field)
	}
	return nil
}

// Submit validates the form and creates the account. Invalid forms are
// rejected without any request. On success the login view is shown.
func (v *Register) Submit(ctx context.Context) error {
	var reg maney.Registration
	epoch, err := v.begin(func() {
		reg = v.reg
		v.message = ""
	})
	if err != nil {
		return err
	}

	if err := reg.Validate(); err != nil {
		v.end(epoch, func() { v.message = validationMessage(err) })
		return err
	}

	_, err = v.app.Backend.Register(ctx, reg)
	applied := v.end(epoch, func() {
		if err != nil {
			v.message = MsgRegistrationFailed
		}
	})
	if applied && err == nil {
		v.app.navigate(PathLogin)
	}
	return err
}

// Login goes to the login view.
func (v *Register) Login() { v.app.navigate(PathLogin) }

func validationMessage(err error) string {
	var verr *maney.ValidationError
	if !errors.As(err, &verr) {
		return MsgUnexpected
	}
	switch verr.Field {
	case "confirm":
		return MsgPasswordMismatch
	case "password":
		return MsgPasswordTooShort
	case "estimatedValue":
		return MsgNegativeValue
	}
	return verr.Error()
}
