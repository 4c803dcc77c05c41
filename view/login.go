package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/maney"
	"github.com/etnz/maney/api"
)

// Login is the login form.
type Login struct {
	lifecycle
	app     *App
	cred    maney.Credentials
	message string
}

var _ Form = (*Login)(nil)

// NewLogin returns an empty login form.
func NewLogin(app *App) *Login { return &Login{app: app} }

// LoginState is what the login form shows. The password is never exposed.
type LoginState struct {
	Email       string
	Username    string
	HasPassword bool
	Message     string
	Submitting  bool
}

func (v *Login) Mount(ctx context.Context) { v.mount() }

func (v *Login) State() LoginState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return LoginState{
		Email:       v.cred.Email,
		Username:    v.cred.Username,
		HasPassword: v.cred.Password != "",
		Message:     v.message,
		Submitting:  v.busy,
	}
}

// Set updates one of the email, username or password fields.
func (v *Login) Set(field, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch strings.ToLower(field) {
	case "email":
		v.cred.Email = value
	case "username":
		v.cred.Username = value
	case "password":
		v.cred.Password = value
	default:
		return fmt.Errorf("login: %w %q", ErrUnknownField, field)
	}
	return nil
}

// Submit logs in. On success the session store holds the user and the
// portfolio view is shown.
func (v *Login) Submit(ctx context.Context) error {
	var cred maney.Credentials
	epoch, err := v.begin(func() {
		cred = v.cred
		v.message = ""
	})
	if err != nil {
		return err
	}

	_, err = v.app.Backend.Login(ctx, cred)
	applied := v.end(epoch, func() {
		if err != nil {
			v.message = MsgInvalidLogin
			v.cred.Password = ""
		}
	})
	if !applied {
		return err
	}
	switch {
	case err == nil:
		v.app.navigate(PathPortfolio)
	case api.KindOf(err) == api.KindUnauthorized:
		v.app.navigate(PathLogin)
	default:
		v.app.logger().Debug().Err(err).Msg("login failed")
	}
	return err
}

// Register goes to the registration view.
func (v *Login) Register() { v.app.navigate(PathRegister) }
