package view

import (
	"context"

	"github.com/etnz/maney"
)

// Home is the landing view.
type Home struct {
	lifecycle
	app  *App
	user maney.User
}

var _ View = (*Home)(nil)

// NewHome returns the landing view.
func NewHome(app *App) *Home { return &Home{app: app} }

// HomeState is what the landing view shows.
type HomeState struct {
	User     maney.User
	LoggedIn bool
}

// Mount reads the current user from the session store.
func (v *Home) Mount(ctx context.Context) {
	epoch := v.mount()
	var u maney.User
	if v.app.Session != nil {
		u, _ = v.app.Session.Current()
	}
	v.update(epoch, func() { v.user = u })
}

func (v *Home) State() HomeState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return HomeState{User: v.user, LoggedIn: !v.user.IsZero()}
}

// Login goes to the login view.
func (v *Home) Login() { v.app.navigate(PathLogin) }

// Register goes to the registration view.
func (v *Home) Register() { v.app.navigate(PathRegister) }
