// Package view implements one state machine per use case of the client:
// home, login, register, portfolio and the asset editor.
//
// Views own their form state and delegate every network call to the Backend.
// They never print anything: a shell renders their State after each action.
package view

import (
	"context"
	"errors"
	"strconv"

	"github.com/etnz/maney"
	"github.com/etnz/maney/logging"
	"github.com/etnz/maney/session"
)

// Paths of the views.
const (
	PathRoot      = "/"
	PathHome      = "/homepage"
	PathLogin     = "/login"
	PathRegister  = "/register"
	PathPortfolio = "/user/portfolio"
	PathAssets    = "/user/illiquid-asset"
	PathNewAsset  = PathAssets + "/" + NewAssetID
)

// NewAssetID is the asset path parameter selecting the creation mode.
const NewAssetID = "new"

// AssetPath returns the path of the asset id.
func AssetPath(id int64) string { return PathAssets + "/" + strconv.FormatInt(id, 10) }

// Backend is the set of remote operations views depend on.
type Backend interface {
	Login(ctx context.Context, cred maney.Credentials) (maney.User, error)
	Register(ctx context.Context, reg maney.Registration) (maney.User, error)
	Logout(ctx context.Context) error
	Portfolio(ctx context.Context) (maney.Portfolio, error)
	Asset(ctx context.Context, id int64) (maney.IlliquidAsset, error)
	CreateAsset(ctx context.Context, draft maney.IlliquidAsset) (maney.IlliquidAsset, error)
	UpdateAsset(ctx context.Context, id int64, draft maney.IlliquidAsset) (maney.IlliquidAsset, error)
	DeleteAsset(ctx context.Context, id int64) error
}

// Navigator moves the application to another path.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to a Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a function to a Confirmer.
type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

// App is the context shared by every view.
type App struct {
	Backend Backend
	Session session.Store
	Nav     Navigator
	Confirm Confirmer
	Log     *logging.Logger
}

func (a *App) navigate(path string) {
	if a.Nav != nil {
		a.Nav.Navigate(path)
	}
}

func (a *App) confirm(prompt string) bool {
	// without a way to ask, nothing destructive happens.
	return a.Confirm != nil && a.Confirm.Confirm(prompt)
}

func (a *App) logger() *logging.Logger {
	if a.Log == nil {
		return logging.Silent()
	}
	return a.Log
}

// View is the lifecycle every view implements.
type View interface {
	// Mount starts the view, fetching its data if it has any.
	Mount(ctx context.Context)
	// Unmount stops the view: pending results are discarded.
	Unmount()
}

// Form is a view with editable fields and a submit action.
type Form interface {
	View
	Set(field, value string) error
	Submit(ctx context.Context) error
}

var (
	// ErrBusy is returned when an action is triggered while the previous one is
	// still in flight.
	ErrBusy = errors.New("an operation is already in progress")
	// ErrUnknownField is returned when setting a field a form does not have.
	ErrUnknownField = errors.New("unknown field")
	// ErrReadOnly is returned when editing a form that is not in edit mode.
	ErrReadOnly = errors.New("not in edit mode")
)

// Status is the loading state of a view that fetches on mount.
type Status int

const (
	Loading Status = iota
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "status(" + strconv.Itoa(int(s)) + ")"
}

// Logout ends the session and sends the user to the login view, whatever the
// outcome of the request.
func Logout(ctx context.Context, app *App) error {
	err := app.Backend.Logout(ctx)
	if err != nil {
		app.logger().Warn().Err(err).Msg("logout request failed, local session cleared anyway")
	}
	app.navigate(PathLogin)
	return err
}
