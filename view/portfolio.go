package view

import (
	"context"

	"github.com/etnz/maney"
	"github.com/etnz/maney/api"
)

// Portfolio lists the illiquid assets of the current user.
type Portfolio struct {
	lifecycle
	app       *App
	status    Status
	portfolio maney.Portfolio
	message   string
}

var _ View = (*Portfolio)(nil)

// NewPortfolio returns the portfolio view, not loaded yet.
func NewPortfolio(app *App) *Portfolio { return &Portfolio{app: app} }

// PortfolioState is what the portfolio view shows.
type PortfolioState struct {
	Status    Status
	User      maney.User
	Portfolio maney.Portfolio
	Message   string
}

// Mount fetches the portfolio. Users without a valid session are sent to the
// login view.
func (v *Portfolio) Mount(ctx context.Context) {
	epoch := v.mount()
	v.load(ctx, epoch)
}

// Reload fetches the portfolio again.
func (v *Portfolio) Reload(ctx context.Context) { v.load(ctx, v.current()) }

func (v *Portfolio) load(ctx context.Context, epoch int) {
	if !v.update(epoch, func() {
		v.status = Loading
		v.message = ""
	}) {
		return
	}

	p, err := v.app.Backend.Portfolio(ctx)
	applied := v.update(epoch, func() {
		if err == nil {
			v.status, v.portfolio = Ready, p
			return
		}
		v.status = Failed
		switch {
		case api.NeedsLogin(err):
		case api.KindOf(err) == api.KindNotFound:
			v.message = MsgPortfolioNotFound
		case isClassified(err):
			v.message = portfolioFetchFailed(api.StatusOf(err))
		default:
			v.message = MsgUnexpected
		}
	})
	if !applied {
		v.app.logger().Debug().Msg("portfolio result dropped, view is gone")
		return
	}
	if api.NeedsLogin(err) {
		v.app.navigate(PathLogin)
	}
}

func (v *Portfolio) State() PortfolioState {
	v.mu.Lock()
	defer v.mu.Unlock()
	var u maney.User
	if v.app.Session != nil {
		u, _ = v.app.Session.Current()
	}
	return PortfolioState{Status: v.status, User: u, Portfolio: v.portfolio, Message: v.message}
}

// Open shows the asset id.
func (v *Portfolio) Open(id int64) { v.app.navigate(AssetPath(id)) }

// New opens the asset editor in creation mode.
func (v *Portfolio) New() { v.app.navigate(PathNewAsset) }

// Logout ends the session.
func (v *Portfolio) Logout(ctx context.Context) error { return Logout(ctx, v.app) }
