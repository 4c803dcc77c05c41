package shell

import (
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/etnz/maney/view"
)

// Factory creates the view of a route from the path variables.
type Factory func(app *view.App, vars map[string]string) view.View

// Router maps paths to views.
//
// "/" and every unknown path redirect to the landing view. Protected paths are
// not guarded here: their views redirect to the login view when the backend
// refuses the session.
type Router struct {
	mux       *mux.Router
	factories map[string]Factory
	fallback  string
}

// NewRouter returns the path table of the client.
func NewRouter() *Router {
	r := &Router{mux: mux.NewRouter(), factories: make(map[string]Factory), fallback: view.PathHome}
	r.Handle(view.PathHome, func(app *view.App, _ map[string]string) view.View { return view.NewHome(app) })
	r.Handle(view.PathLogin, func(app *view.App, _ map[string]string) view.View { return view.NewLogin(app) })
	r.Handle(view.PathRegister, func(app *view.App, _ map[string]string) view.View { return view.NewRegister(app) })
	r.Handle(view.PathPortfolio, func(app *view.App, _ map[string]string) view.View { return view.NewPortfolio(app) })
	r.Handle(view.PathAssets+"/{id}", func(app *view.App, vars map[string]string) view.View {
		return view.NewAsset(app, vars["id"])
	})
	return r
}

// Handle registers the view factory for pattern, in gorilla/mux syntax.
func (r *Router) Handle(pattern string, f Factory) {
	r.mux.NewRoute().Path(pattern).Name(pattern)
	r.factories[pattern] = f
}

// Match returns the factory and variables for path, and the path actually
// served after redirects.
func (r *Router) Match(path string) (Factory, map[string]string, string) {
	if f, vars, ok := r.match(path); ok {
		return f, vars, path
	}
	f, vars, _ := r.match(r.fallback)
	return f, vars, r.fallback
}

func (r *Router) match(path string) (Factory, map[string]string, bool) {
	u, err := url.Parse(path)
	if err != nil || u.Path == "" {
		return nil, nil, false
	}
	req := &http.Request{Method: http.MethodGet, URL: u}
	var m mux.RouteMatch
	if !r.mux.Match(req, &m) || m.Route == nil {
		return nil, nil, false
	}
	f, ok := r.factories[m.Route.GetName()]
	return f, m.Vars, ok
}
