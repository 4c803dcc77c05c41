package view

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etnz/maney"
	"github.com/etnz/maney/api"
	"github.com/etnz/maney/session"
)

// fakeBackend records calls and answers with the configured functions.
type fakeBackend struct {
	mu    sync.Mutex
	calls []string
	store session.Store

	login     func(maney.Credentials) (maney.User, error)
	register  func(maney.Registration) (maney.User, error)
	logout    func() error
	portfolio func() (maney.Portfolio, error)
	asset     func(id int64) (maney.IlliquidAsset, error)
	create    func(maney.IlliquidAsset) (maney.IlliquidAsset, error)
	update    func(int64, maney.IlliquidAsset) (maney.IlliquidAsset, error)
	delete    func(int64) error
}

func (b *fakeBackend) record(call string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, call)
}

func (b *fakeBackend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *fakeBackend) Login(_ context.Context, c maney.Credentials) (maney.User, error) {
	b.record("login")
	u, err := b.login(c)
	if err == nil && b.store != nil {
		b.store.Save(u)
	}
	return u, err
}

func (b *fakeBackend) Register(_ context.Context, r maney.Registration) (maney.User, error) {
	b.record("register")
	return b.register(r)
}

func (b *fakeBackend) Logout(context.Context) error {
	b.record("logout")
	if b.store != nil {
		b.store.Clear()
	}
	if b.logout == nil {
		return nil
	}
	return b.logout()
}

func (b *fakeBackend) Portfolio(context.Context) (maney.Portfolio, error) {
	b.record("portfolio")
	return b.portfolio()
}

func (b *fakeBackend) Asset(_ context.Context, id int64) (maney.IlliquidAsset, error) {
	b.record("asset")
	return b.asset(id)
}

func (b *fakeBackend) CreateAsset(_ context.Context, a maney.IlliquidAsset) (maney.IlliquidAsset, error) {
	b.record("create")
	return b.create(a)
}

func (b *fakeBackend) UpdateAsset(_ context.Context, id int64, a maney.IlliquidAsset) (maney.IlliquidAsset, error) {
	b.record("update")
	return b.update(id, a)
}

func (b *fakeBackend) DeleteAsset(_ context.Context, id int64) error {
	b.record("delete")
	return b.delete(id)
}

// harness is an App wired to a fake backend, recording navigations.
type harness struct {
	*App
	backend  *fakeBackend
	paths    []string
	confirms []string
	answer   bool
}

func newHarness() *harness {
	h := &harness{}
	store := session.NewMemoryStore()
	h.backend = &fakeBackend{store: store}
	h.App = &App{
		Backend: h.backend,
		Session: store,
		Nav:     NavigatorFunc(func(p string) { h.paths = append(h.paths, p) }),
		Confirm: ConfirmerFunc(func(p string) bool {
			h.confirms = append(h.confirms, p)
			return h.answer
		}),
	}
	return h
}

func (h *harness) lastPath() string {
	if len(h.paths) == 0 {
		return ""
	}
	return h.paths[len(h.paths)-1]
}

func apiErr(op api.Op, kind api.Kind, status int) error {
	return &api.Error{Op: op, Kind: kind, Status: status}
}

var alice = maney.User{ID: 1, Username: "alice", Email: "alice@example.com"}

func TestLoginSuccess(t *testing.T) {
	h := newHarness()
	h.backend.login = func(c maney.Credentials) (maney.User, error) {
		assert.Equal(t, "alice@example.com", c.Email)
		assert.Equal(t, "secret", c.Password)
		return alice, nil
	}
	v := NewLogin(h.App)
	v.Mount(context.Background())
	require.NoError(t, v.Set("email", "alice@example.com"))
	require.NoError(t, v.Set("password", "secret"))

	require.NoError(t, v.Submit(context.Background()))

	u, ok := h.Session.Current()
	require.True(t, ok)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, []string{PathPortfolio}, h.paths)
	assert.Empty(t, v.State().Message)
}

func TestLoginUnauthorized(t *testing.T) {
	h := newHarness()
	h.backend.login = func(maney.Credentials) (maney.User, error) {
		return maney.User{}, apiErr(api.OpLogin, api.KindUnauthorized, 401)
	}
	v := NewLogin(h.App)
	v.Mount(context.Background())
	v.Set("email", "alice@example.com")
	v.Set("password", "wrong")

	err := v.Submit(context.Background())
	assert.Equal(t, api.KindUnauthorized, api.KindOf(err))

	_, ok := h.Session.Current()
	assert.False(t, ok, "no session must be written")
	assert.Equal(t, []string{PathLogin}, h.paths)
	st := v.State()
	assert.Equal(t, MsgInvalidLogin, st.Message)
	assert.False(t, st.HasPassword)
	assert.False(t, st.Submitting)
}

func TestLoginFailureStaysOnForm(t *testing.T) {
	h := newHarness()
	h.backend.login = func(maney.Credentials) (maney.User, error) {
		return maney.User{}, apiErr(api.OpLogin, api.KindLoginFailed, 500)
	}
	v := NewLogin(h.App)
	v.Mount(context.Background())

	assert.Error(t, v.Submit(context.Background()))
	assert.Empty(t, h.paths)
	assert.Equal(t, MsgInvalidLogin, v.State().Message)
}

func TestLoginUnknownField(t *testing.T) {
	v := NewLogin(newHarness().App)
	assert.ErrorIs(t, v.Set("age", "3"), ErrUnknownField)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name     string
		password string
		confirm  string
		message  string
		calls    int
	}{
		{"mismatch", "abcdef", "abcdeg", MsgPasswordMismatch, 0},
		{"short", "abc", "abc", MsgPasswordTooShort, 0},
		{"mismatch before length", "abc", "abd", MsgPasswordMismatch, 0},
		{"valid", "abcdef", "abcdef", "", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.backend.register = func(r maney.Registration) (maney.User, error) {
				assert.Equal(t, "bob", r.Username)
				return maney.User{ID: 2, Username: "bob"}, nil
			}
			v := NewRegister(h.App)
			v.Mount(context.Background())
			v.Set("username", "bob")
			v.Set("email", "bob@example.com")
			v.Set("password", tt.password)
			v.Set("confirm", tt.confirm)

			err := v.Submit(context.Background())
			assert.Len(t, h.backend.Calls(), tt.calls)
			assert.Equal(t, tt.message, v.State().Message)
			if tt.calls == 0 {
				var verr *maney.ValidationError
				assert.ErrorAs(t, err, &verr)
				assert.Empty(t, h.paths)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, []string{PathLogin}, h.paths)
			}
		})
	}
}

func TestRegisterFailure(t *testing.T) {
	h := newHarness()
	h.backend.register = func(maney.Registration) (maney.User, error) {
		return maney.User{}, apiErr(api.OpRegister, api.KindRegistrationFailed, 409)
	}
	v := NewRegister(h.App)
	v.Mount(context.Background())
	v.Set("password", "abcdef")
	v.Set("confirm", "abcdef")

	assert.Error(t, v.Submit(context.Background()))
	assert.Equal(t, MsgRegistrationFailed, v.State().Message)
	assert.Empty(t, h.paths)
}

func TestSubmitWhileBusy(t *testing.T) {
	h := newHarness()
	entered := make(chan struct{})
	release := make(chan struct{})
	h.backend.login = func(maney.Credentials) (maney.User, error) {
		close(entered)
		<-release
		return alice, nil
	}
	v := NewLogin(h.App)
	v.Mount(context.Background())

	done := make(chan error)
	go func() { done <- v.Submit(context.Background()) }()
	<-entered
	assert.True(t, v.State().Submitting)
	assert.ErrorIs(t, v.Submit(context.Background()), ErrBusy)
	close(release)
	assert.NoError(t, <-done)

	assert.Equal(t, []string{"login"}, h.backend.Calls())
	assert.False(t, v.State().Submitting)
}

func TestHome(t *testing.T) {
	h := newHarness()
	v := NewHome(h.App)
	v.Mount(context.Background())
	assert.False(t, v.State().LoggedIn)

	h.Session.Save(alice)
	v.Mount(context.Background())
	st := v.State()
	assert.True(t, st.LoggedIn)
	assert.Equal(t, "alice", st.User.Username)

	v.Register()
	v.Login()
	assert.Equal(t, []string{PathRegister, PathLogin}, h.paths)
}

func TestPortfolioLoad(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  Status
		message string
		paths   []string
	}{
		{"ok", nil, Ready, "", nil},
		{"unauthorized", apiErr(api.OpPortfolio, api.KindUnauthorized, 401), Failed, "", []string{PathLogin}},
		{"forbidden", apiErr(api.OpPortfolio, api.KindForbidden, 403), Failed, "", []string{PathLogin}},
		{"not found", apiErr(api.OpPortfolio, api.KindNotFound, 404), Failed, MsgPortfolioNotFound, nil},
		{"server error", apiErr(api.OpPortfolio, api.KindFetchFailed, 502), Failed, "Failed to fetch portfolio: 502", nil},
		{"network", apiErr(api.OpPortfolio, api.KindNetwork, 0), Failed, MsgUnexpected, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.backend.portfolio = func() (maney.Portfolio, error) {
				if tt.err != nil {
					return maney.Portfolio{}, tt.err
				}
				return maney.Portfolio{ID: 3, IlliquidAssets: []maney.IlliquidAsset{
					{ID: 7, Name: "House", EstimatedValue: maney.V(300000)},
					{ID: 8, Name: "Car", EstimatedValue: maney.V(12000.5)},
				}}, nil
			}
			v := NewPortfolio(h.App)
			v.Mount(context.Background())

			st := v.State()
			assert.Equal(t, tt.status, st.Status)
			assert.Equal(t, tt.message, st.Message)
			assert.Equal(t, tt.paths, h.paths)
			assert.Equal(t, []string{"portfolio"}, h.backend.Calls())
			if tt.status == Ready {
				assert.Len(t, st.Portfolio.IlliquidAssets, 2)
				assert.Equal(t, "312000.5", st.Portfolio.Total().String())
			}
		})
	}
}

func TestPortfolioActions(t *testing.T) {
	h := newHarness()
	h.Session.Save(alice)
	h.backend.portfolio = func() (maney.Portfolio, error) { return maney.Portfolio{ID: 1}, nil }
	v := NewPortfolio(h.App)
	v.Mount(context.Background())
	assert.Equal(t, "alice", v.State().User.Username)

	v.Open(7)
	v.New()
	require.NoError(t, v.Logout(context.Background()))
	assert.Equal(t, []string{"/user/illiquid-asset/7", PathNewAsset, PathLogin}, h.paths)
	_, ok := h.Session.Current()
	assert.False(t, ok)
}

func TestLogoutFailureStillNavigates(t *testing.T) {
	h := newHarness()
	h.backend.logout = func() error { return apiErr(api.OpLogout, api.KindNetwork, 0) }
	assert.Error(t, Logout(context.Background(), h.App))
	assert.Equal(t, []string{PathLogin}, h.paths)
}

func TestResultAfterUnmountIsDropped(t *testing.T) {
	h := newHarness()
	entered := make(chan struct{})
	release := make(chan struct{})
	h.backend.portfolio = func() (maney.Portfolio, error) {
		close(entered)
		<-release
		return maney.Portfolio{}, apiErr(api.OpPortfolio, api.KindUnauthorized, 401)
	}
	v := NewPortfolio(h.App)
	done := make(chan struct{})
	go func() {
		v.Mount(context.Background())
		close(done)
	}()
	<-entered
	v.Unmount()
	close(release)
	<-done

	assert.Equal(t, Loading, v.State().Status)
	assert.Empty(t, h.paths, "a gone view must not navigate")
}

func painting(id int64) maney.IlliquidAsset {
	return maney.IlliquidAsset{ID: id, Name: "Painting", Description: "Oil on canvas", EstimatedValue: maney.V(1500)}
}

func TestAssetCreate(t *testing.T) {
	h := newHarness()
	h.backend.create = func(a maney.IlliquidAsset) (maney.IlliquidAsset, error) {
		assert.True(t, a.IsNew())
		a.ID = 42
		return a, nil
	}
	v := NewAsset(h.App, NewAssetID)
	v.Mount(context.Background())
	st := v.State()
	require.True(t, st.New)
	require.Equal(t, EditMode, st.Mode)
	require.Empty(t, h.backend.Calls(), "new assets are not fetched")

	v.Set("name", "Painting")
	v.Set("description", "Oil on canvas")
	v.Set("estimatedValue", "1500")
	require.NoError(t, v.Save(context.Background()))

	assert.Equal(t, []string{"create"}, h.backend.Calls())
	assert.Equal(t, []string{"/user/illiquid-asset/42"}, h.paths)
	st = v.State()
	assert.True(t, st.New, "identity is fixed at mount")
	assert.Equal(t, ViewMode, st.Mode)
}

func TestAssetCreateUnparsableValue(t *testing.T) {
	h := newHarness()
	var got maney.IlliquidAsset
	h.backend.create = func(a maney.IlliquidAsset) (maney.IlliquidAsset, error) {
		got = a
		a.ID = 1
		return a, nil
	}
	v := NewAsset(h.App, NewAssetID)
	v.Mount(context.Background())
	v.Set("name", "Stamp")
	v.Set("estimatedValue", "a lot")
	require.NoError(t, v.Save(context.Background()))
	assert.True(t, got.EstimatedValue.IsZero())
}

func TestAssetNegativeValue(t *testing.T) {
	h := newHarness()
	v := NewAsset(h.App, NewAssetID)
	v.Mount(context.Background())
	v.Set("estimatedValue", "-3")

	var verr *maney.ValidationError
	assert.ErrorAs(t, v.Save(context.Background()), &verr)
	assert.Empty(t, h.backend.Calls())
	assert.Equal(t, MsgNegativeValue, v.State().Message)
}

func TestAssetFetch(t *testing.T) {
	tests := []struct {
		name    string
		param   string
		err     error
		status  Status
		message string
		paths   []string
		calls   int
	}{
		{"ok", "7", nil, Ready, "", nil, 1},
		{"not found", "7", apiErr(api.OpAsset, api.KindNotFound, 404), Failed, MsgAssetNotFound, nil, 1},
		{"unauthorized", "7", apiErr(api.OpAsset, api.KindUnauthorized, 401), Failed, "", []string{PathLogin}, 1},
		{"server error", "7", apiErr(api.OpAsset, api.KindFetchFailed, 500), Failed, MsgAssetFetchFailed, nil, 1},
		{"malformed", "7", apiErr(api.OpAsset, api.KindMalformed, 200), Failed, MsgUnexpected, nil, 1},
		{"bad id", "seven", nil, Failed, MsgAssetNotFound, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.backend.asset = func(id int64) (maney.IlliquidAsset, error) {
				assert.EqualValues(t, 7, id)
				if tt.err != nil {
					return maney.IlliquidAsset{}, tt.err
				}
				return painting(7), nil
			}
			v := NewAsset(h.App, tt.param)
			v.Mount(context.Background())

			st := v.State()
			assert.Equal(t, tt.status, st.Status)
			assert.Equal(t, tt.message, st.Message)
			assert.Equal(t, ViewMode, st.Mode)
			assert.Equal(t, tt.paths, h.paths)
			assert.Len(t, h.backend.Calls(), tt.calls)
		})
	}
}

func TestAssetEditRoundTrip(t *testing.T) {
	h := newHarness()
	h.backend.asset = func(id int64) (maney.IlliquidAsset, error) { return painting(id), nil }
	var sent maney.IlliquidAsset
	h.backend.update = func(id int64, a maney.IlliquidAsset) (maney.IlliquidAsset, error) {
		assert.EqualValues(t, 7, id)
		sent = a
		return a, nil
	}
	v := NewAsset(h.App, "7")
	v.Mount(context.Background())

	assert.ErrorIs(t, v.Set("name", "Sculpture"), ErrReadOnly)
	require.NoError(t, v.Edit())
	require.NoError(t, v.Set("name", "Sculpture"))
	require.NoError(t, v.Set("estimatedValue", "2000"))
	require.NoError(t, v.Save(context.Background()))

	assert.EqualValues(t, 7, sent.ID)
	st := v.State()
	assert.Equal(t, ViewMode, st.Mode)
	assert.Equal(t, "Sculpture", st.Asset.Name)
	assert.Equal(t, "Oil on canvas", st.Asset.Description)
	assert.Equal(t, "2000", st.Asset.EstimatedValue.String())
	assert.Empty(t, h.paths)
	assert.Equal(t, []string{"asset", "update"}, h.backend.Calls())
}

func TestAssetSaveFailureKeepsEditing(t *testing.T) {
	h := newHarness()
	h.backend.asset = func(id int64) (maney.IlliquidAsset, error) { return painting(id), nil }
	h.backend.update = func(int64, maney.IlliquidAsset) (maney.IlliquidAsset, error) {
		return maney.IlliquidAsset{}, apiErr(api.OpUpdateAsset, api.KindSaveFailed, 500)
	}
	v := NewAsset(h.App, "7")
	v.Mount(context.Background())
	v.Edit()
	v.Set("name", "Sculpture")

	assert.Error(t, v.Save(context.Background()))
	st := v.State()
	assert.Equal(t, EditMode, st.Mode)
	assert.Equal(t, "Sculpture", st.Draft.Name)
	assert.Equal(t, MsgAssetSaveFailed, st.Message)
}

func TestAssetCancelRefetches(t *testing.T) {
	h := newHarness()
	h.backend.asset = func(id int64) (maney.IlliquidAsset, error) { return painting(id), nil }
	v := NewAsset(h.App, "7")
	v.Mount(context.Background())
	v.Edit()
	v.Set("name", "Sculpture")

	v.Cancel(context.Background())
	st := v.State()
	assert.Equal(t, ViewMode, st.Mode)
	assert.Equal(t, "Painting", st.Draft.Name)
	assert.Equal(t, []string{"asset", "asset"}, h.backend.Calls())
}

func TestAssetDelete(t *testing.T) {
	for _, confirm := range []bool{false, true} {
		h := newHarness()
		h.answer = confirm
		h.backend.asset = func(id int64) (maney.IlliquidAsset, error) { return painting(id), nil }
		h.backend.delete = func(id int64) error { return nil }
		v := NewAsset(h.App, "7")
		v.Mount(context.Background())

		require.NoError(t, v.Delete(context.Background()))
		require.Equal(t, []string{"Delete asset Painting?"}, h.confirms)

		if !confirm {
			assert.Equal(t, []string{"asset"}, h.backend.Calls())
			assert.Empty(t, h.paths)
			assert.Equal(t, Ready, v.State().Status)
			continue
		}
		assert.Equal(t, []string{"asset", "delete"}, h.backend.Calls())
		assert.Equal(t, []string{PathPortfolio}, h.paths)
	}
}

func TestAssetDeleteFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server error", apiErr(api.OpDeleteAsset, api.KindDeleteFailed, 500), MsgAssetDeleteFailed},
		{"not found", apiErr(api.OpDeleteAsset, api.KindNotFound, 404), MsgAssetNotFound},
		{"network", &api.Error{Op: api.OpDeleteAsset, Kind: api.KindNetwork}, MsgAssetDeleteFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.answer = true
			h.backend.asset = func(id int64) (maney.IlliquidAsset, error) { return painting(id), nil }
			h.backend.delete = func(int64) error { return tt.err }
			v := NewAsset(h.App, "7")
			v.Mount(context.Background())

			assert.Error(t, v.Delete(context.Background()))
			assert.Empty(t, h.paths)
			assert.Equal(t, tt.want, v.State().Message)
		})
	}
}

func TestAssetBack(t *testing.T) {
	h := newHarness()
	v := NewAsset(h.App, NewAssetID)
	v.Mount(context.Background())
	v.Back()
	v.Cancel(context.Background())
	assert.Equal(t, []string{PathPortfolio, PathPortfolio}, h.paths)
}

// TestCreateThroughClient runs the asset editor against the real client and a
// fake backend server: one token fetch then one POST with the form body.
func TestCreateThroughClient(t *testing.T) {
	var mu sync.Mutex
	var seq []string
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		seq = append(seq, r.Method+" "+r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/csrf":
			w.WriteHeader(http.StatusInternalServerError)
		case "/user/illiquid-asset":
			data, _ := io.ReadAll(r.Body)
			json.Unmarshal(data, &body)
			w.WriteHeader(http.StatusCreated)
			io.WriteString(w, `{"id":42,"name":"Painting","description":"Oil on canvas","estimatedValue":1500.0}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client, err := api.New(api.Config{BaseURL: srv.URL})
	require.NoError(t, err)
	var paths []string
	app := &App{Backend: client, Session: client.Session(), Nav: NavigatorFunc(func(p string) { paths = append(paths, p) })}

	v := NewAsset(app, NewAssetID)
	v.Mount(context.Background())
	v.Set("name", "Painting")
	v.Set("description", "Oil on canvas")
	v.Set("estimatedValue", "1500")
	require.NoError(t, v.Save(context.Background()))

	assert.Equal(t, []string{"GET /api/csrf", "POST /user/illiquid-asset"}, seq)
	assert.Equal(t, map[string]any{"name": "Painting", "description": "Oil on canvas", "estimatedValue": 1500.0}, body)
	assert.Equal(t, []string{"/user/illiquid-asset/42"}, paths)
}
