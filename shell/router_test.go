package shell

import (
	"testing"

	"github.com/etnz/maney/view"
)

func TestRouterMatch(t *testing.T) {
	tests := []struct {
		path     string
		wantPath string
		wantType string
		wantID   string
	}{
		{"/homepage", "/homepage", "*view.Home", ""},
		{"/login", "/login", "*view.Login", ""},
		{"/register", "/register", "*view.Register", ""},
		{"/user/portfolio", "/user/portfolio", "*view.Portfolio", ""},
		{"/user/illiquid-asset/new", "/user/illiquid-asset/new", "*view.Asset", "new"},
		{"/user/illiquid-asset/42", "/user/illiquid-asset/42", "*view.Asset", "42"},
		{"/", "/homepage", "*view.Home", ""},
		{"", "/homepage", "*view.Home", ""},
		{"/nowhere", "/homepage", "*view.Home", ""},
		{"/user/illiquid-asset", "/homepage", "*view.Home", ""},
		{"/user/illiquid-asset/1/2", "/homepage", "*view.Home", ""},
	}
	r := NewRouter()
	app := &view.App{}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			f, vars, path := r.Match(tt.path)
			if path != tt.wantPath {
				t.Errorf("Match(%q) path = %q, want %q", tt.path, path, tt.wantPath)
			}
			if f == nil {
				t.Fatalf("Match(%q) returned no factory", tt.path)
			}
			if got := typeName(f(app, vars)); got != tt.wantType {
				t.Errorf("Match(%q) view = %s, want %s", tt.path, got, tt.wantType)
			}
			if vars["id"] != tt.wantID {
				t.Errorf("Match(%q) id = %q, want %q", tt.path, vars["id"], tt.wantID)
			}
		})
	}
}

func typeName(v view.View) string {
	switch v.(type) {
	case *view.Home:
		return "*view.Home"
	case *view.Login:
		return "*view.Login"
	case *view.Register:
		return "*view.Register"
	case *view.Portfolio:
		return "*view.Portfolio"
	case *view.Asset:
		return "*view.Asset"
	}
	return "unknown"
}

func TestTheme(t *testing.T) {
	tests := []struct {
		in      string
		want    Theme
		wantErr bool
	}{
		{"light", Light, false},
		{"dark", Dark, false},
		{"", Light, false},
		{"pink", "", true},
	}
	for _, tt := range tests {
		got, err := ParseTheme(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTheme(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseTheme(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if Light.Toggle() != Dark || Dark.Toggle() != Light {
		t.Error("Toggle() does not alternate")
	}
	if Dark.Style() != "dark" || Light.Style() != "light" {
		t.Error("Style() does not follow the theme")
	}
}
