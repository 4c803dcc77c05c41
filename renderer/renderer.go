// Package renderer turns the state of every view into markdown.
package renderer

import (
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/microcosm-cc/bluemonday"

	"github.com/etnz/maney"
	"github.com/etnz/maney/view"
)

// strict strips any markup from backend supplied text before it reaches the
// terminal.
var strict = bluemonday.StrictPolicy()

var funcs = template.FuncMap{
	"clean":       clean,
	"cell":        cell,
	"money":       func(v maney.Value) string { return v.Display() },
	"minPassword": func() int { return maney.MinPasswordLength },
}

// clean removes html from s.
func clean(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// cell cleans s and makes it fit in a single markdown table cell.
func cell(s string) string {
	s = clean(s)
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

var message = map[string]string{"message": "message.md"}

// RenderHome renders the landing view.
func RenderHome(s view.HomeState) string {
	return renderTemplate("home", "home.md", nil, s)
}

// RenderLogin renders the login form.
func RenderLogin(s view.LoginState) string {
	return renderTemplate("login", "login.md", message, s)
}

// RenderRegister renders the registration form.
func RenderRegister(s view.RegisterState) string {
	return renderTemplate("register", "register.md", message, s)
}

// RenderPortfolio renders the portfolio view.
func RenderPortfolio(s view.PortfolioState) string {
	partials := map[string]string{
		"message":          "message.md",
		"portfolio_title":  "portfolio_title.md",
		"portfolio_assets": "portfolio_assets.md",
	}
	return renderTemplate("portfolio", "portfolio.md", partials, s)
}

// RenderAsset renders the asset editor.
func RenderAsset(s view.AssetState) string {
	partials := map[string]string{
		"message":     "message.md",
		"asset_title": "asset_title.md",
	}
	// The body depends on the mode: a table of values, or of draft fields.
	if s.Mode == view.EditMode {
		partials["asset_body"] = "asset_edit.md"
	} else {
		partials["asset_body"] = "asset_view.md"
	}
	return renderTemplate("asset", "asset.md", partials, s)
}

// Render renders any view.
func Render(v view.View) string {
	switch v := v.(type) {
	case *view.Home:
		return RenderHome(v.State())
	case *view.Login:
		return RenderLogin(v.State())
	case *view.Register:
		return RenderRegister(v.State())
	case *view.Portfolio:
		return RenderPortfolio(v.State())
	case *view.Asset:
		return RenderAsset(v.State())
	}
	return fmt.Sprintf("no renderer for %T", v)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			content, err = fs.ReadFile(templates, file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
