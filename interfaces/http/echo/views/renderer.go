// Package views renders the server-side HTML pages.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/octabyte/zip-client/interfaces/http/echo/middleware"
	"github.com/octabyte/zip-client/models"
	otellogger "github.com/octabyte/zip-client/otel/logger"
)

//go:embed templates
var files embed.FS

// pages maps a page name to the files parsed on top of the layout.
var pages = map[string][]string{
	"welcome":        {"welcome.html"},
	"dashboard":      {"dashboard.html"},
	"profile":        {"profile.html"},
	"error":          {"error.html"},
	"auth/login":     {"auth/login.html"},
	"counties/index": {"counties/index.html"},
	"counties/show":  {"counties/show.html"},
	"counties/form":  {"counties/form.html"},
	"cities/index":   {"cities/index.html"},
	"cities/show":    {"cities/show.html"},
	"cities/form":    {"cities/form.html"},
	"filter/index":   {"filter/index.html"},
	"filter/results": {"filter/index.html", "filter/results.html"},
}

// FlashSource hands out the pending flash message of a session.
type FlashSource interface {
	PullFlash(c echo.Context) *models.Flash
}

type Renderer struct {
	templates map[string]*template.Template
	flashes   FlashSource
}

var _ echo.Renderer = (*Renderer)(nil)

func New(flashes FlashSource) (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pages))
	for name, pageFiles := range pages {
		paths := []string{"templates/layout.html"}
		for _, f := range pageFiles {
			paths = append(paths, "templates/"+f)
		}
		tmpl, err := template.New(name).ParseFS(files, paths...)
		if err != nil {
			return nil, fmt.Errorf("parsing page %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return &Renderer{templates: templates, flashes: flashes}, nil
}

// Render executes the page's layout. data must be an echo.Map (or nil); the
// keys Auth, Flash, CSRF and Errors are filled in when absent.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	view := echo.Map{}
	switch d := data.(type) {
	case nil:
	case echo.Map:
		view = d
	case map[string]interface{}:
		view = d
	default:
		return fmt.Errorf("page %q: unsupported data %T", name, data)
	}

	if _, ok := view["Auth"]; !ok {
		view["Auth"] = middleware.AuthView(c)
	}
	if _, ok := view["Errors"]; !ok {
		view["Errors"] = map[string]string{}
	}
	if _, ok := view["CSRF"]; !ok {
		csrf, _ := c.Get(echomw.DefaultCSRFConfig.ContextKey).(string)
		view["CSRF"] = csrf
	}
	if _, ok := view["Flash"]; !ok && r.flashes != nil {
		view["Flash"] = r.flashes.PullFlash(c)
	}

	if err := tmpl.ExecuteTemplate(w, "layout", view); err != nil {
		otellogger.ErrorCtx(c.Request().Context(), "rendering page", err)
		return err
	}
	return nil
}
