// Package web holds the HTML views and the glue that renders them: the
// embedded templates, the echo Renderer, flash notices and the page model
// shared by every view.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/model"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the stylesheet tree served under /static.
func Static() fs.FS {
	return echo.MustSubFS(staticFS, "static")
}

const (
	layoutFile   = "templates/layout.html"
	partialsFile = "templates/partials.html"
)

// Date formats accepted by the datetime template function.
const (
	FullDate   = "Monday January, 2, 2006 at 3:04PM"
	MediumDate = "Mon 01, 02, 2006 3:04PM"
)

// Datetime formats t as "full", "medium" or, for any other name, the show
// listing layout.
func Datetime(format string, t time.Time) string {
	switch format {
	case "full":
		return t.Format(FullDate)
	case "medium":
		return t.Format(MediumDate)
	default:
		return t.Format(model.ShowTimeLayout)
	}
}

var funcs = template.FuncMap{
	"datetime":     Datetime,
	"join":         func(g model.Genres) string { return strings.Join(g, ", ") },
	"states":       func() []string { return model.States },
	"genreChoices": func() []string { return model.GenreChoices },
	"extraGenres":  extraGenres,
	"dict":         dict,
}

// extraGenres returns the selected genres that are not offered as choices,
// so editing a record never silently drops them.
func extraGenres(sel model.Genres) []string {
	var out []string
	for _, g := range sel {
		if !model.Genres(model.GenreChoices).Contains(g) {
			out = append(out, g)
		}
	}
	return out
}

// dict builds a map from alternating keys and values so partials can take
// named arguments.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

// Renderer renders a page inside the shared layout.  Each page is parsed
// once together with the layout and looked up by its path relative to
// templates/, e.g. "pages/venues.html".
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page under templates/pages, templates/forms and
// templates/errors.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, dir := range []string{"pages", "forms", "errors"} {
		files, err := fs.Glob(templateFS, path.Join("templates", dir, "*.html"))
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			t, err := template.New(path.Base(f)).Funcs(funcs).ParseFS(templateFS, layoutFile, partialsFile, f)
			if err != nil {
				return nil, fmt.Errorf("parsing %s: %w", f, err)
			}
			r.pages[strings.TrimPrefix(f, "templates/")] = t
		}
	}
	return r, nil
}

// Render implements echo.Renderer.  Output is buffered so a template error
// never leaves a half-written page behind.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
