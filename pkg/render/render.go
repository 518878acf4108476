// Package render renders the server-side HTML pages. Every page template is
// parsed together with layout.html and fills its "content" block.
package render

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"path"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/bookshelf/pkg/flash"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "layout.html"

// Page is the value every template is executed with. Handlers put their own
// view data in Data.
type Page struct {
	Title   string
	Flashes []flash.Message
	Data    interface{}
}

type Renderer struct {
	templates map[string]*template.Template
}

var funcs = template.FuncMap{
	"catalogURL": catalogURL,
}

// New parses the embedded templates. It fails if any template is invalid, so
// broken markup is caught at startup.
func New() (*Renderer, error) {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.WithStack(err)
	}

	templates := map[string]*template.Template{}
	for _, name := range names {
		base := path.Base(name)
		if base == layoutFile {
			continue
		}
		t, err := template.New(base).Funcs(funcs).ParseFS(templateFS, "templates/"+layoutFile, name)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse template %s", base)
		}
		templates[base] = t
	}

	return &Renderer{templates}, nil
}

// Render implements echo.Renderer. Data that isn't a Page (such as the error
// handler's payload) is wrapped in one.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return errors.Errorf("template %q not found", name)
	}

	page, ok := data.(Page)
	if !ok {
		page = Page{Data: data}
	}

	return errors.WithStack(t.ExecuteTemplate(w, "layout", page))
}

// HTML pops the pending flash messages and renders the named page with them.
func HTML(c echo.Context, messages *flash.Store, code int, name, title string, data interface{}) error {
	flashes, err := messages.Pop(c)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.Render(code, name, Page{
		Title:   title,
		Flashes: flashes,
		Data:    data,
	}))
}

// catalogURL builds a link to the catalog that keeps the current search.
func catalogURL(sort, search string) string {
	v := url.Values{}
	if sort != "" {
		v.Set("sort", sort)
	}
	if search != "" {
		v.Set("q", search)
	}
	if len(v) == 0 {
		return "/"
	}
	return "/?" + v.Encode()
}
