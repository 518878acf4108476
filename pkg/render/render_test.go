package render

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shishobooks/bookshelf/pkg/config"
	"github.com/shishobooks/bookshelf/pkg/flash"
	"github.com/shishobooks/bookshelf/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ParsesAllPages(t *testing.T) {
	t.Parallel()
	r, err := New()
	require.NoError(t, err)

	for _, name := range []string{"catalog.html", "add_author.html", "add_book.html", "error.html"} {
		assert.Contains(t, r.templates, name)
	}
	assert.NotContains(t, r.templates, layoutFile)
}

func TestRender_UnknownTemplate(t *testing.T) {
	t.Parallel()
	r, err := New()
	require.NoError(t, err)

	err = r.Render(&bytes.Buffer{}, "missing.html", nil, nil)
	assert.Error(t, err)
}

func TestRender_EscapesContent(t *testing.T) {
	t.Parallel()
	r, err := New()
	require.NoError(t, err)

	author := &models.Author{ID: 1, Name: "<script>alert(1)</script>", BirthDate: time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)}
	data := struct {
		Books  []*models.Book
		Sort   string
		Search string
	}{
		Books:  []*models.Book{{ID: 7, Title: "Example Title", PublicationYear: "2000", AuthorID: 1, Author: author}},
		Sort:   "title",
		Search: "jane",
	}

	buf := &bytes.Buffer{}
	err = r.Render(buf, "catalog.html", Page{Title: "Catalog", Data: data}, nil)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<title>Catalog | Bookshelf</title>")
	assert.Contains(t, out, "Example Title")
	assert.Contains(t, out, `action="/book/7/delete"`)
	assert.Contains(t, out, "born 1970-01-01")
	assert.Contains(t, out, "/?q=jane&amp;sort=author")
	assert.NotContains(t, out, "<script>alert(1)</script>")
}

func TestRender_EmptyCatalog(t *testing.T) {
	t.Parallel()
	r, err := New()
	require.NoError(t, err)

	data := struct {
		Books  []*models.Book
		Sort   string
		Search string
	}{Sort: "title"}

	buf := &bytes.Buffer{}
	require.NoError(t, r.Render(buf, "catalog.html", Page{Data: data}, nil))
	assert.Contains(t, buf.String(), "No books found.")
}

func TestRender_WrapsNonPageData(t *testing.T) {
	t.Parallel()
	r, err := New()
	require.NoError(t, err)

	data := struct {
		StatusCode int
		StatusText string
		Message    string
	}{http.StatusNotFound, http.StatusText(http.StatusNotFound), "Book not found."}

	buf := &bytes.Buffer{}
	require.NoError(t, r.Render(buf, "error.html", data, nil))
	assert.Contains(t, buf.String(), "404 Not Found")
	assert.Contains(t, buf.String(), "Book not found.")
}

func TestHTML_IncludesFlashes(t *testing.T) {
	t.Parallel()
	r, err := New()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = r
	store := flash.New(config.NewForTest())

	req := httptest.NewRequest(http.MethodGet, "/add_author", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, store.Success(c, "Author added successfully!"))
	require.NoError(t, HTML(c, store, http.StatusOK, "add_author.html", "Add author", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="flash flash-success"`)
	assert.Contains(t, rec.Body.String(), "Author added successfully!")
}

func TestCatalogURL(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "/", catalogURL("", ""))
	assert.Equal(t, "/?sort=author", catalogURL("author", ""))
	assert.Equal(t, "/?q=jane+doe&sort=title", catalogURL("title", "jane doe"))
}
