package server

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/shishobooks/bookshelf/pkg/config"
	"github.com/shishobooks/bookshelf/pkg/database"
	"github.com/shishobooks/bookshelf/pkg/migrations"
	"github.com/shishobooks/bookshelf/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type testApp struct {
	db     *bun.DB
	server *httptest.Server
	client *http.Client
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := config.NewForTest()

	db, err := database.New(cfg)
	require.NoError(t, err)
	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	e, err := newEcho(cfg, db)
	require.NoError(t, err)
	server := httptest.NewServer(e)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		server.Close()
		db.Close()
	})

	return &testApp{db: db, server: server, client: &http.Client{Jar: jar}}
}

// do sends the request, follows redirects and returns the final status and
// body.
func (app *testApp) do(t *testing.T, method, path string, form url.Values, header http.Header) (int, string) {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, app.server.URL+path, body)
	require.NoError(t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := app.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func (app *testApp) count(t *testing.T, model interface{}) int {
	t.Helper()
	n, err := app.db.NewSelect().Model(model).Count(context.Background())
	require.NoError(t, err)
	return n
}

func TestScenario_AddSearchDelete(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)
	ctx := context.Background()

	status, body := app.do(t, http.MethodPost, "/add_author", url.Values{
		"name":          {"Jane Doe"},
		"birthdate":     {"1970-01-01"},
		"date_of_death": {""},
	}, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Author added successfully!")
	assert.Contains(t, body, `action="/add_author"`)

	author := &models.Author{}
	require.NoError(t, app.db.NewSelect().Model(author).Where("a.name = ?", "Jane Doe").Scan(ctx))
	assert.Nil(t, author.DateOfDeath)

	status, body = app.do(t, http.MethodGet, "/add_book", nil, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, ">Jane Doe</option>")
	assert.NotContains(t, body, "Author added successfully!")

	status, body = app.do(t, http.MethodPost, "/add_book", url.Values{
		"title":            {"Example Title"},
		"publication_year": {"2000"},
		"author_id":        {strconv.Itoa(author.ID)},
	}, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Book added successfully!")

	status, body = app.do(t, http.MethodGet, "/?q=jane", nil, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, strings.Count(body, `<tr class="book">`))
	assert.Contains(t, body, "Example Title")

	book := &models.Book{}
	require.NoError(t, app.db.NewSelect().Model(book).Scan(ctx))

	status, body = app.do(t, http.MethodPost, "/book/"+strconv.Itoa(book.ID)+"/delete", url.Values{}, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Book &#39;Example Title&#39; and author &#39;Jane Doe&#39; deleted successfully.")
	assert.Contains(t, body, "No books found.")

	assert.Equal(t, 0, app.count(t, (*models.Book)(nil)))
	assert.Equal(t, 0, app.count(t, (*models.Author)(nil)))
}

func TestAddAuthor_MissingFields(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	status, body := app.do(t, http.MethodPost, "/add_author", url.Values{
		"name":          {""},
		"birthdate":     {""},
		"date_of_death": {""},
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body, "Please fill in all required fields.")
	assert.Equal(t, 0, app.count(t, (*models.Author)(nil)))

	// The message is shown once.
	_, body = app.do(t, http.MethodGet, "/add_author", nil, nil)
	assert.NotContains(t, body, "Please fill in all required fields.")
}

func TestAddBook_UnknownAuthor(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	status, body := app.do(t, http.MethodPost, "/add_book", url.Values{
		"title":            {"Example Title"},
		"publication_year": {"2000"},
		"author_id":        {"12345"},
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body, "Error adding book: Author 12345 does not exist.")
	assert.Equal(t, 0, app.count(t, (*models.Book)(nil)))
}

func TestDeleteBook_NotFound(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	status, body := app.do(t, http.MethodPost, "/book/999/delete", url.Values{}, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body, "404 Not Found")
	assert.Contains(t, body, "Book not found.")

	status, body = app.do(t, http.MethodPost, "/book/999/delete", url.Values{}, http.Header{"Accept": {"application/json"}})
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error": {"code": "not_found", "message": "Book not found.", "status_code": 404}}`, body)
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	status, body := app.do(t, http.MethodGet, "/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body, "Page not found.")
}

func TestTestRoutes(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	req, err := http.NewRequest(http.MethodPost, app.server.URL+"/test/catalog", strings.NewReader(
		`{"authors": [{"name": "Jane Doe", "birth_date": "1970-01-01", "books": [{"title": "Example Title", "publication_year": "2000"}]}]}`,
	))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	_, body := app.do(t, http.MethodGet, "/?sort=author", nil, nil)
	assert.Contains(t, body, "Example Title")
}

func TestNew(t *testing.T) {
	t.Parallel()
	cfg := config.NewForTest()
	cfg.ServerPort = 8123

	db, err := database.New(cfg)
	require.NoError(t, err)
	defer db.Close()

	srv, err := New(cfg, db)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8123", srv.Addr)
	assert.NotNil(t, srv.Handler)
}
