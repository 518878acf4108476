package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/bookshelf/pkg/config"
	"github.com/shishobooks/bookshelf/pkg/errcodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(e *echo.Echo, cookies []*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()
	e := echo.New()
	store := New(config.NewForTest())

	c, rec := newContext(e, nil)
	require.NoError(t, store.Error(c, "Please fill in all required fields."))
	require.NoError(t, store.Success(c, "Author added successfully!"))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.True(t, cookies[len(cookies)-1].HttpOnly)

	// Next request carries the cookie and sees both messages in order.
	c, rec = newContext(e, cookies[len(cookies)-1:])
	messages, err := store.Pop(c)
	require.NoError(t, err)
	assert.Equal(t, []Message{
		{Kind: KindError, Text: "Please fill in all required fields."},
		{Kind: KindSuccess, Text: "Author added successfully!"},
	}, messages)

	// Popping rewrites the cookie without the messages.
	cookies = rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	c, _ = newContext(e, cookies[len(cookies)-1:])
	messages, err = store.Pop(c)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestStore_SameRequest(t *testing.T) {
	t.Parallel()
	e := echo.New()
	store := New(config.NewForTest())

	c, _ := newContext(e, nil)
	require.NoError(t, store.Error(c, "Error adding author: boom"))

	messages, err := store.Pop(c)
	require.NoError(t, err)
	assert.Equal(t, []Message{{Kind: KindError, Text: "Error adding author: boom"}}, messages)

	messages, err = store.Pop(c)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestStore_TamperedCookie(t *testing.T) {
	t.Parallel()
	e := echo.New()
	cfg := config.NewForTest()
	store := New(cfg)

	c, _ := newContext(e, []*http.Cookie{{Name: cfg.SessionName, Value: "not-a-valid-cookie"}})
	messages, err := store.Pop(c)
	require.NoError(t, err)
	assert.Empty(t, messages)

	require.NoError(t, store.Success(c, "Book added successfully!"))
}

func TestStore_DifferentSecret(t *testing.T) {
	t.Parallel()
	e := echo.New()
	store := New(config.NewForTest())

	c, rec := newContext(e, nil)
	require.NoError(t, store.Success(c, "Book added successfully!"))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	other := config.NewForTest()
	other.SessionSecret = "a-different-secret"
	c, _ = newContext(e, cookies[len(cookies)-1:])
	messages, err := New(other).Pop(c)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestFailureText(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  error
		text string
	}{
		"missing field":     {errcodes.MissingField(`"name" is required`), MissingFieldsText},
		"empty body":        {errcodes.EmptyRequestBody(), MissingFieldsText},
		"wrapped missing":   {errors.WithStack(errcodes.MissingField(`"title" is required`)), MissingFieldsText},
		"invalid date":      {errcodes.ValidationError(`"birthdate" should be in the format of YYYY-MM-DD`), `Error adding author: "birthdate" should be in the format of YYYY-MM-DD`},
		"persistence error": {errors.New("FOREIGN KEY constraint failed"), "Error adding author: FOREIGN KEY constraint failed"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.text, FailureText("adding author", tt.err))
		})
	}
}
