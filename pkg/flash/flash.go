// Package flash stores one-shot status messages in a signed cookie session.
// A message added while handling one request is shown by the next page that
// renders, which is usually the target of a redirect.
package flash

import (
	"encoding/gob"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/shishobooks/bookshelf/pkg/config"
	"github.com/shishobooks/bookshelf/pkg/errcodes"
)

const (
	KindSuccess = "success"
	KindError   = "error"
)

const flashKey = "_flash"

// MissingFieldsText is shown when a form is submitted with required fields
// left blank.
const MissingFieldsText = "Please fill in all required fields."

// Message is a single status message with its category.
type Message struct {
	Kind string
	Text string
}

func init() {
	gob.Register(Message{})
}

type Store struct {
	sessions sessions.Store
	name     string
}

func New(cfg *config.Config) *Store {
	cs := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	cs.Options.HttpOnly = true
	cs.Options.SameSite = http.SameSiteLaxMode
	cs.Options.Secure = cfg.Environment == "production"
	return &Store{sessions: cs, name: cfg.SessionName}
}

// session returns the request's session. A cookie that fails to decode (bad
// signature, rotated secret) is replaced by a fresh session instead of failing
// the request.
func (s *Store) session(c echo.Context) *sessions.Session {
	session, err := s.sessions.Get(c.Request(), s.name)
	if err != nil {
		logger.FromEchoContext(c).Err(err).Warn("discarding unreadable session cookie")
	}
	return session
}

// Add queues a message for the next rendered page.
func (s *Store) Add(c echo.Context, kind, text string) error {
	session := s.session(c)
	session.AddFlash(Message{Kind: kind, Text: text}, flashKey)
	return errors.WithStack(session.Save(c.Request(), c.Response()))
}

func (s *Store) Success(c echo.Context, text string) error {
	return s.Add(c, KindSuccess, text)
}

func (s *Store) Error(c echo.Context, text string) error {
	return s.Add(c, KindError, text)
}

// Pop returns the queued messages in the order they were added and clears
// them. It must be called before the response body is written.
func (s *Store) Pop(c echo.Context) ([]Message, error) {
	session := s.session(c)
	raw := session.Flashes(flashKey)
	if len(raw) == 0 {
		return nil, nil
	}

	messages := make([]Message, 0, len(raw))
	for _, r := range raw {
		if m, ok := r.(Message); ok {
			messages = append(messages, m)
		}
	}

	if err := session.Save(c.Request(), c.Response()); err != nil {
		return nil, errors.WithStack(err)
	}
	return messages, nil
}

// FailureText is the error message for a failed form submission, e.g.
// FailureText("adding book", err) gives "Error adding book: <detail>".
func FailureText(action string, err error) string {
	if errcodes.IsMissingField(err) {
		return MissingFieldsText
	}
	return fmt.Sprintf("Error %s: %s", action, err.Error())
}
