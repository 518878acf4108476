// Package seed loads a catalog fixture (authors with their books) through the
// same services the web handlers use.
package seed

import (
	"context"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
	"github.com/shishobooks/bookshelf/pkg/authors"
	"github.com/shishobooks/bookshelf/pkg/books"
	"github.com/shishobooks/bookshelf/pkg/models"
	"github.com/uptrace/bun"
)

type Fixture struct {
	Authors []*AuthorFixture `json:"authors" validate:"dive"`
}

type AuthorFixture struct {
	Name        string         `json:"name" validate:"required"`
	BirthDate   string         `json:"birth_date" validate:"required"`
	DateOfDeath string         `json:"date_of_death,omitempty"`
	Books       []*BookFixture `json:"books" validate:"dive"`
}

type BookFixture struct {
	Title           string `json:"title" validate:"required"`
	PublicationYear string `json:"publication_year" validate:"required"`
}

// Summary counts what Apply inserted.
type Summary struct {
	Authors int `json:"authors"`
	Books   int `json:"books"`
}

// Decode reads a fixture and validates it. Unknown fields are rejected so typos
// in hand-written files don't silently drop data.
func Decode(r io.Reader) (*Fixture, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	fixture := &Fixture{}
	if err := dec.Decode(fixture); err != nil {
		return nil, errors.Wrap(err, "invalid fixture")
	}
	if err := fixture.Validate(); err != nil {
		return nil, err
	}
	return fixture, nil
}

// Validate checks required fields and that every date parses.
func (f *Fixture) Validate() error {
	if err := validator.New().Struct(f); err != nil {
		return errors.Wrap(err, "invalid fixture")
	}
	for _, a := range f.Authors {
		if _, err := a.author(); err != nil {
			return errors.Wrapf(err, "invalid dates for author %q", a.Name)
		}
	}
	return nil
}

func (a *AuthorFixture) author() (*models.Author, error) {
	return authors.CreateAuthorPayload{
		Name:        a.Name,
		BirthDate:   a.BirthDate,
		DateOfDeath: a.DateOfDeath,
	}.Author()
}

// Apply inserts the fixture. Each author and book is its own transaction, so a
// failure part way through leaves the rows inserted before it.
func Apply(ctx context.Context, db *bun.DB, f *Fixture) (*Summary, error) {
	log := logger.FromContext(ctx)
	authorService := authors.NewService(db)
	bookService := books.NewService(db)
	summary := &Summary{}

	for _, a := range f.Authors {
		author, err := a.author()
		if err != nil {
			return summary, errors.WithStack(err)
		}
		if err := authorService.CreateAuthor(ctx, author); err != nil {
			return summary, errors.Wrapf(err, "failed to add author %q", a.Name)
		}
		summary.Authors++

		for _, b := range a.Books {
			book := &models.Book{
				Title:           b.Title,
				PublicationYear: b.PublicationYear,
				AuthorID:        author.ID,
			}
			if err := bookService.CreateBook(ctx, book); err != nil {
				return summary, errors.Wrapf(err, "failed to add book %q", b.Title)
			}
			summary.Books++
		}
	}

	log.Info("catalog seeded", logger.Data{"authors": summary.Authors, "books": summary.Books})
	return summary, nil
}
