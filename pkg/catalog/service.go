package catalog

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/shishobooks/bookshelf/pkg/models"
	"github.com/uptrace/bun"
)

const (
	SortTitle  = "title"
	SortAuthor = "author"
)

type ListEntriesOptions struct {
	Search *string // substring of the title or author name, case-insensitive
	Sort   string  // SortAuthor, anything else sorts by title
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// ListEntries returns every book matching opts with its author loaded.
func (svc *Service) ListEntries(ctx context.Context, opts ListEntriesOptions) ([]*models.Book, error) {
	books := []*models.Book{}

	q := svc.db.
		NewSelect().
		Model(&books).
		Relation("Author")

	if opts.Search != nil {
		if search := strings.TrimSpace(*opts.Search); search != "" {
			// Both sides go through SQLite's LOWER so they fold the same way.
			pattern := "%" + escapeLike(search) + "%"
			q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.
					Where(`LOWER(b.title) LIKE LOWER(?) ESCAPE '!'`, pattern).
					WhereOr(`LOWER(author.name) LIKE LOWER(?) ESCAPE '!'`, pattern)
			})
		}
	}

	if NormalizeSort(opts.Sort) == SortAuthor {
		q = q.Order("author.name ASC", "b.title ASC", "b.id ASC")
	} else {
		q = q.Order("b.title ASC", "b.id ASC")
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return books, nil
}

// NormalizeSort maps unknown sort keys to SortTitle.
func NormalizeSort(sort string) string {
	if sort == SortAuthor {
		return SortAuthor
	}
	return SortTitle
}

// escapeLike makes LIKE wildcards in user input match literally.
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
