package books

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/shishobooks/bookshelf/pkg/authors"
	"github.com/shishobooks/bookshelf/pkg/errcodes"
	"github.com/shishobooks/bookshelf/pkg/models"
	"github.com/uptrace/bun"
)

type RetrieveBookOptions struct {
	ID *int
}

// DeleteBookResult describes what DeleteBook removed.
type DeleteBookResult struct {
	Book          *models.Book
	Author        *models.Author
	AuthorDeleted bool
}

type Service struct {
	db            *bun.DB
	authorService *authors.Service
}

func NewService(db *bun.DB) *Service {
	return &Service{db, authors.NewService(db)}
}

// CreateBook inserts the book. The referenced author must exist; the check
// runs in the same transaction as the insert, and the foreign key backs it up.
func (svc *Service) CreateBook(ctx context.Context, book *models.Book) error {
	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = book.CreatedAt

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.
			NewSelect().
			Model((*models.Author)(nil)).
			Where("a.id = ?", book.AuthorID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.InvalidReference("Author", book.AuthorID)
		}

		_, err = tx.
			NewInsert().
			Model(book).
			Returning("*").
			Exec(ctx)
		return errors.WithStack(err)
	})
	return errors.WithStack(err)
}

func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	book := &models.Book{}

	q := svc.db.
		NewSelect().
		Model(book).
		Relation("Author")

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

// DeleteBook deletes the book and then, if that was the author's last book,
// the author. The two steps commit separately: if the process stops between
// them the author is left without books, and it is removed the next time
// DeleteAuthorIfOrphaned runs for it. A failure in the first step skips the
// second.
func (svc *Service) DeleteBook(ctx context.Context, book *models.Book) (*DeleteBookResult, error) {
	author := book.Author
	if author == nil {
		authorID := book.AuthorID
		a, err := svc.authorService.RetrieveAuthor(ctx, authors.RetrieveAuthorOptions{ID: &authorID})
		if err != nil {
			return nil, errors.WithStack(err)
		}
		author = a
	}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.
			NewDelete().
			Model((*models.Book)(nil)).
			Where("id = ?", book.ID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return errors.WithStack(err)
		}
		if n == 0 {
			return errcodes.NotFound("Book")
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	result := &DeleteBookResult{Book: book, Author: author}

	deleted, err := svc.authorService.DeleteAuthorIfOrphaned(ctx, author.ID)
	if err != nil {
		return result, errors.WithStack(err)
	}
	result.AuthorDeleted = deleted

	return result, nil
}
