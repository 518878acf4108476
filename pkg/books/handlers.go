package books

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/bookshelf/pkg/authors"
	"github.com/shishobooks/bookshelf/pkg/errcodes"
	"github.com/shishobooks/bookshelf/pkg/flash"
	"github.com/shishobooks/bookshelf/pkg/models"
	"github.com/shishobooks/bookshelf/pkg/render"
)

const formTemplate = "add_book.html"

// FormView is the data for add_book.html.
type FormView struct {
	Authors []*models.Author
}

type handler struct {
	bookService   *Service
	authorService *authors.Service
	flash         *flash.Store
}

func (h *handler) newForm(c echo.Context) error {
	return h.renderForm(c, http.StatusOK)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	params := CreateBookPayload{}
	if err := c.Bind(&params); err != nil {
		if !errcodes.IsValidation(err) {
			return errors.WithStack(err)
		}
		return h.redisplay(c, flash.FailureText("adding book", err))
	}

	if err := h.bookService.CreateBook(ctx, params.Book()); err != nil {
		log.Err(err).Error("failed to add book")
		return h.redisplay(c, flash.FailureText("adding book", err))
	}

	if err := h.flash.Success(c, "Book added successfully!"); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.Redirect(http.StatusSeeOther, "/add_book"))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	result, err := h.bookService.DeleteBook(ctx, book)
	if err != nil {
		log.Err(err).Error("failed to delete book", logger.Data{"book_id": id})
		err = h.flash.Error(c, flash.FailureText("deleting book", err))
	} else {
		err = h.flash.Success(c, deletedText(result))
	}
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusSeeOther, "/"))
}

func (h *handler) redisplay(c echo.Context, msg string) error {
	if err := h.flash.Error(c, msg); err != nil {
		return errors.WithStack(err)
	}
	return h.renderForm(c, http.StatusUnprocessableEntity)
}

func (h *handler) renderForm(c echo.Context, code int) error {
	list, err := h.authorService.ListAuthors(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}
	return render.HTML(c, h.flash, code, formTemplate, "Add book", FormView{Authors: list})
}

func deletedText(result *DeleteBookResult) string {
	if result.AuthorDeleted {
		return fmt.Sprintf("Book '%s' and author '%s' deleted successfully.", result.Book.Title, result.Author.Name)
	}
	return fmt.Sprintf("Book '%s' deleted successfully.", result.Book.Title)
}
