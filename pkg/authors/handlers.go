package authors

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/bookshelf/pkg/errcodes"
	"github.com/shishobooks/bookshelf/pkg/flash"
	"github.com/shishobooks/bookshelf/pkg/render"
)

const formTemplate = "add_author.html"

type handler struct {
	authorService *Service
	flash         *flash.Store
}

func (h *handler) newForm(c echo.Context) error {
	return render.HTML(c, h.flash, http.StatusOK, formTemplate, "Add author", nil)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	params := CreateAuthorPayload{}
	if err := c.Bind(&params); err != nil {
		if !errcodes.IsValidation(err) {
			return errors.WithStack(err)
		}
		return h.redisplay(c, flash.FailureText("adding author", err))
	}

	author, err := params.Author()
	if err != nil {
		return h.redisplay(c, flash.FailureText("adding author", err))
	}

	if err := h.authorService.CreateAuthor(ctx, author); err != nil {
		log.Err(err).Error("failed to add author")
		return h.redisplay(c, flash.FailureText("adding author", err))
	}

	if err := h.flash.Success(c, "Author added successfully!"); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.Redirect(http.StatusSeeOther, "/add_author"))
}

// redisplay shows the form again with msg and nothing persisted.
func (h *handler) redisplay(c echo.Context, msg string) error {
	if err := h.flash.Error(c, msg); err != nil {
		return errors.WithStack(err)
	}
	return render.HTML(c, h.flash, http.StatusUnprocessableEntity, formTemplate, "Add author", nil)
}
