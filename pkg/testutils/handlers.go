package testutils

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/bookshelf/pkg/errcodes"
	"github.com/shishobooks/bookshelf/pkg/models"
	"github.com/shishobooks/bookshelf/pkg/seed"
	"github.com/uptrace/bun"
)

type handler struct {
	db *bun.DB
}

// seedCatalog loads the JSON fixture in the request body.
// POST /test/catalog.
func (h *handler) seedCatalog(c echo.Context) error {
	ctx := c.Request().Context()

	fixture, err := seed.Decode(c.Request().Body)
	if err != nil {
		return errcodes.ValidationError(err.Error())
	}

	summary, err := seed.Apply(ctx, h.db, fixture)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, summary))
}

// resetCatalog deletes every book and author.
// DELETE /test/catalog.
func (h *handler) resetCatalog(c echo.Context) error {
	ctx := c.Request().Context()

	err := h.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().Model((*models.Book)(nil)).Where("1 = 1").Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = tx.NewDelete().Model((*models.Author)(nil)).Where("1 = 1").Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}
