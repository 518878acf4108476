package catalog

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/bookshelf/pkg/flash"
	"github.com/shishobooks/bookshelf/pkg/models"
	"github.com/shishobooks/bookshelf/pkg/render"
)

// View is the data for catalog.html.
type View struct {
	Books  []*models.Book
	Sort   string
	Search string
}

type handler struct {
	catalogService *Service
	flash          *flash.Store
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListCatalogQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	books, err := h.catalogService.ListEntries(ctx, ListEntriesOptions{
		Search: &params.Search,
		Sort:   params.Sort,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return render.HTML(c, h.flash, http.StatusOK, "catalog.html", "Catalog", View{
		Books:  books,
		Sort:   NormalizeSort(params.Sort),
		Search: params.Search,
	})
}
