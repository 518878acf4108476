package catalog

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/bookshelf/pkg/flash"
	"github.com/uptrace/bun"
)

func RegisterRoutes(e *echo.Echo, db *bun.DB, messages *flash.Store) {
	h := &handler{
		catalogService: NewService(db),
		flash:          messages,
	}

	e.GET("/", h.list)
}
