package authors

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/bookshelf/pkg/flash"
	"github.com/uptrace/bun"
)

func RegisterRoutes(e *echo.Echo, db *bun.DB, messages *flash.Store) {
	h := &handler{
		authorService: NewService(db),
		flash:         messages,
	}

	e.GET("/add_author", h.newForm)
	e.POST("/add_author", h.create)
}
