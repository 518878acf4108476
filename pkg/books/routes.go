package books

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/bookshelf/pkg/authors"
	"github.com/shishobooks/bookshelf/pkg/flash"
	"github.com/uptrace/bun"
)

func RegisterRoutes(e *echo.Echo, db *bun.DB, messages *flash.Store) {
	h := &handler{
		bookService:   NewService(db),
		authorService: authors.NewService(db),
		flash:         messages,
	}

	e.GET("/add_book", h.newForm)
	e.POST("/add_book", h.create)
	e.POST("/book/:id/delete", h.delete)
}
