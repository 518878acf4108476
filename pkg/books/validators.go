package books

import "github.com/shishobooks/bookshelf/pkg/models"

// CreateBookPayload is the add-book form. PublicationYear is free text and
// only has to be present.
type CreateBookPayload struct {
	Title           string `form:"title" json:"title" mod:"trim" validate:"required"`
	PublicationYear string `form:"publication_year" json:"publication_year" mod:"trim" validate:"required"`
	AuthorID        int    `form:"author_id" json:"author_id" validate:"required"`
}

func (p CreateBookPayload) Book() *models.Book {
	return &models.Book{
		Title:           p.Title,
		PublicationYear: p.PublicationYear,
		AuthorID:        p.AuthorID,
	}
}
