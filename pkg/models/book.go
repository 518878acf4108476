package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Book.PublicationYear is kept exactly as entered and is not required to be
// numeric.
type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID              int       `bun:",pk,nullzero" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Title           string    `bun:",notnull" json:"title"`
	PublicationYear string    `bun:",notnull" json:"publication_year"`
	AuthorID        int       `bun:",notnull" json:"author_id"`
	Author          *Author   `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`
}
