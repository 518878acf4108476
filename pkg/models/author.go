package models

import (
	"time"

	"github.com/uptrace/bun"
)

// DateLayout is the wire and display format for calendar dates.
const DateLayout = "2006-01-02"

type Author struct {
	bun.BaseModel `bun:"table:authors,alias:a"`

	ID          int        `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Name        string     `bun:",notnull" json:"name"`
	BirthDate   time.Time  `bun:",notnull" json:"birth_date"`
	DateOfDeath *time.Time `json:"date_of_death"`
	Books       []*Book    `bun:"rel:has-many,join:id=author_id" json:"books,omitempty"`
}

// Lifespan formats the author's dates for display.
func (a *Author) Lifespan() string {
	if a.DateOfDeath == nil {
		return "born " + a.BirthDate.Format(DateLayout)
	}
	return a.BirthDate.Format(DateLayout) + " to " + a.DateOfDeath.Format(DateLayout)
}
