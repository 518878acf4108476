package authors

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shishobooks/bookshelf/pkg/models"
)

type CreateAuthorPayload struct {
	Name        string `form:"name" json:"name" mod:"trim" validate:"required"`
	BirthDate   string `form:"birthdate" json:"birthdate" mod:"trim" validate:"required,date"`
	DateOfDeath string `form:"date_of_death" json:"date_of_death" mod:"trim" validate:"date"`
}

// Author parses the payload's dates. The binder only checks their shape, so
// impossible dates such as 2021-02-30 fail here.
func (p CreateAuthorPayload) Author() (*models.Author, error) {
	birthDate, err := time.Parse(models.DateLayout, p.BirthDate)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	author := &models.Author{
		Name:      p.Name,
		BirthDate: birthDate,
	}

	if p.DateOfDeath != "" {
		dateOfDeath, err := time.Parse(models.DateLayout, p.DateOfDeath)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		author.DateOfDeath = &dateOfDeath
	}

	return author, nil
}
