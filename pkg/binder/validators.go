package binder

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	dateRE = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])$`)
)

// dateValidator ensures the value looks like YYYY-MM-DD or is empty. Empty is
// allowed so optional dates can use it; combine with `required` otherwise.
// Calendar correctness (e.g. 2021-02-30) is checked when the date is parsed.
func dateValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return dateRE.MatchString(value)
}
