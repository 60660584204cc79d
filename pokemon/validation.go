package pokemon

import (
	"errors"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const maxLabelLength = 100

var errNonPositiveID = errors.New("id must be a positive integer")

// Validate checks the request fields of a create or update.
func (f Fields) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, validation.Length(1, maxLabelLength)),
		validation.Field(&f.Evolutions, validation.Each(validation.Required, validation.Length(1, maxLabelLength))),
	)
}

// ValidateID rejects ids that cannot identify a stored row.
func ValidateID(id int64) error {
	if id <= 0 {
		return InvalidInput(errNonPositiveID)
	}
	return nil
}

// ParseID parses a path segment into a record id.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, InvalidInput(errNonPositiveID)
	}
	if err := ValidateID(id); err != nil {
		return 0, err
	}
	return id, nil
}
