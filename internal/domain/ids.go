package domain

import "github.com/google/uuid"

// NewID generates a record identifier.
func NewID() string {
	return uuid.NewString()
}

// ParseID checks that raw is a well-formed identifier and returns its canonical form.
func ParseID(raw string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", ErrMalformedID
	}
	return id.String(), nil
}
