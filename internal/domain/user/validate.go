package user

import (
	"strconv"

	"github.com/geocoder89/bloglist/internal/domain"
)

// Validate checks the field rules of a user record before it is written.
// Uniqueness is checked by the store.
func (u User) Validate() error {
	verr := domain.NewValidationError("User")

	switch {
	case u.Username == "":
		verr.Add("username", "required", "Path `username` is required.")
	case len(u.Username) < MinUsernameLength:
		verr.Add("username", "min", "Path `username` (`"+u.Username+"`) is shorter than the minimum allowed length ("+strconv.Itoa(MinUsernameLength)+").")
	}

	switch {
	case u.PasswordHash == "":
		verr.Add("passwordHash", "required", "Path `passwordHash` is required.")
	case len(u.PasswordHash) < MinPasswordHashLength:
		verr.Add("passwordHash", "min", "Path `passwordHash` is shorter than the minimum allowed length ("+strconv.Itoa(MinPasswordHashLength)+").")
	}

	return verr.Err()
}

// DuplicateUsername builds the validation error for a taken username.
func DuplicateUsername(username string) error {
	return domain.NewValidationError("User").
		Add("username", "unique", domain.UniqueMessage("username", username))
}
