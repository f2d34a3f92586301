package security

import "golang.org/x/crypto/bcrypt"

// PasswordCost is the bcrypt work factor used for every stored credential.
const PasswordCost = 10

// HashPassword hashes a plain text password with bcrypt.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword compares a bcrypt hash with a plaintext password.
func CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

// Hasher adapts the package functions to the interface the services depend on.
type Hasher struct{}

func (Hasher) Hash(plain string) (string, error) { return HashPassword(plain) }

func (Hasher) Check(hash, plain string) error { return CheckPassword(hash, plain) }
