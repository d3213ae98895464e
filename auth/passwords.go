package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/labvotodev-ia/labvoto-back/apperrors"
	"hermannm.dev/wrap"
)

// HashPassword hashes the given password with bcrypt and a random salt.
// Passwords are only ever stored in this form.
func HashPassword(password string) (string, error) {
	if len(password) < 6 {
		return "", apperrors.Validation("senha deve ter no mínimo 6 caracteres")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", wrap.Error(err, "failed to hash password")
	}

	return string(hash), nil
}

// CheckPassword reports whether the given plaintext password matches the
// stored bcrypt hash.
func CheckPassword(password string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
