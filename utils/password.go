package utils

import (
	"errors"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword enforces the registration policy: at least one upper-case
// letter, one lower-case letter and one digit. Length bounds are handled by
// the request binding.
func ValidatePassword(password string) error {
	var hasUpper, hasLower, hasDigit bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		}
	}
	if !hasUpper {
		return errors.New("senha deve conter pelo menos 1 letra maiúscula")
	}
	if !hasLower {
		return errors.New("senha deve conter pelo menos 1 letra minúscula")
	}
	if !hasDigit {
		return errors.New("senha deve conter pelo menos 1 número")
	}
	return nil
}
