package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the bcrypt hash stored in place of the plaintext
// credential.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword reports a non-nil error when the candidate does not match
// the stored hash.
func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
