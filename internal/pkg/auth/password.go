package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the hashing cost for one-time reset codes
const BcryptCost = bcrypt.DefaultCost

// HashSecret hashes a short-lived secret such as a reset code
func HashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckSecret reports whether secret matches the stored hash
func CheckSecret(hashed, secret string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(secret))
	return err == nil
}
