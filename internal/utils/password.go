package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the bcrypt hash of an account password.  The
// cost comes from BCRYPT_COST in config; tests pass a low cost to keep
// hashing fast.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored hash of a
// marketplace account.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
