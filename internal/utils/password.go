package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword bcrypt-hashes an account password with the configured cost.
// Costs below bcrypt's minimum (including an unset zero) fall back to the
// library default rather than silently producing a weak hash.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
// It never distinguishes a malformed hash from a mismatch; both are a
// failed login.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
