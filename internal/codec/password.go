package codec

import "fmt"

// HashPassword computes a DJB2 digest of password, printed as lowercase hex.
// Non-cryptographic by design; it exists to match the original system's
// wire-compatible stored form, not to resist attack.
func HashPassword(password string) string {
	var hash uint64 = 5381
	for _, c := range []byte(password) {
		hash = hash*33 + uint64(c)
	}
	return fmt.Sprintf("%x", hash)
}

// VerifyPassword reports whether password hashes to digest.
func VerifyPassword(password, digest string) bool {
	return HashPassword(password) == digest
}
