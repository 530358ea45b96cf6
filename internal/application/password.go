package application

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

// Password derivation parameters. The iteration count is fixed; changing it
// invalidates every stored record, so treat it as part of the schema.
const (
	pwdKDFIterations = 200_000
	pwdSaltLength    = 16
	pwdKeyLength     = 32
	minPasswordLen   = 4
)

// PasswordRecord is the stored form of a password: hex encoded salt and
// PBKDF2-SHA256 digest.
type PasswordRecord struct {
	SaltHex string
	HashHex string
}

func derivePassword(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, pwdKDFIterations, pwdKeyLength, sha256.New)
}

// CreatePasswordRecord derives a fresh record for the given password.
// Passwords shorter than four characters are rejected with a validation
// error.
func CreatePasswordRecord(password string) (PasswordRecord, error) {
	if len(password) < minPasswordLen {
		return PasswordRecord{}, validationError("password", "password too short")
	}

	salt := make([]byte, pwdSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return PasswordRecord{}, err
	}

	digest := derivePassword(password, salt)
	return PasswordRecord{
		SaltHex: hex.EncodeToString(salt),
		HashHex: hex.EncodeToString(digest),
	}, nil
}

// VerifyPassword reports whether password matches the stored record. A
// malformed record never matches.
func VerifyPassword(password string, record PasswordRecord) bool {
	salt, err := hex.DecodeString(record.SaltHex)
	if err != nil {
		return false
	}
	expected, err := hex.DecodeString(record.HashHex)
	if err != nil {
		return false
	}

	got := derivePassword(password, salt)
	return subtle.ConstantTimeCompare(got, expected) == 1
}
