// Package cryptox implements the password credential format used by the
// user store: a per-credential random salt followed by a PBKDF2-HMAC-SHA256
// derived key, both hex encoded into one string.
//
//	<64 hex chars salt><64 hex chars derived key>
package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/dmitrijs2005/mindcare/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the number of random salt bytes per credential.
	SaltSize = 32
	// KeySize is the derived key length in bytes.
	KeySize = 32
	// Iterations is the fixed PBKDF2 iteration count.
	Iterations = 100_000

	// SaltHexLen is the boundary at which a stored credential is split.
	SaltHexLen = SaltSize * 2
	// CredentialLen is the length of every credential produced by HashPassword.
	CredentialLen = (SaltSize + KeySize) * 2
)

// randRead is a seam for tests that need to force salt generation failures.
var randRead = rand.Read

func deriveKey(password, salt []byte, iterations int) []byte {
	return pbkdf2.Key(password, salt, iterations, KeySize, sha256.New)
}

// HashPassword derives a credential string for password under a fresh salt.
// Two calls with the same password never share a salt.
func HashPassword(password string) (string, error) {
	salt := make([]byte, SaltSize)
	if _, err := randRead(salt); err != nil {
		return "", fmt.Errorf("salt generation: %w", err)
	}

	key := deriveKey([]byte(password), salt, Iterations)
	return hex.EncodeToString(salt) + hex.EncodeToString(key), nil
}

// SplitCredential decodes a stored credential into its salt and derived key.
// Anything other than exactly SaltSize+KeySize hex-encoded bytes yields
// common.ErrMalformedCredential.
func SplitCredential(stored string) (salt, key []byte, err error) {
	if len(stored) != CredentialLen {
		return nil, nil, fmt.Errorf("%w: length %d, want %d", common.ErrMalformedCredential, len(stored), CredentialLen)
	}

	salt, err = hex.DecodeString(stored[:SaltHexLen])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: salt: %v", common.ErrMalformedCredential, err)
	}

	key, err = hex.DecodeString(stored[SaltHexLen:])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: key: %v", common.ErrMalformedCredential, err)
	}

	return salt, key, nil
}

// VerifyPassword re-derives password under the salt embedded in stored and
// compares the result with the stored key in constant time.
//
// The boolean is only meaningful when err is nil; a malformed credential is
// reported as an error rather than as a mismatch.
func VerifyPassword(stored, password string) (bool, error) {
	salt, want, err := SplitCredential(stored)
	if err != nil {
		return false, err
	}

	got := deriveKey([]byte(password), salt, Iterations)
	defer common.WipeByteArray(got)

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
