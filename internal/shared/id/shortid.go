// Package id generates identifiers used across the backend.
package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	// Base62 alphabet: 0-9, A-Z, a-z
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// DefaultLength is the default length for generated short IDs
	DefaultLength = 12

	// ReferralPrefix starts every referral code.
	ReferralPrefix = "FIT"
	// ReferralLength is the random part of a referral code.
	ReferralLength = 8
	// InviteTokenLength is the length of a family invite token.
	InviteTokenLength = 24
)

// Generate creates a cryptographically random base62 string of the given length.
func Generate(length int) (string, error) {
	return generateFrom(alphabet, length)
}

func generateFrom(chars string, length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	result := make([]byte, length)
	n := big.NewInt(int64(len(chars)))

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, n)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = chars[num.Int64()]
	}

	return string(result), nil
}

// MustGenerate creates a random short ID and panics on error.
func MustGenerate(length int) string {
	s, err := Generate(length)
	if err != nil {
		panic(err)
	}
	return s
}

// NewUUID returns a random row identifier.
func NewUUID() string {
	return uuid.NewString()
}

// IsUUID reports whether s parses as a UUID.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// NewReferralCode returns a code like FIT7KQ2M9XA. The random part only uses
// digits and upper case letters so codes survive case-insensitive entry.
func NewReferralCode() (string, error) {
	suffix, err := generateFrom(alphabet[:36], ReferralLength)
	if err != nil {
		return "", err
	}
	return ReferralPrefix + suffix, nil
}

// NormalizeReferralCode upper-cases and trims user supplied codes.
func NormalizeReferralCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsReferralCode checks the FIT + 8 alphanumeric format.
func IsReferralCode(code string) bool {
	if len(code) != len(ReferralPrefix)+ReferralLength || !strings.HasPrefix(code, ReferralPrefix) {
		return false
	}
	for _, c := range code[len(ReferralPrefix):] {
		if !strings.ContainsRune(alphabet[:36], c) {
			return false
		}
	}
	return true
}

// NewInviteToken returns an opaque URL-safe token for family invites.
func NewInviteToken() (string, error) {
	return Generate(InviteTokenLength)
}
