// Package gate implements the preview access gate: a password compared by
// SHA-256 digest, with a cap on failed attempts.
//
// The gate keeps casual visitors out of a preview. It is not access control:
// the digest ships with the configuration.
package gate

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// DefaultMaxAttempts is the number of failed attempts before the gate locks.
const DefaultMaxAttempts = 8

var (
	// ErrIncorrect is returned for a wrong password while attempts remain.
	ErrIncorrect = errors.New("incorrect password")
	// ErrLocked is returned once the attempt budget is spent. A locked gate
	// stays locked even for the right password.
	ErrLocked = errors.New("too many attempts, try again later")
)

// Gate checks passwords against a SHA-256 hex digest. Not safe for
// concurrent use.
type Gate struct {
	digest      []byte
	maxAttempts int
	failures    int
	unlocked    bool
}

// New creates a Gate for the given hex digest. maxAttempts <= 0 means
// DefaultMaxAttempts.
func New(hexDigest string, maxAttempts int) (*Gate, error) {
	digest, err := hex.DecodeString(strings.TrimSpace(hexDigest))
	if err != nil {
		return nil, fmt.Errorf("gate: digest is not hex: %w", err)
	}
	if len(digest) != sha256.Size {
		return nil, fmt.Errorf("gate: digest has %d bytes, want %d", len(digest), sha256.Size)
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Gate{digest: digest, maxAttempts: maxAttempts}, nil
}

// Hash returns the hex SHA-256 digest of password, the form stored in
// configuration.
func Hash(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Check tries password. It returns nil and unlocks the gate on a match.
func (g *Gate) Check(password string) error {
	if g.unlocked {
		return nil
	}
	if g.Locked() {
		return ErrLocked
	}

	sum := sha256.Sum256([]byte(password))
	if subtle.ConstantTimeCompare(sum[:], g.digest) == 1 {
		g.unlocked = true
		return nil
	}

	g.failures++
	if g.Locked() {
		return ErrLocked
	}
	return ErrIncorrect
}

func (g *Gate) Unlocked() bool { return g.unlocked }

func (g *Gate) Locked() bool { return !g.unlocked && g.failures >= g.maxAttempts }

// Remaining is the number of attempts left before the gate locks.
func (g *Gate) Remaining() int {
	return max(g.maxAttempts-g.failures, 0)
}
