// Package fairness implements the commit-reveal winner-selection engine.
//
// The protocol is as follows: before a giveaway's entries close, a 256-bit
// secret seed is generated and its SHA-256 hash published as a commitment.
// After entries close the seed is revealed, each entry is scored with
// keyed_value = HMAC-SHA256(seed, deterministic_input), and the entry with
// the maximum score wins. Anyone holding the published proof can recompute
// both the commitment and the winning score, so the operator can neither
// choose nor predict the outcome.
package fairness

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// SeedLen is the seed size in bytes (256 bits of entropy).
const SeedLen = 32

// GenerateSeed reads a fresh secret seed from the given CSPRNG. Callers
// inject the random source (crypto/rand.Reader in production) so seed
// generation stays deterministic under test.
func GenerateSeed(random io.Reader) ([]byte, error) {
	seed := make([]byte, SeedLen)
	if _, err := io.ReadFull(random, seed); err != nil {
		return nil, fmt.Errorf("fairness: generating seed: %w", err)
	}
	return seed, nil
}

// Commitment returns the public, irreversible commitment to a seed as a hex
// digest: lowercase hex of SHA-256(seed).
func Commitment(seed []byte) string {
	sum := sha256.Sum256(seed)
	return hex.EncodeToString(sum[:])
}

// VerifyCommitment reports whether commitment is the SHA-256 digest of seed.
// The comparison is constant time.
func VerifyCommitment(seed []byte, commitment string) bool {
	want, err := hex.DecodeString(commitment)
	if err != nil {
		return false
	}
	sum := sha256.Sum256(seed)
	return hmac.Equal(sum[:], want)
}

// KeyedValue computes an entry's score: HMAC-SHA256 keyed by the seed over
// the entry's deterministic input, as raw digest bytes.
func KeyedValue(seed []byte, deterministicInput string) []byte {
	mac := hmac.New(sha256.New, seed)
	mac.Write([]byte(deterministicInput))
	return mac.Sum(nil)
}
