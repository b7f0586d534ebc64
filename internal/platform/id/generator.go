// Package id mints the opaque public identifiers handed out by the API:
// match ids, match-list ids, video suggestion ids, and import run ids.
// They carry no structure on purpose, so provider ids and database keys
// never leak into URLs.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator produces a new public id per call. Implementations must be safe
// for concurrent use.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator mints 32-character hex ids from crypto/rand.
type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generate public id: %w", err)
	}

	return hex.EncodeToString(buf[:]), nil
}
