package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// Domain-specific hash types
type (
	// ContentHash identifies raw uploaded bytes; it keys the load cache.
	ContentHash Hash
	// TableFingerprint identifies a materialized table; it keys the export cache.
	TableFingerprint Hash
)

func NewContentHash(data []byte) ContentHash           { return ContentHash(NewHash(data)) }
func NewTableFingerprint(data []byte) TableFingerprint { return TableFingerprint(NewHash(data)) }

func (h ContentHash) String() string      { return Hash(h).String() }
func (h TableFingerprint) String() string { return Hash(h).String() }
