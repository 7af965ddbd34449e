// Package hash provides content hashing for intent-record identity.
//
// Monover names each on-disk intent record after a truncated SHA-256 hash of
// its canonical content. Identical decision sets therefore always land in the
// same file (repeated saves are byte-stable no-ops), while any change in the
// decisions produces a new record that supersedes the old one instead of
// overwriting it.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// RecordNameLength is the number of hex characters kept from the full digest
// when naming record files.
const RecordNameLength = 12

// Hasher provides an abstraction for content hashing operations.
type Hasher interface {
	// HashBytes computes the hex-encoded hash of the given content.
	HashBytes(data []byte) string
}

// SHA256Hasher implements Hasher using SHA-256.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// HashBytes computes the SHA-256 hash of the given content.
func (h *SHA256Hasher) HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FakeHasher implements Hasher with deterministic canned hashes for testing.
type FakeHasher struct {
	hashes map[string]string
}

// NewFakeHasher creates a new FakeHasher.
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{
		hashes: make(map[string]string),
	}
}

// SetHash sets the hash to return for specific content.
func (h *FakeHasher) SetHash(content, hash string) {
	h.hashes[content] = hash
}

// HashBytes returns the canned hash for the given content, or a fixed
// placeholder when none was set.
func (h *FakeHasher) HashBytes(data []byte) string {
	if hash, ok := h.hashes[string(data)]; ok {
		return hash
	}
	return "fakehashfakehashfakehash"
}
