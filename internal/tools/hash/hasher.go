package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"hash"
	"hash/fnv"
)

type ObjectHash struct {
	hash.Hash
}

// the hash is cumulative, so you can call SumHash() multiple times
// with different values and the hash will be updated
func (h *ObjectHash) SumHash(a ...any) error {
	for _, v := range a {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := h.Write(b); err != nil {
			return err
		}
	}
	return nil
}

func (h *ObjectHash) Reset() {
	h.Hash.Reset()
}

func (h *ObjectHash) GetHash() string {
	return hex.EncodeToString(h.Hash.Sum(nil))
}

// NewFNVObjectHash returns a 64 bit FNV hash, used to detect spec drift.
func NewFNVObjectHash() ObjectHash {
	return ObjectHash{fnv.New64()}
}

// NewSHA256ObjectHash returns a SHA-256 hash, used to address published content.
func NewSHA256ObjectHash() ObjectHash {
	return ObjectHash{sha256.New()}
}

// Content returns the hex encoded SHA-256 digest of data.
func Content(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
