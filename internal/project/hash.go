package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest is a SHA-256 content hash.
type Digest [32]byte

// Sum hashes data.
func Sum(data []byte) Digest { return sha256.Sum256(data) }

// Combine hashes content followed by each salt in order. Build caches key
// entries on Combine(source, compiler version, schema).
func Combine(content Digest, salts ...[]byte) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, s := range salts {
		_, _ = h.Write(s)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (d Digest) String() string { return hex.EncodeToString(d[:]) }
