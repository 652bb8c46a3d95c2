package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// hashLen is the number of hex characters kept from the digest. The hash is a
// content fingerprint for addressing notes, not a security primitive.
const hashLen = 12

// shortHashLen is the prefix length used when rendering notes for humans and models.
const shortHashLen = 7

// Note is an immutable, timestamped compression of a reasoning episode.
// Notes form a per-scope append-only chain via ParentHash and are never edited
// or deleted after creation; correcting a prior note means appending a new
// corrective note. After emission a Note should be treated as immutable.
type Note struct {
	Hash             string    `json:"hash"`
	Message          string    `json:"message"`
	Timestamp        time.Time `json:"timestamp"`
	ParentHash       string    `json:"parent_hash,omitempty"`
	MessagesSnapshot []Message `json:"messages_snapshot,omitempty"` // Working memory at note time, never sent to the model by default
}

// ShortHash returns the display prefix of the note hash.
func (n Note) ShortHash() string {
	if len(n.Hash) < shortHashLen {
		return n.Hash
	}
	return n.Hash[:shortHashLen]
}

// noteHash derives a fixed-length fingerprint from the note content, its
// parent and a store-wide sequence number. The sequence number keeps hashes
// distinct even when identical content is recorded twice under a coarse clock.
func noteHash(message, parentHash string, seq uint64, ts time.Time) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d|%d", message, parentHash, seq, ts.UnixNano())))
	return hex.EncodeToString(sum[:])[:hashLen]
}
