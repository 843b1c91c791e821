// Package block implements header hashing, Merkle roots and signature
// canonicalization for committed blocks (spec §4.G). Hashing follows the
// same golang.org/x/crypto/sha3 Keccak-family construction klaytn's
// blockchain/types package leans on for header hashes, rather than reaching
// for stdlib sha256 — keeping the same hash family as the rest of the
// dependency-bearing stack.
package block

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// Hash is a 32-byte block or node digest.
type Hash [32]byte

var ZeroHash = Hash{}

func hashBytes(chunks ...[]byte) Hash {
	h := sha3.New256()
	for _, c := range chunks {
		h.Write(c)
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// Header carries every field spec §3 names for a committed block, hashed in
// this fixed canonical order to produce BlockHash.
type Header struct {
	ChainId                   string
	Height                    uint64
	TimestampMs               uint64
	PreviousBlockHash         Hash
	TransactionsMerkleRoot    Hash
	RejectedTransactionsMerkleRoot Hash
	ViewChangeIndex           uint64
	ConsensusEstimationMs     uint64
}

// Hash computes BlockHash by feeding every header field, in declaration
// order, into one digest.
func (h Header) Hash() Hash {
	var buf [8]byte
	u64 := func(v uint64) []byte {
		binary.BigEndian.PutUint64(buf[:], v)
		return append([]byte(nil), buf[:]...)
	}
	return hashBytes(
		[]byte(h.ChainId),
		u64(h.Height),
		u64(h.TimestampMs),
		h.PreviousBlockHash[:],
		h.TransactionsMerkleRoot[:],
		h.RejectedTransactionsMerkleRoot[:],
		u64(h.ViewChangeIndex),
		u64(h.ConsensusEstimationMs),
	)
}

// MerkleRoot builds the standard pair-hash Merkle root over leaves, padding
// an odd level by duplicating its last leaf (spec §4.G). An empty leaf set
// roots to the zero hash, matching an empty rejected-transactions list.
func MerkleRoot(leaves []Hash) Hash {
	if len(leaves) == 0 {
		return ZeroHash
	}
	level := append([]Hash(nil), leaves...)
	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		next := make([]Hash, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			next = append(next, hashBytes(level[i][:], level[i+1][:]))
		}
		level = next
	}
	return level[0]
}
