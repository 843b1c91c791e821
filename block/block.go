package block

import "github.com/pkg/errors"

// RejectedTransaction pairs a transaction hash with why it was rejected
// from the accepted set (spec §3 Block).
type RejectedTransaction struct {
	Hash   Hash
	Reason string
}

// Signature is one peer's signature over a block's Header.Hash().
type Signature struct {
	PublicKey string
	Bytes     []byte
}

// Block is a committed block: header, the transactions that made it in,
// the ones that didn't and why, and the peer signatures attesting to it.
type Block struct {
	Header               Header
	AcceptedTransactions []Hash
	Rejected             []RejectedTransaction
	Signatures           []Signature
}

var (
	ErrHeightMismatch      = errors.New("block: height must be exactly one more than the previous block")
	ErrPreviousHashMismatch = errors.New("block: previous_block_hash does not match the prior committed header")
	ErrInsufficientSignatures = errors.New("block: fewer than f+1 distinct peer signatures")
)

// CanonicalizeSignatures drops duplicate signatures from the same public
// key, keeping the first occurrence (spec §4.G: "Signatures are canonical,
// one per peer public key; duplicate signatures from the same key are
// deduplicated").
func CanonicalizeSignatures(sigs []Signature) []Signature {
	seen := make(map[string]bool, len(sigs))
	out := make([]Signature, 0, len(sigs))
	for _, s := range sigs {
		if seen[s.PublicKey] {
			continue
		}
		seen[s.PublicKey] = true
		out = append(out, s)
	}
	return out
}

// Validate checks the structural invariants spec §3 places on a Block
// relative to its parent: height increases by one, previous_block_hash
// matches the parent's header hash (or the zero hash for genesis), and at
// least f+1 distinct-key signatures are present, where f is the maximum
// tolerated Byzantine fault count for a topology of n peers (spec §4.H:
// n >= 3f+1).
func Validate(b *Block, parent *Header, n int) error {
	if parent == nil {
		if b.Header.Height != 0 {
			return ErrHeightMismatch
		}
		if b.Header.PreviousBlockHash != ZeroHash {
			return ErrPreviousHashMismatch
		}
	} else {
		if b.Header.Height != parent.Height+1 {
			return ErrHeightMismatch
		}
		if b.Header.PreviousBlockHash != parent.Hash() {
			return ErrPreviousHashMismatch
		}
	}

	f := (n - 1) / 3
	canon := CanonicalizeSignatures(b.Signatures)
	if len(canon) < f+1 {
		return ErrInsufficientSignatures
	}
	return nil
}

// Build assembles a Block from an accepted/rejected transaction hash set,
// deriving both Merkle roots (spec §4.G).
func Build(header Header, accepted []Hash, rejected []RejectedTransaction, sigs []Signature) *Block {
	header.TransactionsMerkleRoot = MerkleRoot(accepted)
	rejectedHashes := make([]Hash, len(rejected))
	for i, r := range rejected {
		rejectedHashes[i] = r.Hash
	}
	header.RejectedTransactionsMerkleRoot = MerkleRoot(rejectedHashes)
	return &Block{
		Header:               header,
		AcceptedTransactions: accepted,
		Rejected:             rejected,
		Signatures:           CanonicalizeSignatures(sigs),
	}
}
