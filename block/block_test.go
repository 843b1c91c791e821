package block

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func leaf(b byte) Hash {
	var h Hash
	h[0] = b
	return h
}

func TestMerkleRootDuplicatesLastLeafOnOddCount(t *testing.T) {
	odd := MerkleRoot([]Hash{leaf(1), leaf(2), leaf(3)})
	padded := MerkleRoot([]Hash{leaf(1), leaf(2), leaf(3), leaf(3)})
	require.Equal(t, padded, odd, "an odd leaf count must pad by duplicating the last leaf")
}

func TestMerkleRootEmptyIsZeroHash(t *testing.T) {
	require.Equal(t, ZeroHash, MerkleRoot(nil))
}

func TestCanonicalizeSignaturesDropsDuplicateKeys(t *testing.T) {
	sigs := []Signature{
		{PublicKey: "alice", Bytes: []byte{1}},
		{PublicKey: "bob", Bytes: []byte{2}},
		{PublicKey: "alice", Bytes: []byte{9}},
	}
	out := CanonicalizeSignatures(sigs)
	require.Len(t, out, 2)
	require.Equal(t, []byte{1}, out[0].Bytes, "first occurrence of a duplicate key wins")
}

func TestValidateGenesisRequiresZeroHeightAndZeroHash(t *testing.T) {
	b := Build(Header{ChainId: "test", Height: 0, PreviousBlockHash: ZeroHash}, nil, nil,
		[]Signature{{PublicKey: "a"}, {PublicKey: "b"}, {PublicKey: "c"}, {PublicKey: "d"}})
	require.NoError(t, Validate(b, nil, 4))

	bad := Build(Header{ChainId: "test", Height: 1, PreviousBlockHash: ZeroHash}, nil, nil, b.Signatures)
	require.ErrorIs(t, Validate(bad, nil, 4), ErrHeightMismatch)
}

func TestValidateRejectsWrongPreviousHash(t *testing.T) {
	parent := Header{ChainId: "test", Height: 0, PreviousBlockHash: ZeroHash}
	child := Build(Header{ChainId: "test", Height: 1, PreviousBlockHash: leaf(7)}, nil, nil,
		[]Signature{{PublicKey: "a"}, {PublicKey: "b"}, {PublicKey: "c"}, {PublicKey: "d"}})
	require.ErrorIs(t, Validate(child, &parent, 4), ErrPreviousHashMismatch)
}

func TestValidateRejectsInsufficientSignatures(t *testing.T) {
	parent := Header{ChainId: "test", Height: 0, PreviousBlockHash: ZeroHash}
	child := Build(Header{ChainId: "test", Height: 1, PreviousBlockHash: parent.Hash()}, nil, nil,
		[]Signature{{PublicKey: "a"}})
	require.ErrorIs(t, Validate(child, &parent, 4), ErrInsufficientSignatures)
}
