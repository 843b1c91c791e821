package sumeragi

import (
	"testing"

	"github.com/irohad/iroha2/block"
	"github.com/irohad/iroha2/wsv"
	"github.com/stretchr/testify/require"
)

func fourPeers() []wsv.PeerId {
	return []wsv.PeerId{
		{Address: "p0:1", PublicKey: "k0"},
		{Address: "p1:1", PublicKey: "k1"},
		{Address: "p2:1", PublicKey: "k2"},
		{Address: "p3:1", PublicKey: "k3"},
	}
}

func TestTopologyRolesForFourPeersToleratesOneFault(t *testing.T) {
	topo := NewTopology(fourPeers())
	require.Equal(t, 1, topo.MaxFaults())
	require.Equal(t, 3, topo.SignatureThreshold())

	peers := fourPeers()
	require.Equal(t, RoleLeader, topo.RoleOf(peers[0]))
	require.Equal(t, RoleProxyTail, topo.RoleOf(peers[1]))
	require.Equal(t, RoleValidatingPeer, topo.RoleOf(peers[2]))
	require.Equal(t, RoleObservingPeer, topo.RoleOf(peers[3]))
}

func TestTopologyRotationAdvancesLeader(t *testing.T) {
	topo := NewTopology(fourPeers())
	hash := block.Hash{1} // shift = 1 % 4 = 1
	rotated := topo.Rotated(hash)
	require.Equal(t, fourPeers()[1], rotated.Leader())
}

func TestViewChangeIncrementsIndexAndRotates(t *testing.T) {
	topo := NewTopology(fourPeers())
	v := NewView(topo, fourPeers()[0])
	require.Equal(t, RoleLeader, v.Role())

	next := v.ViewChange(ReasonPipelineTimeout, block.Hash{1})
	require.Equal(t, uint64(1), next.ViewChangeIndex())
	require.NotEqual(t, v.topology.Leader(), next.topology.Leader())
}

func TestViewChangeCacheServesRepeatedRotation(t *testing.T) {
	topo := NewTopology(fourPeers())
	cache := NewTopologyCache()
	v := NewViewWithCache(topo, fourPeers()[0], cache)

	first := v.ViewChange(ReasonPipelineTimeout, block.Hash{1})
	second := v.ViewChange(ReasonPipelineTimeout, block.Hash{1})
	require.Same(t, first.topology, second.topology)
}

func TestProposeValidateCommitRoundTrip(t *testing.T) {
	peers := fourPeers()
	topo := NewTopology(peers)

	leaderView := NewView(topo, peers[0])
	proxyView := NewView(topo, peers[1])

	candidateBlock := &block.Block{Header: block.Header{ChainId: "test", Height: 1}}
	candidate := &Candidate{Block: candidateBlock, PostStateHash: block.Hash{42}}

	sign := func(h block.Hash) []byte { return h[:] }
	require.NoError(t, leaderView.Propose(candidate, sign))

	sig, ok := proxyView.ValidateAndSign(candidate, block.Hash{42}, sign)
	require.True(t, ok)

	reached := leaderView.ReceiveValidatorSignature(sig)
	require.False(t, reached, "one more signature is not yet 2f+1 of 3")

	sig2 := block.Signature{PublicKey: string(peers[2].PublicKey), Bytes: []byte{1}}
	reached = leaderView.ReceiveValidatorSignature(sig2)
	require.True(t, reached)

	committed := leaderView.Commit()
	require.Len(t, committed.Signatures, 3)
}

func TestValidateWithholdsSignatureOnPostStateMismatch(t *testing.T) {
	peers := fourPeers()
	topo := NewTopology(peers)
	v := NewView(topo, peers[2])

	candidate := &Candidate{Block: &block.Block{Header: block.Header{Height: 1}}, PostStateHash: block.Hash{1}}
	_, ok := v.ValidateAndSign(candidate, block.Hash{2}, func(h block.Hash) []byte { return h[:] })
	require.False(t, ok)
}

func TestSoftForkReplacesOnMoreSignatures(t *testing.T) {
	topo := NewTopology(fourPeers())
	peers := fourPeers()

	own := &block.Block{
		Header:     block.Header{Height: 1, PreviousBlockHash: block.ZeroHash},
		Signatures: []block.Signature{{PublicKey: string(peers[0].PublicKey)}},
	}
	incoming := &block.Block{
		Header: block.Header{Height: 1, PreviousBlockHash: block.ZeroHash},
		Signatures: []block.Signature{
			{PublicKey: string(peers[0].PublicKey)},
			{PublicKey: string(peers[1].PublicKey)},
			{PublicKey: string(peers[2].PublicKey)},
		},
	}

	require.Equal(t, ReplaceWithIncoming, EvaluateCommittedBlock(own, incoming, topo, false))
}

func TestHardForkDetectedOnDifferingHistory(t *testing.T) {
	topo := NewTopology(fourPeers())
	own := &block.Block{Header: block.Header{Height: 1, PreviousBlockHash: block.Hash{1}}}
	incoming := &block.Block{Header: block.Header{Height: 1, PreviousBlockHash: block.Hash{2}}}
	require.Equal(t, HardForkDetected, EvaluateCommittedBlock(own, incoming, topo, false))
}

func TestForceSoftForkOverridesSignatureCount(t *testing.T) {
	topo := NewTopology(fourPeers())
	own := &block.Block{Header: block.Header{Height: 1, PreviousBlockHash: block.ZeroHash}, Signatures: []block.Signature{{PublicKey: "k0"}, {PublicKey: "k1"}, {PublicKey: "k2"}}}
	incoming := &block.Block{Header: block.Header{Height: 1, PreviousBlockHash: block.ZeroHash}, Signatures: []block.Signature{{PublicKey: "k0"}}}
	require.Equal(t, ReplaceWithIncoming, EvaluateCommittedBlock(own, incoming, topo, true))
}
