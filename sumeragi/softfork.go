package sumeragi

import "github.com/irohad/iroha2/block"

// SoftForkDecision is the result of comparing two committed blocks at the
// same height (spec §4.H).
type SoftForkDecision int

const (
	KeepOwnBlock SoftForkDecision = iota
	ReplaceWithIncoming
	HardForkDetected
)

// EvaluateCommittedBlock decides, for a peer that already committed own at
// a given height, what to do on receiving incoming committed at the same
// height. Differing prior history (a different previous_block_hash) is a
// hard fork and always fatal. Otherwise, if incoming carries strictly more
// canonical signatures from the current topology than own, the peer
// replaces its block — a soft fork (spec §4.H). forceSoftFork is the debug
// knob that deterministically takes the ReplaceWithIncoming branch
// regardless of signature counts, for testing.
func EvaluateCommittedBlock(own, incoming *block.Block, topology *Topology, forceSoftFork bool) SoftForkDecision {
	if own.Header.PreviousBlockHash != incoming.Header.PreviousBlockHash {
		return HardForkDetected
	}
	if forceSoftFork {
		return ReplaceWithIncoming
	}

	ownCount := countFromTopology(own.Signatures, topology)
	incomingCount := countFromTopology(incoming.Signatures, topology)
	if incomingCount > ownCount {
		return ReplaceWithIncoming
	}
	return KeepOwnBlock
}

func countFromTopology(sigs []block.Signature, topology *Topology) int {
	known := make(map[string]bool, topology.Size())
	for _, p := range topology.peers {
		known[string(p.PublicKey)] = true
	}
	n := 0
	for _, s := range block.CanonicalizeSignatures(sigs) {
		if known[s.PublicKey] {
			n++
		}
	}
	return n
}
