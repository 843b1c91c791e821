package sumeragi

import (
	"sync"

	"github.com/irohad/iroha2/block"
	"github.com/irohad/iroha2/internal/log"
	"github.com/irohad/iroha2/wsv"
	"github.com/pkg/errors"
)

var logger = log.NewModuleLogger(log.ModuleSumeragi)

// Phase names one step of the per-view protocol (spec §4.H).
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingProposal
	PhaseAwaitingValidatorSignatures
	PhaseAwaitingCommit
	PhaseCommitted
)

// ViewChangeReason names why a view is being abandoned (spec §4.H).
type ViewChangeReason int

const (
	ReasonPipelineTimeout ViewChangeReason = iota
	ReasonConflictingProposals
	ReasonProxyTailTimeout
)

// Candidate is the block a Leader proposes and Validators re-execute, kept
// separate from the fields already committed to chain so a rejected
// candidate never touches Header.PreviousBlockHash bookkeeping.
type Candidate struct {
	Block        *block.Block
	PostStateHash block.Hash
}

// View tracks the state of one round of the per-view protocol: the current
// topology, the candidate under consideration, and the signatures
// ProxyTail has aggregated so far. One View exists per peer per height; a
// view change replaces it with a fresh one at an incremented
// view_change_index.
type View struct {
	mu sync.Mutex

	topology       *Topology
	viewChangeIndex uint64
	self           wsv.PeerId

	phase     Phase
	candidate *Candidate
	sigs      []block.Signature

	cache *TopologyCache
}

// NewView starts a fresh view over topology for self, at view-change index 0,
// with no rotation cache: every ViewChange recomputes its rotation.
func NewView(topology *Topology, self wsv.PeerId) *View {
	return &View{topology: topology, self: self, phase: PhaseIdle}
}

// NewViewWithCache is NewView but shares cache across the views a node
// produces over its lifetime, so repeated view changes driven by the same
// block hash (e.g. during re-sync) don't recompute the rotation.
func NewViewWithCache(topology *Topology, self wsv.PeerId, cache *TopologyCache) *View {
	return &View{topology: topology, self: self, phase: PhaseIdle, cache: cache}
}

func (v *View) Role() Role { return v.topology.RoleOf(v.self) }

// Propose is called by the Leader once it has drained the queue and
// executed a candidate block against a private WSV snapshot (spec §4.H
// step 1). It signs the candidate and records it as this view's working
// proposal.
func (v *View) Propose(candidate *Candidate, sign func(block.Hash) []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.Role() != RoleLeader {
		return errors.New("sumeragi: only the Leader may propose")
	}
	if v.phase != PhaseIdle {
		return errors.New("sumeragi: a proposal is already in flight for this view")
	}
	v.candidate = candidate
	v.sigs = []block.Signature{{PublicKey: string(v.self.PublicKey), Bytes: sign(candidate.Block.Header.Hash())}}
	v.phase = PhaseAwaitingValidatorSignatures
	return nil
}

// ValidateAndSign is called by a ValidatingPeer after independently
// re-executing the proposal. It only signs if its own post-state hash
// agrees with the Leader's (spec §4.H step 2); on mismatch the proposal is
// rejected without signing, which naturally starves the round toward a
// pipeline-timeout view change.
func (v *View) ValidateAndSign(candidate *Candidate, localPostStateHash block.Hash, sign func(block.Hash) []byte) (block.Signature, bool) {
	if candidate.PostStateHash != localPostStateHash {
		logger.Warn("post-state hash mismatch, withholding signature", "view_change_index", v.viewChangeIndex)
		return block.Signature{}, false
	}
	return block.Signature{PublicKey: string(v.self.PublicKey), Bytes: sign(candidate.Block.Header.Hash())}, true
}

// ReceiveValidatorSignature is called on the ProxyTail as validator
// signatures arrive, aggregating toward the 2f+1 threshold (spec §4.H step
// 3). Returns true once the threshold is reached and BlockCommitted should
// broadcast.
func (v *View) ReceiveValidatorSignature(sig block.Signature) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.sigs = block.CanonicalizeSignatures(append(v.sigs, sig))
	return len(v.sigs) >= v.topology.SignatureThreshold()
}

// Commit finalizes this view's candidate into a committed Block carrying
// every aggregated signature, and marks the view Committed.
func (v *View) Commit() *block.Block {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.candidate.Block.Signatures = v.sigs
	v.phase = PhaseCommitted
	return v.candidate.Block
}

// ViewChange produces the next view: same topology rotated by
// Rotated(lastBlockHash) (a hash-derived shift of at least one position,
// not always exactly one), view_change_index incremented, all round state
// cleared (spec §4.H "view-change triggers").
func (v *View) ViewChange(reason ViewChangeReason, lastBlockHash block.Hash) *View {
	v.mu.Lock()
	defer v.mu.Unlock()

	logger.Info("view change", "reason", reason, "from_index", v.viewChangeIndex)
	return &View{
		topology:        v.topology.RotatedCached(lastBlockHash, v.cache),
		viewChangeIndex: v.viewChangeIndex + 1,
		self:            v.self,
		phase:           PhaseIdle,
		cache:           v.cache,
	}
}

// ViewChangeIndex reports the current view's index, stamped into the
// header of any block this view eventually commits.
func (v *View) ViewChangeIndex() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.viewChangeIndex
}
