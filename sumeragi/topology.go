// Package sumeragi implements the BFT consensus protocol: topology role
// derivation, the per-view propose/validate/sign/commit state machine,
// view-change triggers and soft-fork handling (spec §4.H). It is
// structured the way klaytn's consensus/istanbul/{validator,core} packages
// separate "who has which role in this round" from "what state is the
// round protocol in", generalized from Istanbul's single-proposer PBFT
// round to Sumeragi's Leader/ProxyTail/ValidatingPeer/ObservingPeer
// topology.
package sumeragi

import (
	"github.com/irohad/iroha2/block"
	"github.com/irohad/iroha2/wsv"
	lru "github.com/hashicorp/golang-lru"
)

// inmemoryTopologies bounds TopologyCache the way istanbul's backend bounds
// its recent validator-set snapshot cache (consensus/istanbul/backend
// backend.go's inmemorySnapshots).
const inmemoryTopologies = 128

// Role is a peer's position in the current topology.
type Role int

const (
	RoleObservingPeer Role = iota
	RoleValidatingPeer
	RoleProxyTail
	RoleLeader
)

func (r Role) String() string {
	switch r {
	case RoleLeader:
		return "Leader"
	case RoleProxyTail:
		return "ProxyTail"
	case RoleValidatingPeer:
		return "ValidatingPeer"
	default:
		return "ObservingPeer"
	}
}

// Topology is the ordered, rotating peer list a view's roles are derived
// from. Size n tolerates f = (n-1)/3 Byzantine faults (spec §4.H: n >=
// 3f+1).
type Topology struct {
	peers []wsv.PeerId
}

// NewTopology returns a topology over peers in the given trusted order.
func NewTopology(peers []wsv.PeerId) *Topology {
	return &Topology{peers: append([]wsv.PeerId(nil), peers...)}
}

func (t *Topology) Size() int { return len(t.peers) }

// MaxFaults returns f for the current topology size.
func (t *Topology) MaxFaults() int { return (len(t.peers) - 1) / 3 }

// Rotated returns a new Topology derived from the last committed block
// hash: the peer list shifts left by lastBlockHash[0] mod n positions (one
// position when that is zero), and the peer at that offset becomes Leader.
// The shift comes from the hash alone; it is not a fixed one-position step.
func (t *Topology) Rotated(lastBlockHash block.Hash) *Topology {
	if len(t.peers) == 0 {
		return NewTopology(nil)
	}
	shift := int(lastBlockHash[0]) % len(t.peers)
	if shift == 0 {
		shift = 1
	}
	rotated := make([]wsv.PeerId, len(t.peers))
	for i := range t.peers {
		rotated[i] = t.peers[(i+shift)%len(t.peers)]
	}
	return NewTopology(rotated)
}

// RoleOf reports peer's role in this topology. Position 0 is Leader,
// position 1 is ProxyTail, positions 2..n-f-1 are ValidatingPeer, the
// remaining f positions are ObservingPeer (spec §4.H).
func (t *Topology) RoleOf(peer wsv.PeerId) Role {
	idx := t.indexOf(peer)
	if idx < 0 {
		return RoleObservingPeer
	}
	f := t.MaxFaults()
	switch {
	case idx == 0:
		return RoleLeader
	case idx == 1 && len(t.peers) > 1:
		return RoleProxyTail
	case idx < len(t.peers)-f:
		return RoleValidatingPeer
	default:
		return RoleObservingPeer
	}
}

func (t *Topology) indexOf(peer wsv.PeerId) int {
	for i, p := range t.peers {
		if p == peer {
			return i
		}
	}
	return -1
}

// topologyCacheKey identifies a rotation by the topology it started from
// (its current Leader and size are enough to disambiguate in practice) and
// the block hash driving the rotation.
type topologyCacheKey struct {
	leader wsv.PeerId
	size   int
	hash   block.Hash
}

// TopologyCache recalls recently-computed rotations, the way istanbul's
// backend caches recent validator-set snapshots by block hash
// (consensus/istanbul/backend/backend.go's recents ARC cache) rather than
// re-deriving a rotation already seen for this block hash.
type TopologyCache struct {
	cache *lru.ARCCache
}

// NewTopologyCache returns an empty, bounded TopologyCache.
func NewTopologyCache() *TopologyCache {
	c, _ := lru.NewARC(inmemoryTopologies)
	return &TopologyCache{cache: c}
}

// RotatedCached behaves like Rotated but serves a cached result when this
// exact topology has already been rotated by lastBlockHash before. A nil
// cache always recomputes.
func (t *Topology) RotatedCached(lastBlockHash block.Hash, cache *TopologyCache) *Topology {
	if cache == nil {
		return t.Rotated(lastBlockHash)
	}
	key := topologyCacheKey{leader: t.Leader(), size: len(t.peers), hash: lastBlockHash}
	if v, ok := cache.cache.Get(key); ok {
		return v.(*Topology)
	}
	rotated := t.Rotated(lastBlockHash)
	cache.cache.Add(key, rotated)
	return rotated
}

// Leader returns the current Leader peer, or the zero PeerId if the
// topology is empty.
func (t *Topology) Leader() wsv.PeerId {
	if len(t.peers) == 0 {
		return wsv.PeerId{}
	}
	return t.peers[0]
}

// ProxyTail returns the current ProxyTail peer.
func (t *Topology) ProxyTail() wsv.PeerId {
	if len(t.peers) < 2 {
		return wsv.PeerId{}
	}
	return t.peers[1]
}

// ValidatingPeers returns the peers holding the ValidatingPeer role.
func (t *Topology) ValidatingPeers() []wsv.PeerId {
	f := t.MaxFaults()
	end := len(t.peers) - f
	if end < 2 {
		return nil
	}
	return append([]wsv.PeerId(nil), t.peers[2:end]...)
}

// SignatureThreshold is the number of signatures ProxyTail must aggregate
// before broadcasting BlockCommitted: 2f+1 (spec §4.H).
func (t *Topology) SignatureThreshold() int {
	return 2*t.MaxFaults() + 1
}
