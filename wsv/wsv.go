package wsv

import (
	"fmt"
	"sync"

	"github.com/irohad/iroha2/internal/log"
	"golang.org/x/sync/singleflight"
)

var logger = log.NewModuleLogger(log.ModuleWSV)

// Parameters holds chain-wide tunables that ISI SetParameter may adjust at
// runtime (spec §6 chain_wide.* and executor/wasm limits).
type Parameters struct {
	BlockTimeMs            uint64
	CommitTimeMs            uint64
	MaxTransactionsInBlock  uint32
	ExecutorFuelLimit       uint64
	ExecutorMaxMemoryBytes  uint64
	WasmFuelLimit           uint64
	WasmMaxMemoryBytes      uint64
	MetadataLimits          MetadataLimits
}

// DefaultParameters mirrors values exercised by this package's own tests.
var DefaultParameters = Parameters{
	BlockTimeMs:            2000,
	CommitTimeMs:           4000,
	MaxTransactionsInBlock: 512,
	ExecutorFuelLimit:      1_000_000,
	ExecutorMaxMemoryBytes: 16 * 1024 * 1024,
	WasmFuelLimit:          30_000_000,
	WasmMaxMemoryBytes:     32 * 1024 * 1024,
	MetadataLimits:         DefaultMetadataLimits,
}

// WSV is the single authoritative, mutable state object for the chain.
// Mutation is funnelled exclusively through the isi package's Execute
// calls during one block's transition (spec §4.D/§5); WSV itself only
// exposes plain reads plus the small set of mutating methods the isi
// package is implemented in terms of. A single RWMutex lets snapshot reads
// (queries, Clone) proceed concurrently while never observing a
// mid-mutation state: writers hold the write lock for the whole block
// transition.
type WSV struct {
	mu sync.RWMutex

	Domains    map[DomainId]*Domain
	Peers      map[PeerId]struct{}
	Roles      map[RoleId]*Role
	Triggers   map[TriggerId]*Trigger
	Parameters Parameters

	Height    uint64
	LastBlockHash [32]byte

	ix      *indexes
	journal *Journal

	sf singleflight.Group
}

// New returns an empty WSV ready for genesis application.
func New() *WSV {
	w := &WSV{
		Domains:    make(map[DomainId]*Domain),
		Peers:      make(map[PeerId]struct{}),
		Roles:      make(map[RoleId]*Role),
		Triggers:   make(map[TriggerId]*Trigger),
		Parameters: DefaultParameters,
		journal:    NewJournal(),
	}
	w.ix = newIndexes()
	return w
}

// Lock/Unlock expose the writer-exclusive critical section used by one
// block's transition (isi.Execute calls run while this lock is held).
func (w *WSV) Lock()   { w.mu.Lock() }
func (w *WSV) Unlock() { w.mu.Unlock() }

// RLock/RUnlock support concurrent snapshot reads between commits.
func (w *WSV) RLock()   { w.mu.RLock() }
func (w *WSV) RUnlock() { w.mu.RUnlock() }

// Publish appends an event to the current block's journal. Called by isi
// handlers while the write lock is held.
func (w *WSV) Publish(e Event) { w.journal.Publish(e) }

// DrainEvents removes and returns all events published since the last
// drain, in order. The trigger engine calls this between phases.
func (w *WSV) DrainEvents() []Event { return w.journal.Drain() }

// Snapshot returns a top-level, deep-enough copy of the current state (the
// same qualifier Metadata.Clone uses): its own maps, safe to range or index
// independently of further mutation of w, though the Domain/Role/Trigger
// values they point to are shared. Concurrent callers snapshotting the same
// committed height are coalesced onto a single clone via singleflight,
// rather than each paying for a redundant copy — the same
// coalesce-identical-concurrent-work idiom a DID resolver cache uses.
func (w *WSV) Snapshot() *WSV {
	w.mu.RLock()
	key := fmt.Sprintf("%d:%x", w.Height, w.LastBlockHash)
	w.mu.RUnlock()

	v, _, _ := w.sf.Do(key, func() (interface{}, error) {
		return w.clone(), nil
	})
	return v.(*WSV)
}

func (w *WSV) clone() *WSV {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := &WSV{
		Domains:       make(map[DomainId]*Domain, len(w.Domains)),
		Peers:         make(map[PeerId]struct{}, len(w.Peers)),
		Roles:         make(map[RoleId]*Role, len(w.Roles)),
		Triggers:      make(map[TriggerId]*Trigger, len(w.Triggers)),
		Parameters:    w.Parameters,
		Height:        w.Height,
		LastBlockHash: w.LastBlockHash,
		journal:       NewJournal(),
	}
	for k, v := range w.Domains {
		out.Domains[k] = v
	}
	for k := range w.Peers {
		out.Peers[k] = struct{}{}
	}
	for k, v := range w.Roles {
		out.Roles[k] = v
	}
	for k, v := range w.Triggers {
		out.Triggers[k] = v
	}
	out.ix = w.ix.clone()
	return out
}

// Domain looks up a domain by id.
func (w *WSV) Domain(id DomainId) (*Domain, error) {
	d, ok := w.Domains[id]
	if !ok {
		return nil, &FindError{Entity: "Domain", Id: id}
	}
	return d, nil
}

// Account looks up an account within its domain.
func (w *WSV) Account(id AccountId) (*Account, error) {
	d, err := w.Domain(id.Domain)
	if err != nil {
		return nil, err
	}
	a, ok := d.Accounts[id]
	if !ok {
		return nil, &FindError{Entity: "Account", Id: id}
	}
	return a, nil
}

// AssetDefinition looks up an asset definition within its domain.
func (w *WSV) AssetDefinition(id AssetDefinitionId) (*AssetDefinition, error) {
	d, err := w.Domain(id.Domain)
	if err != nil {
		return nil, err
	}
	def, ok := d.AssetDefinitions[id]
	if !ok {
		return nil, &FindError{Entity: "AssetDefinition", Id: id}
	}
	return def, nil
}

// Asset looks up an owned asset. A purged (zero-value, removed) asset
// reports ErrNotFound exactly like one that was never registered (spec §4.E
// "Burn to zero").
func (w *WSV) Asset(id AssetId) (*Asset, error) {
	acc, err := w.Account(id.Account)
	if err != nil {
		return nil, err
	}
	a, ok := acc.Asset(id)
	if !ok {
		return nil, &FindError{Entity: "Asset", Id: id}
	}
	return a, nil
}

// Role looks up a role by id.
func (w *WSV) Role(id RoleId) (*Role, error) {
	r, ok := w.Roles[id]
	if !ok {
		return nil, &FindError{Entity: "Role", Id: id}
	}
	return r, nil
}

// Trigger looks up a trigger by id.
func (w *WSV) Trigger(id TriggerId) (*Trigger, error) {
	t, ok := w.Triggers[id]
	if !ok {
		return nil, &FindError{Entity: "Trigger", Id: id}
	}
	return t, nil
}

// AccountsByDomain returns the ids of accounts registered in domain.
func (w *WSV) AccountsByDomain(domain DomainId) []AccountId {
	set := w.ix.accountsByDomain[domain]
	out := make([]AccountId, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// AssetsByAccount returns the ids of assets owned by account.
func (w *WSV) AssetsByAccount(account AccountId) []AssetId {
	set := w.ix.assetsByAccount[account]
	out := make([]AssetId, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// TriggersByDomain returns the ids of triggers whose authority belongs to
// domain.
func (w *WSV) TriggersByDomain(domain DomainId) []TriggerId {
	set := w.ix.triggersByDomain[domain]
	out := make([]TriggerId, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// RolesByAccount returns the ids of roles granted to account.
func (w *WSV) RolesByAccount(account AccountId) []RoleId {
	set := w.ix.rolesByAccount[account]
	out := make([]RoleId, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// Rebuild recomputes every derived index from the authoritative maps; only
// required once, on load from the block store.
func (w *WSV) Rebuild() { w.rebuildIndexes() }

// Indexes used by mutating isi handlers to keep the derived tables
// incrementally up to date; exported as methods rather than the raw
// struct so isi never reaches past WSV's API boundary.
func (w *WSV) IndexAccount(id AccountId)              { w.ix.addAccount(id) }
func (w *WSV) UnindexAccount(id AccountId)            { w.ix.removeAccount(id) }
func (w *WSV) IndexAsset(id AssetId)                  { w.ix.addAsset(id) }
func (w *WSV) UnindexAsset(id AssetId)                { w.ix.removeAsset(id) }
func (w *WSV) IndexTrigger(d DomainId, id TriggerId)   { w.ix.addTrigger(d, id) }
func (w *WSV) UnindexTrigger(d DomainId, id TriggerId) { w.ix.removeTrigger(d, id) }
func (w *WSV) IndexPermission(a AccountId, p Permission)   { w.ix.addPermission(a, p) }
func (w *WSV) UnindexPermission(a AccountId, p Permission) { w.ix.removePermission(a, p) }
func (w *WSV) IndexRole(a AccountId, r RoleId)   { w.ix.addRole(a, r) }
func (w *WSV) UnindexRole(a AccountId, r RoleId) { w.ix.removeRole(a, r) }
