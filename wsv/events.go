package wsv

import "fmt"

// EventKind tags the variant of a WSV-emitted event. The trigger engine
// matches these against active DataEvent filters (spec §4.F phase 4).
type EventKind int

const (
	EventRegistered EventKind = iota
	EventUnregistered
	EventMintabilityChanged
	EventOwnerChanged
	EventPermissionAdded
	EventPermissionRemoved
	EventRoleGranted
	EventRoleRevoked
	EventMetadataSet
	EventMetadataRemoved
	EventAssetMinted
	EventAssetBurned
	EventTriggerFailed
	EventParameterChanged
)

// Event is a single fact the WSV publishes as a side effect of executing
// one instruction. Events are appended to a per-block journal (spec §4.D)
// and drained by the trigger engine between execution phases; they are
// never delivered as synchronous callbacks, which is what keeps trigger
// recursion bounded and deterministic (see design notes).
type Event struct {
	Kind     EventKind
	Domain   DomainId
	Entity   string // e.g. "Account", "AssetDefinition", "Trigger" — the kind of id below
	EntityId fmt.Stringer
	Detail   string // free-form human-readable detail, e.g. a failure reason
}

// Journal accumulates events produced within one block's transition and
// supports being drained in FIFO order.
type Journal struct {
	events []Event
}

func NewJournal() *Journal { return &Journal{} }

func (j *Journal) Publish(e Event) { j.events = append(j.events, e) }

// Drain returns and clears all accumulated events, preserving order.
func (j *Journal) Drain() []Event {
	out := j.events
	j.events = nil
	return out
}

func (j *Journal) Len() int { return len(j.events) }
