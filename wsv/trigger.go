package wsv

// Repeats bounds how many more times a trigger may fire. Indefinite is a
// separate flag, so Count is only read when it is false; the zero value
// (not indefinite, Count 0) is exhausted.
type Repeats struct {
	Indefinite bool
	Count      uint32
}

func RepeatsIndefinitely() Repeats { return Repeats{Indefinite: true} }
func RepeatsTimes(n uint32) Repeats { return Repeats{Count: n} }

func (r Repeats) Exhausted() bool { return !r.Indefinite && r.Count == 0 }

// Executable is either an inline ISI list or a reference to a WASM blob
// stored in the shared, reference-counted WASM store (see
// trigger.WasmStore). ISI is declared as interface{} and holds an
// isi.InstructionList at runtime — isi already imports wsv for its WSV
// mutation methods, so wsv cannot import isi back without a cycle; the
// trigger engine, which depends on both, does the type assertion.
type Executable struct {
	IsWasm   bool
	WasmHash string      // key into the reference-counted WASM store
	ISI      interface{} // isi.InstructionList, when !IsWasm
}

// FilterKind distinguishes the four trigger filter families (spec §3/§4.F).
type FilterKind int

const (
	FilterExecuteTrigger FilterKind = iota
	FilterDataEvent
	FilterTimeEvent
	FilterPipelineEvent
)

// Filter selects which events cause a trigger to fire. Only one of the
// fields matching Kind is meaningful; this mirrors the Rust original's
// enum-of-filters more than it would a Go interface. trigger.Engine keeps
// no per-kind index: each phase scans every registered trigger and checks
// Kind.
type Filter struct {
	Kind FilterKind

	// FilterExecuteTrigger: restrict which authority may call this trigger.
	CallAuthority *AccountId

	// FilterDataEvent: match events by entity kind and optional domain scope.
	DataEntityKind string
	DataDomain     *DomainId

	// FilterTimeEvent: schedule expressed as a fixed period in milliseconds
	// from genesis, or PreCommit meaning "fire once more per block, right
	// before commit".
	TimeScheduleMs uint64
	TimePreCommit  bool

	// FilterPipelineEvent: match on transaction/block status changes.
	PipelineEntityKind string
}

// Action is the callback body of a Trigger: what runs, how many times it
// may still run, who it runs as, and what triggers it.
type Action struct {
	Executable Executable
	Repeats    Repeats
	Authority  AccountId
	Filter     Filter
	Metadata   *Metadata
}

// Trigger is a stored, addressable callback.
type Trigger struct {
	Id     TriggerId
	Action Action
}
