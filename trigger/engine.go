// Package trigger implements the event- and time-driven callback engine
// (spec §4.F): execution phases inside one block, recursion bounding,
// repetition counters and WASM-blob reference counting. It is the only
// library package that imports both wsv and isi (the cmd/irohad binary
// also does, for wiring), since it must decode a Trigger's
// Executable (an isi.InstructionList in disguise, see wsv.Executable) and
// run it against the WSV through isi.Instruction.Execute.
package trigger

import (
	"github.com/irohad/iroha2/internal/log"
	"github.com/irohad/iroha2/isi"
	"github.com/irohad/iroha2/wsv"
)

var logger = log.NewModuleLogger(log.ModuleTrigger)

type call struct {
	trigger   wsv.TriggerId
	authority wsv.AccountId
}

// Engine owns the per-block firing state. One Engine is created per peer
// and reused across blocks; BeginBlock resets its per-block bookkeeping.
type Engine struct {
	w         *wsv.WSV
	executor  *isi.Executor
	wasmStore *WasmStore

	pending        []call
	firedThisBlock map[wsv.TriggerId]bool
	deferred       []call // re-fires pushed to the next block by the recursion bound
}

// NewEngine returns a trigger engine bound to w and gated by executor.
func NewEngine(w *wsv.WSV, executor *isi.Executor, wasmStore *WasmStore) *Engine {
	return &Engine{w: w, executor: executor, wasmStore: wasmStore, firedThisBlock: make(map[wsv.TriggerId]bool)}
}

// BeginBlock resets the recursion-bound bookkeeping and promotes calls
// deferred by the previous block into this block's pending queue.
func (e *Engine) BeginBlock() {
	e.firedThisBlock = make(map[wsv.TriggerId]bool)
	e.pending = append(e.pending, e.deferred...)
	e.deferred = nil
}

// EnqueueCall implements isi.TriggerCaller: it is how ExecuteTrigger
// instructions reach the engine. A trigger already fired this block is
// deferred to the next block instead of re-entering (spec §4.F recursion
// rule), bounding a self-calling trigger to one invocation per block
// (spec §8 scenario 4).
func (e *Engine) EnqueueCall(trigger wsv.TriggerId, authority wsv.AccountId) error {
	t, err := e.w.Trigger(trigger)
	if err != nil {
		return err
	}
	if t.Action.Repeats.Exhausted() {
		return &wsv.FindError{Entity: "Trigger", Id: trigger}
	}
	if callFilter := t.Action.Filter; callFilter.Kind == wsv.FilterExecuteTrigger && callFilter.CallAuthority != nil {
		if *callFilter.CallAuthority != authority {
			return &isi.ValidationError{Reason: "authority not permitted to call this trigger"}
		}
	}
	if e.firedThisBlock[trigger] {
		e.deferred = append(e.deferred, call{trigger: trigger, authority: authority})
		return nil
	}
	e.pending = append(e.pending, call{trigger: trigger, authority: authority})
	return nil
}

// RunByCallPhase drains every pending call (spec §4.F phase 3), including
// calls enqueued transitively by the instructions a call itself executes.
// One trigger's failure is recorded as a TriggerFailed event and never
// aborts another trigger or the block (spec §4.F).
func (e *Engine) RunByCallPhase(blockHeight, blockTimestampMs uint64) {
	for len(e.pending) > 0 {
		c := e.pending[0]
		e.pending = e.pending[1:]
		if e.firedThisBlock[c.trigger] {
			e.deferred = append(e.deferred, c)
			continue
		}
		e.fire(c, blockHeight, blockTimestampMs)
	}
}

func (e *Engine) fire(c call, blockHeight, blockTimestampMs uint64) {
	t, err := e.w.Trigger(c.trigger)
	if err != nil {
		return // unregistered between enqueue and fire; silently dropped
	}
	e.firedThisBlock[c.trigger] = true

	ctx := isi.ExecutionContext{
		Authority:        t.Action.Authority,
		BlockHeight:      blockHeight,
		BlockTimestampMs: blockTimestampMs,
		Triggers:         e,
	}

	if t.Action.Executable.IsWasm {
		logger.Warn("WASM trigger executable not runnable outside a sandbox", "trigger", string(c.trigger))
		e.w.Publish(wsv.Event{Kind: wsv.EventTriggerFailed, Entity: "Trigger", EntityId: c.trigger, Detail: "wasm sandbox boundary: no executable result available"})
		return
	}

	instrs, _ := t.Action.Executable.ISI.(isi.InstructionList)
	for _, instr := range instrs {
		if j := e.executor.Validate(ctx.Authority, instr, e.w); j.Verdict == isi.VerdictDeny {
			e.w.Publish(wsv.Event{Kind: wsv.EventTriggerFailed, Entity: "Trigger", EntityId: c.trigger, Detail: j.Reason})
			break
		}
		if err := instr.Execute(ctx, e.w); err != nil {
			e.w.Publish(wsv.Event{Kind: wsv.EventTriggerFailed, Entity: "Trigger", EntityId: c.trigger, Detail: err.Error()})
			break
		}
	}

	e.decrementRepeats(t)
}

func (e *Engine) decrementRepeats(t *wsv.Trigger) {
	if t.Action.Repeats.Indefinite {
		return
	}
	if t.Action.Repeats.Count > 0 {
		t.Action.Repeats.Count--
	}
}

// RunDataEventPhase matches every event produced so far this block against
// active FilterDataEvent triggers and fires matches (spec §4.F phase 4).
func (e *Engine) RunDataEventPhase(events []wsv.Event, blockHeight, blockTimestampMs uint64) {
	for _, id := range allTriggerIds(e.w) {
		t, err := e.w.Trigger(id)
		if err != nil || t.Action.Filter.Kind != wsv.FilterDataEvent || t.Action.Repeats.Exhausted() {
			continue
		}
		for _, ev := range events {
			if matchesDataFilter(t.Action.Filter, ev) {
				_ = e.EnqueueCall(id, t.Action.Authority)
				break
			}
		}
	}
	e.RunByCallPhase(blockHeight, blockTimestampMs)
}

func matchesDataFilter(f wsv.Filter, ev wsv.Event) bool {
	if f.DataEntityKind != "" && f.DataEntityKind != ev.Entity {
		return false
	}
	if f.DataDomain != nil && *f.DataDomain != ev.Domain {
		return false
	}
	return true
}

// RunPreCommitTimePhase fires every active FilterTimeEvent trigger whose
// PreCommit flag is set, observing all intra-block state (spec §4.F phase
// 5, fired last).
func (e *Engine) RunPreCommitTimePhase(blockHeight, blockTimestampMs uint64) {
	for _, id := range allTriggerIds(e.w) {
		t, err := e.w.Trigger(id)
		if err != nil || t.Action.Filter.Kind != wsv.FilterTimeEvent || !t.Action.Filter.TimePreCommit {
			continue
		}
		if t.Action.Repeats.Exhausted() {
			continue
		}
		_ = e.EnqueueCall(id, t.Action.Authority)
	}
	e.RunByCallPhase(blockHeight, blockTimestampMs)
}

func allTriggerIds(w *wsv.WSV) []wsv.TriggerId {
	ids := make([]wsv.TriggerId, 0, len(w.Triggers))
	for id := range w.Triggers {
		ids = append(ids, id)
	}
	return ids
}
