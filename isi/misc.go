package isi

import (
	"github.com/irohad/iroha2/wsv"
	"github.com/pkg/errors"
)

// ExecuteTrigger enqueues a call of Target, subject to its
// ExecuteTriggerEventFilter's authority scope; the actual recursion
// bounding and fixed-point detection lives in the trigger engine (spec
// §4.F phase 3), which is reached here only through the narrow
// TriggerCaller interface so isi never imports the trigger package.
type ExecuteTrigger struct {
	Target wsv.TriggerId
}

func (i *ExecuteTrigger) String() string        { return "ExecuteTrigger" }
func (i *ExecuteTrigger) Accept(v Visitor) error { return v.VisitExecuteTrigger(i) }
func (i *ExecuteTrigger) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	if ctx.Triggers == nil {
		return wrapErr(i.String(), errors.New("no trigger engine attached to this execution context"))
	}
	if err := ctx.Triggers.EnqueueCall(i.Target, ctx.Authority); err != nil {
		return wrapErr(i.String(), err)
	}
	return nil
}

// ParameterId names a chain-wide tunable SetParameter may adjust.
type ParameterId string

const (
	ParamBlockTimeMs           ParameterId = "BlockTimeMs"
	ParamCommitTimeMs          ParameterId = "CommitTimeMs"
	ParamMaxTransactionsInBlock ParameterId = "MaxTransactionsInBlock"
	ParamExecutorFuelLimit     ParameterId = "ExecutorFuelLimit"
	ParamExecutorMaxMemory     ParameterId = "ExecutorMaxMemoryBytes"
	ParamWasmFuelLimit         ParameterId = "WasmFuelLimit"
	ParamWasmMaxMemory         ParameterId = "WasmMaxMemoryBytes"
)

// SetParameter adjusts one chain-wide parameter (spec §6 chain_wide.*).
type SetParameter struct {
	Id    ParameterId
	Value uint64
}

func (i *SetParameter) String() string        { return "SetParameter" }
func (i *SetParameter) Accept(v Visitor) error { return v.VisitSetParameter(i) }
func (i *SetParameter) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	switch i.Id {
	case ParamBlockTimeMs:
		w.Parameters.BlockTimeMs = i.Value
	case ParamCommitTimeMs:
		w.Parameters.CommitTimeMs = i.Value
	case ParamMaxTransactionsInBlock:
		w.Parameters.MaxTransactionsInBlock = uint32(i.Value)
	case ParamExecutorFuelLimit:
		w.Parameters.ExecutorFuelLimit = i.Value
	case ParamExecutorMaxMemory:
		w.Parameters.ExecutorMaxMemoryBytes = i.Value
	case ParamWasmFuelLimit:
		w.Parameters.WasmFuelLimit = i.Value
	case ParamWasmMaxMemory:
		w.Parameters.WasmMaxMemoryBytes = i.Value
	default:
		return wrapErr(i.String(), errors.Errorf("unknown parameter %q", i.Id))
	}
	w.Publish(wsv.Event{Kind: wsv.EventParameterChanged, Detail: string(i.Id)})
	return nil
}

// Log is a no-op on WSV state, used purely for on-chain diagnostics (e.g.
// from WASM smart contracts); it is still routed through the executor so
// a validator may still deny excessive logging.
type Log struct {
	Level   string
	Message string
}

func (i *Log) String() string        { return "Log" }
func (i *Log) Accept(v Visitor) error { return v.VisitLog(i) }
func (i *Log) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	logger.Info("on-chain log", "level", i.Level, "message", i.Message, "authority", ctx.Authority.String())
	return nil
}

// Upgrade replaces the active executor's WASM blob (spec §4.E); WSV itself
// only stores the opaque new blob — interpreting it is the sandbox's job,
// which is an explicit boundary per spec §1.
type Upgrade struct {
	ExecutorWasm []byte
}

func (i *Upgrade) String() string        { return "Upgrade" }
func (i *Upgrade) Accept(v Visitor) error { return v.VisitUpgrade(i) }
func (i *Upgrade) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	// The executor itself is swapped by the caller (see Executor.Upgrade);
	// WSV has no slot for it since the executor is a cross-cutting
	// validator layered above WSV mutation, not WSV state.
	return nil
}

// CustomInstruction is the escape hatch for instruction kinds not modeled
// natively; it never mutates WSV directly and is always routed through
// the executor, which may choose to interpret Payload itself (e.g. to
// invoke a WASM sandbox that returns further ISIs to apply).
type CustomInstruction struct {
	Payload []byte
}

func (i *CustomInstruction) String() string        { return "CustomInstruction" }
func (i *CustomInstruction) Accept(v Visitor) error { return v.VisitCustomInstruction(i) }
func (i *CustomInstruction) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	return nil
}
