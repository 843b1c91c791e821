package isi

import "github.com/irohad/iroha2/wsv"

// TriggerCaller is the narrow interface the trigger engine implements so
// that ExecuteTrigger instructions can enqueue a call without isi
// importing the trigger package (which itself decodes and runs
// Instructions — an import cycle otherwise). See design notes on ambient
// context passing.
type TriggerCaller interface {
	EnqueueCall(trigger wsv.TriggerId, authority wsv.AccountId) error
}

// ExecutionContext is passed by reference to every Instruction.Execute
// call; it is immutable for the duration of one instruction so that no
// handler can smuggle ambient state through a global or thread-local
// (spec design notes, "ambient context passing").
type ExecutionContext struct {
	Authority        wsv.AccountId
	BlockHeight      uint64
	BlockTimestampMs uint64
	Triggers         TriggerCaller // nil outside of a trigger-capable pipeline, e.g. in pure tests
}

// WithAuthority returns a shallow copy of ctx with a different acting
// authority, used when a trigger's Action runs as its own configured
// authority rather than the transaction's.
func (c ExecutionContext) WithAuthority(a wsv.AccountId) ExecutionContext {
	c.Authority = a
	return c
}
