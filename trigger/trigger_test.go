package trigger

import (
	"testing"

	"github.com/irohad/iroha2/isi"
	"github.com/irohad/iroha2/wsv"
	"github.com/stretchr/testify/require"
)

func wonderland(t *testing.T) (*wsv.WSV, wsv.AccountId) {
	t.Helper()
	w := wsv.New()
	alice := wsv.AccountId{Domain: "wonderland", Signatory: "alice"}
	d := wsv.NewDomain(wsv.DomainId("wonderland"), alice)
	d.Accounts[alice] = wsv.NewAccount(alice, alice.Signatory)
	w.Domains[d.Id] = d
	return w, alice
}

func registerSelfCallingTrigger(w *wsv.WSV, authority wsv.AccountId, repeats wsv.Repeats) wsv.TriggerId {
	id := wsv.TriggerId("self_caller")
	w.Triggers[id] = &wsv.Trigger{
		Id: id,
		Action: wsv.Action{
			Authority: authority,
			Repeats:   repeats,
			Filter:    wsv.Filter{Kind: wsv.FilterExecuteTrigger},
			Executable: wsv.Executable{
				ISI: isi.InstructionList{&isi.ExecuteTrigger{Target: id}},
			},
		},
	}
	return id
}

// TestRecursionBoundedToOncePerBlock covers spec §8 scenario 4: a trigger
// that calls itself must fire exactly once within the block it was first
// invoked in, with the re-fire deferred to the next block.
func TestRecursionBoundedToOncePerBlock(t *testing.T) {
	w, alice := wonderland(t)
	id := registerSelfCallingTrigger(w, alice, wsv.RepeatsIndefinitely())

	executor := isi.NewExecutor()
	eng := NewEngine(w, executor, NewWasmStore())

	eng.BeginBlock()
	require.NoError(t, eng.EnqueueCall(id, alice))
	eng.RunByCallPhase(1, 1000)

	require.True(t, eng.firedThisBlock[id], "trigger must have fired once this block")
	require.Len(t, eng.deferred, 1, "the self-call must be deferred, not executed again this block")

	eng.BeginBlock()
	require.Len(t, eng.pending, 1, "deferred call promotes into pending, not left dangling")
}

// TestExhaustedTriggerReturnsFindError covers spec §8 scenario 5: a trigger
// registered with Repeats::from(1), called twice, must fail the second call
// with a Find(Trigger) error even though the Trigger object itself is still
// registered (only UnregisterTrigger removes it).
func TestExhaustedTriggerReturnsFindError(t *testing.T) {
	w, alice := wonderland(t)
	id := wsv.TriggerId("once_only")
	w.Triggers[id] = &wsv.Trigger{
		Id: id,
		Action: wsv.Action{
			Authority: alice,
			Repeats:   wsv.RepeatsTimes(1),
			Filter:    wsv.Filter{Kind: wsv.FilterExecuteTrigger},
			Executable: wsv.Executable{
				ISI: isi.InstructionList{},
			},
		},
	}

	executor := isi.NewExecutor()
	eng := NewEngine(w, executor, NewWasmStore())

	eng.BeginBlock()
	require.NoError(t, eng.EnqueueCall(id, alice))
	eng.RunByCallPhase(1, 1000)

	require.True(t, w.Triggers[id].Action.Repeats.Exhausted())
	_, stillExists := w.Triggers[id]
	require.True(t, stillExists, "unregistering is the only way to remove a Trigger")

	err := eng.EnqueueCall(id, alice)
	require.Error(t, err)
	var findErr *wsv.FindError
	require.ErrorAs(t, err, &findErr)
	require.Equal(t, "Trigger", findErr.Entity)
}

// TestTriggerFailureRecordedAsEventNotAbort ensures a failing trigger is
// recorded as a TriggerFailed event while RunByCallPhase returns normally
// (spec §4.F: trigger execution failures are recorded, never fatal).
func TestTriggerFailureRecordedAsEventNotAbort(t *testing.T) {
	w, alice := wonderland(t)
	bob := wsv.AccountId{Domain: "wonderland", Signatory: "bob"}
	// references an account that does not exist, so Execute fails
	failing := wsv.TriggerId("failing")
	w.Triggers[failing] = &wsv.Trigger{
		Id: failing,
		Action: wsv.Action{
			Authority: alice,
			Repeats:   wsv.RepeatsIndefinitely(),
			Filter:    wsv.Filter{Kind: wsv.FilterExecuteTrigger},
			Executable: wsv.Executable{
				ISI: isi.InstructionList{&isi.UnregisterAccount{Id: bob}},
			},
		},
	}

	executor := isi.NewExecutor()
	eng := NewEngine(w, executor, NewWasmStore())

	eng.BeginBlock()
	require.NoError(t, eng.EnqueueCall(failing, alice))
	eng.RunByCallPhase(1, 1000)

	events := w.DrainEvents()
	require.NotEmpty(t, events)
	require.Equal(t, wsv.EventTriggerFailed, events[len(events)-1].Kind)
}
