package queue

import (
	"testing"
	"time"

	"github.com/irohad/iroha2/wsv"
	"github.com/stretchr/testify/require"
)

func cfg() Config {
	return Config{
		Capacity:           3,
		CapacityPerUser:    2,
		TTL:                time.Minute,
		FutureThreshold:    5 * time.Second,
		GossipMaxBatchSize: 2,
	}
}

func tx(hashByte byte, authority wsv.AccountId, created time.Time) *Transaction {
	var h [32]byte
	h[0] = hashByte
	return &Transaction{Hash: h, Authority: authority, CreationTime: created, TTL: time.Minute}
}

func TestPushRejectsOverCapacity(t *testing.T) {
	q := New(cfg())
	now := time.Now()
	alice := wsv.AccountId{Domain: "d", Signatory: "alice"}
	bob := wsv.AccountId{Domain: "d", Signatory: "bob"}

	require.NoError(t, q.Push(tx(1, alice, now), now))
	require.NoError(t, q.Push(tx(2, bob, now), now))
	require.NoError(t, q.Push(tx(3, alice, now), now))
	require.ErrorIs(t, q.Push(tx(4, bob, now), now), ErrQueueFull)
}

func TestPushRejectsOverCapacityPerUser(t *testing.T) {
	q := New(cfg())
	now := time.Now()
	alice := wsv.AccountId{Domain: "d", Signatory: "alice"}

	require.NoError(t, q.Push(tx(1, alice, now), now))
	require.NoError(t, q.Push(tx(2, alice, now), now))
	require.ErrorIs(t, q.Push(tx(3, alice, now), now), ErrUserQueueFull)
}

func TestPushRejectsFutureTimestamp(t *testing.T) {
	q := New(cfg())
	now := time.Now()
	alice := wsv.AccountId{Domain: "d", Signatory: "alice"}
	future := tx(1, alice, now.Add(time.Hour))
	require.ErrorIs(t, q.Push(future, now), ErrFutureTimestamp)
}

func TestPushRejectsDuplicate(t *testing.T) {
	q := New(cfg())
	now := time.Now()
	alice := wsv.AccountId{Domain: "d", Signatory: "alice"}
	require.NoError(t, q.Push(tx(1, alice, now), now))
	require.ErrorIs(t, q.Push(tx(1, alice, now), now), ErrDuplicate)
}

func TestEvictExpiredRemovesOnlyPastTTL(t *testing.T) {
	q := New(cfg())
	now := time.Now()
	alice := wsv.AccountId{Domain: "d", Signatory: "alice"}

	stale := tx(1, alice, now.Add(-2*time.Minute))
	fresh := tx(2, alice, now)
	require.NoError(t, q.Push(stale, now.Add(-2*time.Minute)))
	require.NoError(t, q.Push(fresh, now))

	evicted := q.EvictExpired(now)
	require.Len(t, evicted, 1)
	require.Equal(t, stale.Hash, evicted[0].Hash)
	require.Equal(t, 1, q.Len())
}

func TestDrainReturnsFIFOOrder(t *testing.T) {
	q := New(cfg())
	now := time.Now()
	alice := wsv.AccountId{Domain: "d", Signatory: "alice"}
	bob := wsv.AccountId{Domain: "d", Signatory: "bob"}

	require.NoError(t, q.Push(tx(1, alice, now), now))
	require.NoError(t, q.Push(tx(2, bob, now), now))

	drained := q.Drain(10)
	require.Len(t, drained, 2)
	require.Equal(t, byte(1), drained[0].Hash[0])
	require.Equal(t, byte(2), drained[1].Hash[0])
	require.Equal(t, 0, q.Len())
}

func TestGossipBatchesRespectsMaxSize(t *testing.T) {
	q := New(cfg())
	now := time.Now()
	alice := wsv.AccountId{Domain: "d", Signatory: "alice"}
	bob := wsv.AccountId{Domain: "d", Signatory: "bob"}

	require.NoError(t, q.Push(tx(1, alice, now), now))
	require.NoError(t, q.Push(tx(2, bob, now), now))

	batches := q.GossipBatches()
	require.Len(t, batches, 1)
	require.Len(t, batches[0], 2)
	require.Equal(t, 2, q.Len(), "gossip batching must not remove transactions")
}
