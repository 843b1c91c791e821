// Package queue implements the bounded, per-peer pending-transaction queue
// (spec §4.I): a capacity cap, a per-authority cap, TTL eviction and
// future-timestamp rejection, plus gossip batching. Structured the way the
// teacher's work package guards a shared mutable queue with a single mutex
// and a plain slice/map rather than a channel pipeline, since the queue
// here is polled by the Leader once per view rather than fed to a
// long-running worker goroutine.
package queue

import (
	"sync"
	"time"

	"github.com/irohad/iroha2/wsv"
	"github.com/pkg/errors"
	"gopkg.in/fatih/set.v0"
)

// Transaction is the minimal shape the queue needs to reason about
// admission and eviction; the payload itself (instructions, signatures) is
// opaque to this package.
type Transaction struct {
	Hash         [32]byte
	Authority    wsv.AccountId
	CreationTime time.Time
	TTL          time.Duration
	Payload      []byte
}

func (t *Transaction) expiresAt() time.Time { return t.CreationTime.Add(t.TTL) }

var (
	ErrQueueFull      = errors.New("queue: at capacity")
	ErrUserQueueFull  = errors.New("queue: authority at capacity_per_user")
	ErrFutureTimestamp = errors.New("queue: creation_time beyond future_threshold")
	ErrDuplicate      = errors.New("queue: transaction already queued")
)

// Config bounds queue admission (spec §4.I / §6).
type Config struct {
	Capacity              int
	CapacityPerUser       int
	TTL                   time.Duration
	FutureThreshold       time.Duration
	GossipPeriod          time.Duration
	GossipMaxBatchSize    int
}

// Queue is the bounded, mutex-guarded pending-transaction set for one peer.
type Queue struct {
	mu sync.Mutex

	cfg    Config
	order  []*Transaction // FIFO order for eviction/gossip batching
	byHash map[[32]byte]*Transaction
	byUser map[wsv.AccountId]*set.Set // per-authority index of queued tx hashes
}

func New(cfg Config) *Queue {
	return &Queue{
		cfg:    cfg,
		byHash: make(map[[32]byte]*Transaction),
		byUser: make(map[wsv.AccountId]*set.Set),
	}
}

// userSet returns (creating if needed) the per-authority hash set, the way
// the teacher's worker tracks ancestor/family/uncle membership with
// gopkg.in/fatih/set.v0 sets rather than plain maps (work/worker.go).
func (q *Queue) userSet(authority wsv.AccountId) *set.Set {
	s, ok := q.byUser[authority]
	if !ok {
		s = set.New()
		q.byUser[authority] = s
	}
	return s
}

// Push admits tx if capacity, per-user capacity, and the future-timestamp
// threshold all allow it (spec §4.I). now is passed in explicitly so the
// check is deterministic and testable.
func (q *Queue) Push(tx *Transaction, now time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.byHash[tx.Hash]; ok {
		return ErrDuplicate
	}
	if tx.CreationTime.After(now.Add(q.cfg.FutureThreshold)) {
		return ErrFutureTimestamp
	}
	if len(q.order) >= q.cfg.Capacity {
		return ErrQueueFull
	}
	if q.userSet(tx.Authority).Size() >= q.cfg.CapacityPerUser {
		return ErrUserQueueFull
	}

	q.order = append(q.order, tx)
	q.byHash[tx.Hash] = tx
	q.userSet(tx.Authority).Add(tx.Hash)
	return nil
}

// EvictExpired removes every transaction whose creation_time+ttl_ms has
// passed as of now, returning the evicted set.
func (q *Queue) EvictExpired(now time.Time) []*Transaction {
	q.mu.Lock()
	defer q.mu.Unlock()

	var evicted []*Transaction
	kept := q.order[:0]
	for _, tx := range q.order {
		if now.After(tx.expiresAt()) {
			evicted = append(evicted, tx)
			delete(q.byHash, tx.Hash)
			q.removeFromUserSet(tx)
			continue
		}
		kept = append(kept, tx)
	}
	q.order = kept
	return evicted
}

// Drain removes and returns up to max transactions in FIFO order, for the
// Leader to assemble into a candidate block (spec §4.H step 1).
func (q *Queue) Drain(max int) []*Transaction {
	q.mu.Lock()
	defer q.mu.Unlock()

	if max > len(q.order) {
		max = len(q.order)
	}
	out := q.order[:max]
	q.order = q.order[max:]
	for _, tx := range out {
		delete(q.byHash, tx.Hash)
		q.removeFromUserSet(tx)
	}
	return out
}

// removeFromUserSet drops tx.Hash from its authority's index, pruning the
// set entirely once empty.
func (q *Queue) removeFromUserSet(tx *Transaction) {
	s, ok := q.byUser[tx.Authority]
	if !ok {
		return
	}
	s.Remove(tx.Hash)
	if s.Size() == 0 {
		delete(q.byUser, tx.Authority)
	}
}

// GossipBatches splits the currently queued transactions (without removing
// them) into batches no larger than GossipMaxBatchSize, for periodic
// broadcast at GossipPeriod to reduce tail-latency for non-leader peers
// (spec §4.I).
func (q *Queue) GossipBatches() [][]*Transaction {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.cfg.GossipMaxBatchSize <= 0 || len(q.order) == 0 {
		return nil
	}
	var batches [][]*Transaction
	for i := 0; i < len(q.order); i += q.cfg.GossipMaxBatchSize {
		end := i + q.cfg.GossipMaxBatchSize
		if end > len(q.order) {
			end = len(q.order)
		}
		batches = append(batches, append([]*Transaction(nil), q.order[i:end]...))
	}
	return batches
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.order)
}
