// Package p2p implements the encrypted duplex-session transport (spec
// §4.B): a per-peer session table, a fixed five-stage scheduler loop, and
// best-effort message posting. It is grounded on the teacher's general
// concurrency idiom — one mutex per shared structure, critical sections
// that only splice/extract data, a logger tagged per subsystem — rather
// than on klaytn's networks/p2p/discover package, whose Kademlia DHT table
// solves a different problem (open peer discovery) than Sumeragi's fixed,
// trusted-peer topology; see DESIGN.md.
package p2p

import (
	"net"
	"sync"
	"time"

	"github.com/irohad/iroha2/crypto"
	"github.com/irohad/iroha2/internal/log"
	"github.com/irohad/iroha2/wsv"
	"github.com/google/uuid"
)

var logger = log.NewModuleLogger(log.ModuleP2P)

// Session is one established, encrypted duplex connection to a peer,
// identified by its node-level public key (spec §4.B: "Session =
// (connection, shared-key, last-activity)").
type Session struct {
	ID           string
	Conn         net.Conn
	SharedKey    crypto.SharedKey
	LastActivity time.Time

	mu      sync.Mutex
	evicted bool
}

// NewSession returns a Session stamped with a random correlation ID, used
// only for log lines that need to tell two sessions to the same peer apart
// across a reconnect (the same correlation-ID idiom as a handshake server's
// per-exchange MessageId).
func NewSession(conn net.Conn, sharedKey crypto.SharedKey) *Session {
	return &Session{ID: uuid.NewString(), Conn: conn, SharedKey: sharedKey, LastActivity: time.Now()}
}

func (s *Session) touch() {
	s.mu.Lock()
	s.LastActivity = time.Now()
	s.mu.Unlock()
}

func (s *Session) markEvicted() {
	s.mu.Lock()
	s.evicted = true
	s.mu.Unlock()
}

func (s *Session) isEvicted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evicted
}

// Table is the mutex-guarded PublicKey -> Session map every peer maintains
// (spec §4.B). A single lock guards it; critical sections never hold the
// lock across I/O, matching the concurrency model's rule for shared
// structures.
type Table struct {
	mu       sync.Mutex
	sessions map[wsv.PublicKey]*Session
}

func NewTable() *Table {
	return &Table{sessions: make(map[wsv.PublicKey]*Session)}
}

// Get returns the session for key, if any.
func (t *Table) Get(key wsv.PublicKey) (*Session, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[key]
	return s, ok
}

// Insert promotes a newly-handshaked session into the table. If a session
// for key already exists — both peers connected to each other
// simultaneously — the tie is broken by a coin flip rather than always
// keeping one side, which would otherwise deterministically and
// symmetrically drop the same side on both peers (spec §4.B step 5).
func (t *Table) Insert(key wsv.PublicKey, s *Session, coinFlip func() bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	existing, ok := t.sessions[key]
	if !ok {
		t.sessions[key] = s
		return
	}
	if coinFlip() {
		existing.markEvicted()
		_ = existing.Conn.Close()
		t.sessions[key] = s
	} else {
		s.markEvicted()
		_ = s.Conn.Close()
	}
}

// Evict removes key from the table and closes its connection, if present.
func (t *Table) Evict(key wsv.PublicKey) {
	t.mu.Lock()
	s, ok := t.sessions[key]
	delete(t.sessions, key)
	t.mu.Unlock()

	if ok {
		s.markEvicted()
		_ = s.Conn.Close()
	}
}

// Snapshot returns a copy of the current key set, safe to range over
// without holding the table lock during I/O.
func (t *Table) Snapshot() map[wsv.PublicKey]*Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[wsv.PublicKey]*Session, len(t.sessions))
	for k, v := range t.sessions {
		out[k] = v
	}
	return out
}

func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}
