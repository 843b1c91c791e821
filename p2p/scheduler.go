package p2p

import (
	"math/rand"
	"net"
	"sync"
	"time"

	"github.com/irohad/iroha2/crypto"
	"github.com/irohad/iroha2/wire"
	"github.com/irohad/iroha2/wsv"
	lru "github.com/hashicorp/golang-lru"
)

// inmemoryRecentMessages bounds, per peer, how many recently-sent message
// hashes are remembered to avoid resending gossip the peer already has — the
// same shape as istanbul's backend.recentMessages (consensus/istanbul/backend
// backend.go's Gossip), one ARC cache per peer public key.
const inmemoryRecentMessages = 256

// pendingOutbound is an outbound socket that sent a client-hello and is
// waiting for the listener's server-hello (spec §4.B stage 1 -> 3).
type pendingOutbound struct {
	conn net.Conn
	kp   crypto.KeyPair
}

// pendingNodeKey is a session with a derived shared key, awaiting the
// node-level public key exchange (spec §4.B stage 4).
type pendingNodeKey struct {
	conn      net.Conn
	sharedKey crypto.SharedKey
}

// Dispatcher receives decoded messages read off established sessions,
// routed by the read loop to Sumeragi, block-sync, or the keep-alive sink
// (spec §4.B "Read loop").
type Dispatcher interface {
	DispatchSumeragiPacket(from wsv.PublicKey, pkt *wire.SumeragiPacket)
	DispatchBlockSync(from wsv.PublicKey, msg *wire.BlockSync)
}

// Scheduler runs the fixed five-stage loop described in spec §4.B. One
// Scheduler exists per peer; it owns the listening endpoint, the session
// table, and the in-flight handshake state for sockets that have not yet
// been promoted.
type Scheduler struct {
	selfKey    wsv.PublicKey
	listener   net.Listener
	table      *Table
	dispatcher Dispatcher
	maxFrameLen int

	mu              sync.Mutex
	targetSet       map[wsv.PeerId]struct{}
	outbound        map[wsv.PeerId]*pendingOutbound
	awaitingNodeKey []*pendingNodeKey
	recentMessages  map[wsv.PublicKey]*lru.ARCCache
}

// NewScheduler returns a scheduler bound to listener, using selfKey as this
// node's own public key (always excluded from the target set).
func NewScheduler(selfKey wsv.PublicKey, listener net.Listener, dispatcher Dispatcher, maxFrameLen int) *Scheduler {
	return &Scheduler{
		selfKey:     selfKey,
		listener:    listener,
		table:       NewTable(),
		dispatcher:  dispatcher,
		maxFrameLen: maxFrameLen,
		targetSet:   make(map[wsv.PeerId]struct{}),
		outbound:    make(map[wsv.PeerId]*pendingOutbound),
		recentMessages: make(map[wsv.PublicKey]*lru.ARCCache),
	}
}

// UpdateTarget atomically replaces the target set, always removing the
// local peer's own public key to prevent self-connection (spec §4.B).
func (s *Scheduler) UpdateTarget(peers []wsv.PeerId) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make(map[wsv.PeerId]struct{}, len(peers))
	for _, p := range peers {
		if p.PublicKey == s.selfKey {
			continue
		}
		next[p] = struct{}{}
	}
	s.targetSet = next
}

func (s *Scheduler) targets() []wsv.PeerId {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]wsv.PeerId, 0, len(s.targetSet))
	for p := range s.targetSet {
		out = append(out, p)
	}
	return out
}

// Tick runs one pass of the fixed five-stage loop.
func (s *Scheduler) Tick() {
	s.stageOutboundConnect()
	s.stageInboundAccept()
	s.stageReadServerHellos()
	s.stageExchangeNodeKeys()
}

// stageOutboundConnect (stage 1): dial every target not yet connected or
// in-flight, and send the client-hello.
func (s *Scheduler) stageOutboundConnect() {
	for _, peer := range s.targets() {
		if _, connected := s.table.Get(peer.PublicKey); connected {
			continue
		}
		s.mu.Lock()
		_, inFlight := s.outbound[peer]
		s.mu.Unlock()
		if inFlight {
			continue
		}

		conn, err := net.DialTimeout("tcp", peer.Address, 5*time.Second)
		if err != nil {
			logger.Warn("outbound connect failed", "peer", peer.Address, "err", err.Error())
			continue
		}
		kp, err := handshakeAsDialer(conn)
		if err != nil {
			logger.Warn("client-hello failed", "peer", peer.Address, "err", err.Error())
			_ = conn.Close()
			continue
		}
		s.mu.Lock()
		s.outbound[peer] = &pendingOutbound{conn: conn, kp: kp}
		s.mu.Unlock()
	}
}

// stageInboundAccept (stage 2): accept up to |target| new sockets and
// reply to any valid client-hello with a server-hello, queuing to
// "awaiting node key".
func (s *Scheduler) stageInboundAccept() {
	budget := len(s.targets())
	for i := 0; i < budget; i++ {
		if dl, ok := s.listener.(interface{ SetDeadline(time.Time) error }); ok {
			// best-effort non-blocking accept; ignore if the listener type
			// doesn't support deadlines (e.g. in tests using net.Pipe).
			_ = dl.SetDeadline(time.Now().Add(10 * time.Millisecond))
		}
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go func() {
			sharedKey, err := handshakeAsListener(conn)
			if err != nil {
				logger.Warn("inbound handshake failed", "err", err.Error())
				_ = conn.Close()
				return
			}
			s.mu.Lock()
			s.awaitingNodeKey = append(s.awaitingNodeKey, &pendingNodeKey{conn: conn, sharedKey: sharedKey})
			s.mu.Unlock()
		}()
	}
}

// stageReadServerHellos (stage 3): for each outbound socket awaiting a
// server-hello, read it and derive the shared key.
func (s *Scheduler) stageReadServerHellos() {
	s.mu.Lock()
	inFlight := s.outbound
	s.outbound = make(map[wsv.PeerId]*pendingOutbound)
	s.mu.Unlock()

	for peer, p := range inFlight {
		if err := p.conn.SetReadDeadline(time.Now().Add(10 * time.Millisecond)); err == nil {
			// non-blocking poll; a timeout simply re-queues for next tick
		}
		sharedKey, err := completeDialerHandshake(p.conn, p.kp)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				s.mu.Lock()
				s.outbound[peer] = p
				s.mu.Unlock()
				continue
			}
			logger.Warn("server-hello failed", "peer", peer.Address, "err", err.Error())
			_ = p.conn.Close()
			continue
		}
		s.mu.Lock()
		s.awaitingNodeKey = append(s.awaitingNodeKey, &pendingNodeKey{conn: p.conn, sharedKey: sharedKey})
		s.mu.Unlock()
	}
}

// stageExchangeNodeKeys (stage 4 + 5): exchange node-level public keys
// encrypted under the shared key, then promote into the session table,
// breaking any existing-key tie with a coin flip (spec §4.B steps 4-5).
func (s *Scheduler) stageExchangeNodeKeys() {
	s.mu.Lock()
	pending := s.awaitingNodeKey
	s.awaitingNodeKey = nil
	s.mu.Unlock()

	for _, p := range pending {
		if err := WriteFrame(p.conn, p.sharedKey, []byte(s.selfKey)); err != nil {
			logger.Warn("node-key exchange write failed", "err", err.Error())
			_ = p.conn.Close()
			continue
		}
		body, err := ReadFrame(p.conn, p.sharedKey, s.maxFrameLen)
		if err != nil {
			logger.Warn("node-key exchange read failed", "err", err.Error())
			_ = p.conn.Close()
			continue
		}
		peerKey := wsv.PublicKey(body)
		session := NewSession(p.conn, p.sharedKey)
		logger.Info("session established", "peer", peerKey, "session_id", session.ID)
		s.table.Insert(peerKey, session, coinFlip)
	}
}

func coinFlip() bool { return rand.Intn(2) == 0 }

// Post encodes msg and, for each recipient's active session, writes
// len||encrypt(msg) unless that peer's recentMessages cache shows it
// already received this exact payload (spec §4.B; dedup grounded on
// istanbul's backend.Gossip, which skips peers whose recentMessages cache
// already holds the payload hash). A write failure marks that session for
// eviction after the loop rather than retrying; delivery is best-effort.
func (s *Scheduler) Post(msg wire.Message, recipients []wsv.PublicKey) {
	encoded := wire.Encode(msg)
	hash := string(encoded)
	var toEvict []wsv.PublicKey
	for _, key := range recipients {
		session, ok := s.table.Get(key)
		if !ok || session.isEvicted() {
			continue
		}
		sent := s.recentMessagesFor(key)
		if _, already := sent.Get(hash); already {
			continue
		}
		if err := WriteFrame(session.Conn, session.SharedKey, encoded); err != nil {
			toEvict = append(toEvict, key)
			continue
		}
		sent.Add(hash, true)
		session.touch()
	}
	for _, key := range toEvict {
		s.table.Evict(key)
	}
}

// recentMessagesFor returns (creating if needed) the per-peer cache of
// recently-sent message hashes.
func (s *Scheduler) recentMessagesFor(peer wsv.PublicKey) *lru.ARCCache {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.recentMessages[peer]
	if !ok {
		c, _ = lru.NewARC(inmemoryRecentMessages)
		s.recentMessages[peer] = c
	}
	return c
}

// ReadLoop polls every session once, reading at most one framed packet
// each; decode failure or I/O error evicts the session (spec §4.B "Read
// loop"). Keep-alive frames only update LastActivity.
func (s *Scheduler) ReadLoop() {
	for key, session := range s.table.Snapshot() {
		if session.isEvicted() {
			continue
		}
		if err := session.Conn.SetReadDeadline(time.Now().Add(10 * time.Millisecond)); err == nil {
			// non-blocking poll
		}
		body, err := ReadFrame(session.Conn, session.SharedKey, s.maxFrameLen)
		if err != nil {
			if err == ErrKeepAlive {
				session.touch()
				continue
			}
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			logger.Warn("session read failed, evicting", "err", err.Error())
			s.table.Evict(key)
			continue
		}
		session.touch()
		s.dispatch(key, body)
	}
}

func (s *Scheduler) dispatch(from wsv.PublicKey, body []byte) {
	msg, err := wire.Decode(body)
	if err != nil {
		logger.Warn("decode failure, evicting session", "err", err.Error())
		s.table.Evict(from)
		return
	}
	switch m := msg.(type) {
	case *wire.SumeragiPacket:
		s.dispatcher.DispatchSumeragiPacket(from, m)
	case *wire.BlockSync:
		s.dispatcher.DispatchBlockSync(from, m)
	case *wire.HealthCheck:
		// keep-alive sink: nothing further to do
	}
}
