package p2p

import (
	"net"
	"testing"
	"time"

	"github.com/irohad/iroha2/crypto"
	"github.com/irohad/iroha2/wire"
	"github.com/irohad/iroha2/wsv"
	lru "github.com/hashicorp/golang-lru"
	"github.com/stretchr/testify/require"
)

func TestHandshakeRoundTripDerivesMatchingSharedKey(t *testing.T) {
	dialerConn, listenerConn := net.Pipe()
	defer dialerConn.Close()
	defer listenerConn.Close()

	var dialerKey, listenerKey crypto.SharedKey
	done := make(chan struct{})

	go func() {
		kp, err := handshakeAsDialer(dialerConn)
		require.NoError(t, err)
		dialerKey, err = completeDialerHandshake(dialerConn, kp)
		require.NoError(t, err)
		close(done)
	}()

	listenerKey2, err := handshakeAsListener(listenerConn)
	require.NoError(t, err)
	<-done

	require.Equal(t, dialerKey, listenerKey2)
	listenerKey = listenerKey2
	require.Equal(t, dialerKey, listenerKey)
}

func TestWriteReadFrameRoundTrip(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	var key crypto.SharedKey
	for i := range key {
		key[i] = byte(i)
	}

	go func() {
		_ = WriteFrame(a, key, []byte("hello sumeragi"))
	}()

	got, err := ReadFrame(b, key, 1<<20)
	require.NoError(t, err)
	require.Equal(t, "hello sumeragi", string(got))
}

func TestReadFrameKeepAlive(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	var key crypto.SharedKey
	go func() { _ = WriteFrame(a, key, nil) }()

	_, err := ReadFrame(b, key, 1<<20)
	require.ErrorIs(t, err, ErrKeepAlive)
}

func TestReadFrameRejectsOverMaxLength(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	go func() {
		buf := make([]byte, 4)
		buf[0], buf[1], buf[2], buf[3] = 0xff, 0xff, 0xff, 0x00 // huge little-endian length
		_, _ = a.Write(buf)
	}()

	_, err := ReadFrame(b, crypto.SharedKey{}, 1024)
	require.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestTableInsertBreaksSymmetricTieByCoinFlip(t *testing.T) {
	tbl := NewTable()
	a1, a2 := net.Pipe()
	defer a1.Close()
	defer a2.Close()
	b1, b2 := net.Pipe()
	defer b1.Close()
	defer b2.Close()

	s1 := &Session{Conn: a1, LastActivity: time.Now()}
	s2 := &Session{Conn: b1, LastActivity: time.Now()}

	tbl.Insert("peer-key", s1, func() bool { return true })
	require.Equal(t, 1, tbl.Len())

	tbl.Insert("peer-key", s2, func() bool { return true }) // coin flip favors the new session
	got, ok := tbl.Get("peer-key")
	require.True(t, ok)
	require.Same(t, s2, got)
	require.True(t, s1.isEvicted())
}

func TestNewSessionAssignsDistinctIDs(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	s1 := NewSession(a, crypto.SharedKey{})
	s2 := NewSession(b, crypto.SharedKey{})
	require.NotEmpty(t, s1.ID)
	require.NotEmpty(t, s2.ID)
	require.NotEqual(t, s1.ID, s2.ID)
}

func TestPostSkipsRecipientThatAlreadyHasMessage(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	var key crypto.SharedKey
	tbl := NewTable()
	tbl.Insert("peer", &Session{Conn: a, SharedKey: key, LastActivity: time.Now()}, func() bool { return true })

	sched := &Scheduler{table: tbl, recentMessages: make(map[wsv.PublicKey]*lru.ARCCache)}
	msg := &wire.HealthCheck{Nonce: 1}

	received := make(chan struct{}, 1)
	go func() {
		if _, err := ReadFrame(b, key, 1<<20); err == nil {
			received <- struct{}{}
		}
	}()
	sched.Post(msg, []wsv.PublicKey{"peer"})
	select {
	case <-received:
	case <-time.After(time.Second):
		t.Fatal("expected first Post to deliver a frame")
	}

	sched.Post(msg, []wsv.PublicKey{"peer"}) // identical payload: recentMessages should suppress resend

	resent := make(chan struct{}, 1)
	go func() {
		if _, err := ReadFrame(b, key, 1<<20); err == nil {
			resent <- struct{}{}
		}
	}()
	select {
	case <-resent:
		t.Fatal("duplicate payload should not have been resent to a peer that already has it")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestUpdateTargetExcludesSelf(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	sched := NewScheduler("self-key", listener, nil, 1<<20)
	sched.UpdateTarget([]wsv.PeerId{
		{Address: "self:1", PublicKey: "self-key"},
		{Address: "other:1", PublicKey: "other-key"},
	})

	targets := sched.targets()
	require.Len(t, targets, 1)
	require.Equal(t, wsv.PublicKey("other-key"), targets[0].PublicKey)
}
