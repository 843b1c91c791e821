package p2p

import (
	"encoding/binary"
	"io"
	"net"

	"github.com/irohad/iroha2/crypto"
	"github.com/pkg/errors"
)

// ErrFrameTooLarge is returned by ReadFrame when a declared length exceeds
// maxFrameLen (spec §4.A: "any length > configured max rejects the frame
// and closes the session").
var ErrFrameTooLarge = errors.New("p2p: frame length exceeds configured maximum")

// ErrKeepAlive is returned by ReadFrame for a zero-length frame, used to
// detect broken pipes without carrying payload (spec §4.A).
var ErrKeepAlive = errors.New("p2p: keep-alive frame")

// sendHello writes garbage || ephemeral_public_key to conn (spec §4.B
// client-hello / server-hello, both the same shape).
func sendHello(conn net.Conn, kp crypto.KeyPair) error {
	garbage, err := crypto.RandomGarbageFrame()
	if err != nil {
		return errors.Wrap(err, "p2p: generating handshake garbage")
	}
	if _, err := conn.Write(garbage); err != nil {
		return errors.Wrap(err, "p2p: writing handshake garbage")
	}
	if _, err := conn.Write(kp.Public[:]); err != nil {
		return errors.Wrap(err, "p2p: writing ephemeral public key")
	}
	return nil
}

// readHello discards the leading garbage block and reads the peer's
// ephemeral public key (spec §4.B step 2/3).
func readHello(conn net.Conn) ([32]byte, error) {
	if err := crypto.ReadAndDiscardGarbage(conn); err != nil {
		return [32]byte{}, err
	}
	var peerPub [32]byte
	if _, err := io.ReadFull(conn, peerPub[:]); err != nil {
		return [32]byte{}, errors.Wrap(err, "p2p: reading peer ephemeral public key")
	}
	return peerPub, nil
}

// WriteFrame writes u32_le(len(ciphertext)) || ciphertext, where ciphertext
// is encrypt(key, plaintext) including its nonce and tag, or a
// bare zero-length frame as a keep-alive when plaintext is nil.
func WriteFrame(conn net.Conn, key crypto.SharedKey, plaintext []byte) error {
	if plaintext == nil {
		var lenBuf [4]byte
		_, err := conn.Write(lenBuf[:])
		return err
	}
	ciphertext, err := crypto.Encrypt(key, plaintext)
	if err != nil {
		return err
	}
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(ciphertext)))
	if _, err := conn.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err = conn.Write(ciphertext)
	return err
}

// ReadFrame reads one length-prefixed frame and decrypts it. A zero length
// returns ErrKeepAlive with no error otherwise; a length above maxFrameLen
// returns ErrFrameTooLarge without consuming the (unbounded) body, so the
// caller must close the session on this error rather than continue reading.
func ReadFrame(conn net.Conn, key crypto.SharedKey, maxFrameLen int) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(conn, lenBuf[:]); err != nil {
		return nil, errors.Wrap(err, "p2p: reading frame length")
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	if n == 0 {
		return nil, ErrKeepAlive
	}
	if int(n) > maxFrameLen {
		return nil, ErrFrameTooLarge
	}
	ciphertext := make([]byte, n)
	if _, err := io.ReadFull(conn, ciphertext); err != nil {
		return nil, errors.Wrap(err, "p2p: reading frame body")
	}
	return crypto.Decrypt(key, ciphertext)
}

// handshakeAsDialer runs the outbound side of stage 1: it generates an
// ephemeral keypair and sends the client-hello. Reading the server-hello
// and deriving the shared key (stage 3) is left to completeDialerHandshake.
func handshakeAsDialer(conn net.Conn) (crypto.KeyPair, error) {
	kp, err := crypto.GenerateEphemeralKeypair()
	if err != nil {
		return crypto.KeyPair{}, err
	}
	if err := sendHello(conn, kp); err != nil {
		return crypto.KeyPair{}, err
	}
	return kp, nil
}

// completeDialerHandshake performs stage 3: read the server-hello and
// derive the shared session key.
func completeDialerHandshake(conn net.Conn, ours crypto.KeyPair) (crypto.SharedKey, error) {
	peerPub, err := readHello(conn)
	if err != nil {
		return crypto.SharedKey{}, err
	}
	return crypto.DeriveShared(ours, peerPub)
}

// handshakeAsListener performs stage 2: read the inbound client-hello,
// reply with a server-hello, and derive the shared key.
func handshakeAsListener(conn net.Conn) (crypto.SharedKey, error) {
	peerPub, err := readHello(conn)
	if err != nil {
		return crypto.SharedKey{}, err
	}
	kp, err := crypto.GenerateEphemeralKeypair()
	if err != nil {
		return crypto.SharedKey{}, err
	}
	if err := sendHello(conn, kp); err != nil {
		return crypto.SharedKey{}, err
	}
	return crypto.DeriveShared(kp, peerPub)
}
