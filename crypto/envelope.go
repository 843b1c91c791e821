// Package crypto implements the peer-to-peer crypto envelope: ephemeral
// X25519 key exchange and ChaCha20-Poly1305 AEAD framing used to secure a
// session between two peers. Long-term identity keys (node signing keys)
// and transaction/block signatures are treated as an external library
// boundary per spec; this package only covers the session-layer envelope.
package crypto

import (
	"crypto/rand"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/curve25519"
)

// associatedData is mixed into every AEAD operation so ciphertexts from one
// protocol version are not confusable with another.
var associatedData = []byte("iroha2-p2p-envelope-v1")

// MaxFrameLen is a 16 MiB frame-length bound. Nothing in this package
// enforces it; p2p.ReadFrame checks a frame's declared ciphertext length
// against the maximum its caller passes in.
const MaxFrameLen = 16 * 1024 * 1024

// GarbageMin and GarbageMax bound the length of the random prefix sent
// before the handshake's ephemeral public key, per §4.A.
const (
	GarbageMin = 64
	GarbageMax = 255
)

var ErrFrameTooLarge = errors.New("crypto: frame exceeds configured maximum")

// KeyPair is an ephemeral X25519 key pair used once per session.
type KeyPair struct {
	Private [32]byte
	Public  [32]byte
}

// GenerateEphemeralKeypair produces a fresh X25519 key pair for one
// handshake. It must never be reused across sessions.
func GenerateEphemeralKeypair() (KeyPair, error) {
	var kp KeyPair
	if _, err := io.ReadFull(rand.Reader, kp.Private[:]); err != nil {
		return KeyPair{}, errors.Wrap(err, "crypto: generating ephemeral key")
	}
	pub, err := curve25519.X25519(kp.Private[:], curve25519.Basepoint)
	if err != nil {
		return KeyPair{}, errors.Wrap(err, "crypto: deriving ephemeral public key")
	}
	copy(kp.Public[:], pub)
	return kp, nil
}

// SharedKey is a 32-byte key suitable for use as a chacha20poly1305 key.
type SharedKey [chacha20poly1305.KeySize]byte

// DeriveShared computes the session's symmetric key from our private
// ephemeral scalar and the peer's ephemeral public key.
func DeriveShared(ours KeyPair, peerPublic [32]byte) (SharedKey, error) {
	raw, err := curve25519.X25519(ours.Private[:], peerPublic[:])
	if err != nil {
		return SharedKey{}, errors.Wrap(err, "crypto: deriving shared secret")
	}
	var key SharedKey
	copy(key[:], raw)
	return key, nil
}

// Encrypt seals plaintext under key with a fresh random nonce, returning
// nonce||ciphertext.
func Encrypt(key SharedKey, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, errors.Wrap(err, "crypto: building aead")
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.Wrap(err, "crypto: generating nonce")
	}
	return aead.Seal(nonce, nonce, plaintext, associatedData), nil
}

// Decrypt opens a nonce||ciphertext envelope produced by Encrypt.
func Decrypt(key SharedKey, envelope []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, errors.Wrap(err, "crypto: building aead")
	}
	if len(envelope) < aead.NonceSize() {
		return nil, errors.New("crypto: envelope shorter than nonce")
	}
	nonce, ciphertext := envelope[:aead.NonceSize()], envelope[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, associatedData)
	if err != nil {
		return nil, errors.Wrap(err, "crypto: aead open failed")
	}
	return plaintext, nil
}

// RandomGarbageFrame returns `g || garbage` ready to write to the wire: one
// length byte g in [GarbageMin, GarbageMax] followed by g random bytes. The
// garbage itself carries no information and is discarded by the receiver;
// its sole purpose is handshake traffic obfuscation.
func RandomGarbageFrame() ([]byte, error) {
	lenByte := make([]byte, 1)
	if _, err := io.ReadFull(rand.Reader, lenByte); err != nil {
		return nil, err
	}
	g := GarbageMin + int(lenByte[0])%(GarbageMax-GarbageMin+1)
	frame := make([]byte, 1+g)
	frame[0] = byte(g)
	if _, err := io.ReadFull(rand.Reader, frame[1:]); err != nil {
		return nil, err
	}
	return frame, nil
}

// ReadAndDiscardGarbage consumes the leading garbage block from r: one
// length byte followed by that many bytes, all discarded.
func ReadAndDiscardGarbage(r io.Reader) error {
	lenByte := make([]byte, 1)
	if _, err := io.ReadFull(r, lenByte); err != nil {
		return errors.Wrap(err, "crypto: reading garbage length")
	}
	g := int(lenByte[0])
	if g < GarbageMin {
		return errors.New("crypto: garbage length below minimum")
	}
	buf := make([]byte, g)
	if _, err := io.ReadFull(r, buf); err != nil {
		return errors.Wrap(err, "crypto: reading garbage bytes")
	}
	return nil
}
