package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveSharedAgrees(t *testing.T) {
	alice, err := GenerateEphemeralKeypair()
	require.NoError(t, err)
	bob, err := GenerateEphemeralKeypair()
	require.NoError(t, err)

	aliceKey, err := DeriveShared(alice, bob.Public)
	require.NoError(t, err)
	bobKey, err := DeriveShared(bob, alice.Public)
	require.NoError(t, err)

	require.Equal(t, aliceKey, bobKey)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	alice, err := GenerateEphemeralKeypair()
	require.NoError(t, err)
	bob, err := GenerateEphemeralKeypair()
	require.NoError(t, err)
	key, err := DeriveShared(alice, bob.Public)
	require.NoError(t, err)

	plaintext := []byte("sumeragi-packet-payload")
	ciphertext, err := Encrypt(key, plaintext)
	require.NoError(t, err)
	require.NotEqual(t, plaintext, ciphertext)

	decoded, err := Decrypt(key, ciphertext)
	require.NoError(t, err)
	require.Equal(t, plaintext, decoded)
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	alice, _ := GenerateEphemeralKeypair()
	bob, _ := GenerateEphemeralKeypair()
	key, _ := DeriveShared(alice, bob.Public)

	ciphertext, err := Encrypt(key, []byte("hello"))
	require.NoError(t, err)
	ciphertext[len(ciphertext)-1] ^= 0xFF

	_, err = Decrypt(key, ciphertext)
	require.Error(t, err)
}

func TestGarbageFrameRoundTrip(t *testing.T) {
	frame, err := RandomGarbageFrame()
	require.NoError(t, err)
	require.GreaterOrEqual(t, int(frame[0]), GarbageMin)
	require.LessOrEqual(t, int(frame[0]), GarbageMax)
	require.Len(t, frame, 1+int(frame[0]))

	err = ReadAndDiscardGarbage(bytes.NewReader(frame))
	require.NoError(t, err)
}
