package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTripSumeragiPacket(t *testing.T) {
	orig := &SumeragiPacket{ViewChangeIndex: 3, PayloadKind: 7, Payload: []byte("proposal")}
	decoded, err := Decode(Encode(orig))
	require.NoError(t, err)
	require.Equal(t, orig, decoded)
}

func TestRoundTripBlockSync(t *testing.T) {
	orig := &BlockSync{FromHeight: 10, ToHeight: 12, Blocks: [][]byte{[]byte("a"), []byte("bb"), {}}}
	decoded, err := Decode(Encode(orig))
	require.NoError(t, err)
	require.Equal(t, orig, decoded)
}

func TestRoundTripHealthCheck(t *testing.T) {
	orig := &HealthCheck{Nonce: 42}
	decoded, err := Decode(Encode(orig))
	require.NoError(t, err)
	require.Equal(t, orig, decoded)
}

func TestDecodeUnknownVersion(t *testing.T) {
	_, err := Decode([]byte{0xFF})
	require.ErrorIs(t, err, ErrUnknownVersion)
}

func TestDecodeTruncatedFrame(t *testing.T) {
	full := Encode(&HealthCheck{Nonce: 1})
	_, err := Decode(full[:2])
	require.Error(t, err)
}
