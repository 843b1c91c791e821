package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func valid() Config {
	return Config{
		ChainId:    "test-chain",
		PublicKey:  "pub",
		PrivateKey: "priv",
	}
}

func TestValidateRequiresChainId(t *testing.T) {
	c := valid()
	c.ChainId = ""
	require.Error(t, c.Validate())
}

func TestGenesisPartialConfigurationIsInvalid(t *testing.T) {
	c := valid()
	c.Genesis = Genesis{PublicKey: "gpub"}
	require.ErrorIs(t, c.Validate(), ErrPartialGenesis)
}

func TestGenesisEmptyOrCompleteIsValid(t *testing.T) {
	c := valid()
	require.NoError(t, c.Validate())

	c.Genesis = Genesis{PublicKey: "g", PrivateKey: "g", File: "genesis.signed.scale"}
	require.NoError(t, c.Validate())
}

func TestSubmitGenesisRequiresGenesisConfigured(t *testing.T) {
	c := valid()
	c.SubmitGenesis = true
	require.Error(t, c.Validate())

	c.Genesis = Genesis{PublicKey: "g", PrivateKey: "g", File: "genesis.signed.scale"}
	require.NoError(t, c.Validate())
}

func TestEnvOverridePartialIsRejected(t *testing.T) {
	e := EnvOverride{PrivateKeyAlgorithm: "ed25519"}
	require.ErrorIs(t, e.Validate(), ErrPartialEnvOverride)
}

func TestApplyEnvOverrideMergesPrivateKey(t *testing.T) {
	c := valid()
	merged, err := ApplyEnvOverride(c, EnvOverride{PrivateKeyAlgorithm: "ed25519", PrivateKeyPayload: "overridden"})
	require.NoError(t, err)
	require.Equal(t, "overridden", merged.PrivateKey)
}
