// Package config defines the node's typed configuration surface (spec §6).
// It deliberately carries no file-format loader (no TOML/YAML parsing):
// the ambient stack's job here is validating an already-populated struct,
// the way a caller would after decoding a file with any format library it
// chooses — populating it is left to cmd/irohad, which fills it from
// command-line flags and reads no configuration file.
package config

import (
	"time"

	"github.com/irohad/iroha2/internal/log"
	"github.com/pkg/errors"
)

// Genesis names the authority and payload for the genesis block. A
// partially-specified Genesis (some but not all of PublicKey/PrivateKey/File
// set) is invalid (spec §6).
type Genesis struct {
	PublicKey  string
	PrivateKey string
	File       string
}

func (g Genesis) empty() bool { return g.PublicKey == "" && g.PrivateKey == "" && g.File == "" }

func (g Genesis) complete() bool { return g.PublicKey != "" && g.PrivateKey != "" && g.File != "" }

var ErrPartialGenesis = errors.New("config: genesis.public_key, genesis.private_key and genesis.file must all be set, or none")

func (g Genesis) Validate() error {
	if !g.empty() && !g.complete() {
		return ErrPartialGenesis
	}
	return nil
}

// Kura configures the block store (an external collaborator; only its
// mode/location are modeled here, per spec §6).
type Kura struct {
	InitMode string
	StoreDir string
}

// Sumeragi configures the initial topology and debug knobs.
type Sumeragi struct {
	TrustedPeers   []string
	ForceSoftFork  bool
}

// Network configures the P2P bind address and gossip tuning.
type Network struct {
	Address                  string
	BlockGossipMaxSize       int
	BlockGossipPeriod        time.Duration
	TransactionGossipMaxSize int
	TransactionGossipPeriod  time.Duration
}

// Queue mirrors queue.Config's tunables at the configuration-surface level.
type Queue struct {
	Capacity              int
	CapacityPerUser       int
	TransactionTimeToLive time.Duration
	FutureThreshold       time.Duration
}

// ChainWide configures consensus timing, block sizing and WASM sandbox
// limits (spec §6 chain_wide.*).
type ChainWide struct {
	BlockTime              time.Duration
	CommitTime             time.Duration
	MaxTransactionsInBlock uint32
	ExecutorFuelLimit      uint64
	ExecutorMaxMemoryBytes uint64
	WasmFuelLimit          uint64
	WasmMaxMemoryBytes     uint64
}

// Torii configures the external HTTP/WebSocket surface; modeled only to the
// extent its fields are referenced by validation, since Torii itself is an
// external collaborator per spec §1.
type Torii struct {
	Address       string
	MaxContentLen int
	QueryIdleTime time.Duration
}

// Logger configures the structured-log sink (spec §6 logger.*).
type Logger struct {
	Level  string
	Format string
}

// Apply pushes Level into the process-wide log level.
func (l Logger) Apply() { log.SetLevel(l.Level) }

// Config is the full node configuration surface (spec §6).
type Config struct {
	ChainId    string
	PublicKey  string
	PrivateKey string

	Genesis   Genesis
	Kura      Kura
	Sumeragi  Sumeragi
	Network   Network
	Queue     Queue
	ChainWide ChainWide
	Torii     Torii
	Logger    Logger

	SubmitGenesis bool
}

// Validate checks every structural invariant the configuration surface
// places on itself, independent of any environment-variable overrides.
func (c Config) Validate() error {
	if c.ChainId == "" {
		return errors.New("config: chain_id is required")
	}
	if c.PublicKey == "" || c.PrivateKey == "" {
		return errors.New("config: public_key and private_key are both required")
	}
	if err := c.Genesis.Validate(); err != nil {
		return err
	}
	if c.SubmitGenesis && c.Genesis.empty() {
		return errors.New("config: --submit-genesis requires a configured genesis key/file")
	}
	return nil
}

// EnvOverride mirrors one recognised environment-variable override group
// (spec §6: "Partial env overrides (e.g. algorithm without payload) are
// rejected with a specific error").
type EnvOverride struct {
	PrivateKeyAlgorithm string
	PrivateKeyPayload   string
}

var ErrPartialEnvOverride = errors.New("config: PRIVATE_KEY_ALGORITHM and PRIVATE_KEY_PAYLOAD must both be set, or neither")

func (e EnvOverride) Validate() error {
	algoSet := e.PrivateKeyAlgorithm != ""
	payloadSet := e.PrivateKeyPayload != ""
	if algoSet != payloadSet {
		return ErrPartialEnvOverride
	}
	return nil
}

// ApplyEnvOverride merges a validated EnvOverride onto c, returning the
// merged configuration.
func ApplyEnvOverride(c Config, e EnvOverride) (Config, error) {
	if err := e.Validate(); err != nil {
		return c, err
	}
	if e.PrivateKeyPayload != "" {
		c.PrivateKey = e.PrivateKeyPayload
	}
	return c, nil
}
