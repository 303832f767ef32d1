package config

import "time"

type PostgresConfig struct {
	DSN             string        `env:"PG_DSN"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" default:"10"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME" default:"5m"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" default:"30m"`
}

// SolanaConfig describes the external ledger program. Resolve stays
// disabled when the authority keypair path is empty.
type SolanaConfig struct {
	RPCURL              string        `env:"SOLANA_RPC_URL" default:"https://api.devnet.solana.com"`
	ProgramID           string        `env:"RPS_ESCROW_PROGRAM_ID" default:"F4d4VwBaQrqf5hUZs74XoiVCAo76BpeRSqABxMMzG7kN"`
	AuthorityKeyPath    string        `env:"RESOLVE_AUTHORITY_KEYPAIR_PATH" default:""`
	TransactionTimeout  time.Duration `env:"SOLANA_TX_TIMEOUT" default:"90s"`
	ConfirmPollInterval time.Duration `env:"SOLANA_CONFIRM_POLL_INTERVAL" default:"2s"`
}

// GameConfig holds the lobby and settlement policy values; they are passed
// into the game service constructor, never read as ambient globals.
type GameConfig struct {
	MinStakeLamports int64 `env:"MIN_STAKE_LAMPORTS" default:"1000000"`
	PinMaxAttempts   int   `env:"PIN_MAX_ATTEMPTS" default:"25"`
}
