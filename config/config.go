package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Secrets  SecretsConfig  `mapstructure:"secrets"`
	XRPL     XRPLConfig     `mapstructure:"xrpl"`
	Solana   SolanaConfig   `mapstructure:"solana"`
	Oracle   OracleConfig   `mapstructure:"oracle"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// SecretsConfig configures encryption-at-rest for custodied signing secrets.
type SecretsConfig struct {
	AESKey string `mapstructure:"aes_key"` // 32-byte hex-encoded key for AES-256-GCM
}

// XRPLConfig configures the XRP Ledger adapter.
type XRPLConfig struct {
	RPCURL         string        `mapstructure:"rpc_url"`
	FaucetURL      string        `mapstructure:"faucet_url"` // empty = no faucet funding
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	SubmitTimeout  time.Duration `mapstructure:"submit_timeout"` // bound on waiting for validation
}

// SolanaConfig configures the Solana adapter.
type SolanaConfig struct {
	RPCURL         string        `mapstructure:"rpc_url"`
	Commitment     string        `mapstructure:"commitment"` // confirmed or finalized
	Airdrop        bool          `mapstructure:"airdrop"`    // devnet faucet funding on keypair creation
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	SubmitTimeout  time.Duration `mapstructure:"submit_timeout"`
}

// OracleConfig configures the spot price source.
type OracleConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	QuoteCurrency  string        `mapstructure:"quote_currency"` // default quote for fiat annotation
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`      // bounded staleness window
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: XWL_.
// Nested keys use underscore: XWL_DATABASE_HOST, XWL_XRPL_RPC_URL, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "xrplwallet")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "xrplwallet")
	v.SetDefault("secrets.aes_key", "")
	v.SetDefault("xrpl.rpc_url", "https://s.altnet.rippletest.net:51234")
	v.SetDefault("xrpl.faucet_url", "https://faucet.altnet.rippletest.net/accounts")
	v.SetDefault("xrpl.request_timeout", "15s")
	v.SetDefault("xrpl.submit_timeout", "45s")
	v.SetDefault("solana.rpc_url", "https://api.devnet.solana.com")
	v.SetDefault("solana.commitment", "confirmed")
	v.SetDefault("solana.airdrop", true)
	v.SetDefault("solana.request_timeout", "15s")
	v.SetDefault("solana.submit_timeout", "60s")
	v.SetDefault("oracle.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("oracle.quote_currency", "usd")
	v.SetDefault("oracle.cache_ttl", "60s")
	v.SetDefault("oracle.request_timeout", "10s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: XWL_DATABASE_HOST -> database.host
	v.SetEnvPrefix("XWL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
