// Package config loads the TOML configuration that every zkpnl command
// reads once at process start.
package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/0kPN1/zkpnl/internal/zkerr"
)

// Config mirrors the original ZKPNLConfig: a fixed transcript label, the
// three append-only data file paths, the proof directory, per-exchange
// symbol lists, the signing seed, the local time zone offset, and capital.
type Config struct {
	Transcript  string   `toml:"transcript"`
	RecordPath  string   `toml:"record_path"`
	PricePath   string   `toml:"price_path"`
	AlbumPath   string   `toml:"album_path"`
	ProofPath   string   `toml:"proof_path"`
	IndexPath   string   `toml:"index_path"`
	Bitmex      []string `toml:"bitmex"`
	Binance     []string `toml:"binance"`
	Ed25519Seed string   `toml:"ed25519_seed"`
	TimeZone    int      `toml:"time_zone"`
	Capital     float64  `toml:"capital"`
}

// Load reads and parses the TOML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zkerr.WrapIO(err, "read config %s", path)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, zkerr.WrapInput(err, "parse config %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate enforces the invariants spec.md §6/§7 place on configuration:
// capital must be positive, the transcript label must be non-empty.
func (c *Config) Validate() error {
	if c.Transcript == "" {
		return zkerr.Inputf("config: transcript must not be empty")
	}
	if c.Capital <= 0 {
		return zkerr.Policyf("config: capital must be positive, got %v", c.Capital)
	}
	if c.RecordPath == "" || c.PricePath == "" || c.AlbumPath == "" || c.ProofPath == "" {
		return zkerr.Inputf("config: record_path, price_path, album_path, and proof_path are required")
	}
	return nil
}

// IsExchangeSymbol reports whether sym is configured under bitmex or
// binance. A symbol absent from both lists is treated as a Deribit option.
func (c *Config) IsExchangeSymbol(sym string) (bitmex, binance bool) {
	for _, s := range c.Bitmex {
		if s == sym {
			bitmex = true
		}
	}
	for _, s := range c.Binance {
		if s == sym {
			binance = true
		}
	}
	return
}

// IsOption reports whether sym is a Deribit option: neither a configured
// bitmex nor a binance symbol.
func (c *Config) IsOption(sym string) bool {
	bitmex, binance := c.IsExchangeSymbol(sym)
	return !bitmex && !binance
}
