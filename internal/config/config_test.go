package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/0kPN1/zkpnl/internal/zkerr"
)

func TestLoad_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
transcript = "test-001"
record_path = "records.json"
price_path = "prices.json"
album_path = "album.json"
proof_path = "proofs"
bitmex = ["XBTUSD"]
binance = ["ETHUSDT"]
ed25519_seed = ""
time_zone = 0
capital = 100000
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Transcript != "test-001" {
		t.Errorf("expected transcript=test-001, got %s", cfg.Transcript)
	}
	if cfg.Capital != 100000 {
		t.Errorf("expected capital=100000, got %v", cfg.Capital)
	}

	bitmex, binance := cfg.IsExchangeSymbol("XBTUSD")
	if !bitmex || binance {
		t.Errorf("expected XBTUSD to be bitmex-only, got bitmex=%v binance=%v", bitmex, binance)
	}
	bitmex, binance = cfg.IsExchangeSymbol("BTC-30DEC22-20000-C")
	if bitmex || binance {
		t.Errorf("expected option symbol to be neither bitmex nor binance")
	}
}

func TestLoad_RejectsNonPositiveCapital(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
transcript = "test-001"
record_path = "records.json"
price_path = "prices.json"
album_path = "album.json"
proof_path = "proofs"
capital = 0
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for non-positive capital")
	}
	if !zkerr.Is(err, zkerr.Policy) {
		t.Errorf("expected PolicyError, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if !zkerr.Is(err, zkerr.IO) {
		t.Errorf("expected IOError, got %v", err)
	}
}
