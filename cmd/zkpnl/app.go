// Command zkpnl is the CLI entry point: os.Args dispatch onto the
// commit/inherit/deliver/snapshot/prove/verify/show/export/version
// grammar spec.md §6 defines, plus an optional REPL. Grounded on
// original_source/src/main.rs's dispatch and src/cmd.rs's command
// bodies; the teacher's fixclient/repl.go supplies the readline-driven
// REPL idiom (builder/constants/fixclient's FIX-only pieces are dropped,
// see DESIGN.md).
package main

import (
	"time"

	"github.com/0kPN1/zkpnl/internal/config"
	"github.com/0kPN1/zkpnl/internal/ledger"
	"github.com/0kPN1/zkpnl/internal/priced"
	"github.com/0kPN1/zkpnl/internal/store"
)

// versionString is this binary's own release version, independent of
// proof.ProtocolVersion.
const versionString = "0.1.0"

const helpText = `
Zero-knowledge P&L Prover
USAGE:
    commit <symbol> <quantity> (<price> [force] | market)
    inherit <symbol> <quantity>
    deliver <symbol>
    snapshot
    prove
    verify [<proof_file>]
    show market (all [save] | <symbol>)
    show report [from <start>] [to (<end> | now)]
    show snapshot
    export snapshot
    version
where <start> and <end> is in format yyyyMMddHHmm
`

// App bundles everything a command needs: configuration, the log store,
// the optional SQLite side-index, the live price source, the signer, and
// the configured local time zone.
type App struct {
	cfg    *config.Config
	store  store.LogStore
	index  *store.Index
	source *priced.Source
	signer *ledger.Signer
	loc    *time.Location
}

// newApp loads configuration from configPath and wires every dependent
// component.
func newApp(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	signer, err := ledger.NewSigner(cfg.Ed25519Seed)
	if err != nil {
		return nil, err
	}

	var idx *store.Index
	if cfg.IndexPath != "" {
		idx, err = store.NewIndex(cfg.IndexPath)
		if err != nil {
			return nil, err
		}
	}

	return &App{
		cfg:    cfg,
		store:  store.NewJSONStore(cfg.RecordPath, cfg.AlbumPath, cfg.PricePath, cfg.ProofPath, signer.PublicKeyBase64()),
		index:  idx,
		source: priced.NewSource(cfg),
		signer: signer,
		loc:    time.FixedZone("zkpnl", cfg.TimeZone*3600),
	}, nil
}

func (a *App) now() time.Time { return time.Now().In(a.loc) }

// symbolsFromPrices returns the most recently logged price observation's
// symbol set, matching original_source/src/collection.rs's get_symbols.
func symbolsFromPrices(marketPrices []ledger.MarketPrice) []string {
	if len(marketPrices) == 0 {
		return nil
	}
	return marketPrices[len(marketPrices)-1].MarketPrice.Keys()
}

func containsSymbol(symbols []string, symbol string) bool {
	for _, s := range symbols {
		if s == symbol {
			return true
		}
	}
	return false
}
