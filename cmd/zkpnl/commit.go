package main

import (
	"context"
	"fmt"

	"github.com/0kPN1/zkpnl/internal/ledger"
	"github.com/0kPN1/zkpnl/internal/zkerr"
)

// marketPriceSentinel requests "use today's fetched market price" in
// place of a literal price argument, matching original_source/src/main.rs's
// use of -1.0 as the commit price sentinel.
const marketPriceSentinel = -1.0

// commit implements spec.md §4.4's commit operation for all three kinds
// (trade, inherit, deliver): fetch the day's price map (adding symbol if
// it isn't already tracked), resolve "market" to the fetched price,
// construct and append the record, and log the fetched price map.
func (a *App) commit(ctx context.Context, kind ledger.Kind, symbol string, qty int64, price float64) error {
	records, err := a.store.ReadRecords()
	if err != nil {
		return err
	}
	marketPrices, err := a.store.ReadMarketPrices()
	if err != nil {
		return err
	}

	symbols := symbolsFromPrices(marketPrices)
	if !containsSymbol(symbols, symbol) {
		symbols = append(symbols, symbol)
	}
	priceMap, err := a.source.FetchPriceMap(ctx, symbols)
	if err != nil {
		return err
	}

	if price == marketPriceSentinel {
		p, ok := priceMap.Get(symbol)
		if !ok {
			return zkerr.Integrityf("commit: no fetched price for %s", symbol)
		}
		price = p
	}

	now := a.now()
	rec, err := ledger.NewRecord(now, kind, symbol, qty, price, records, priceMap, a.cfg.Transcript, a.signer)
	if err != nil {
		return err
	}
	if err := a.store.AppendRecord(rec); err != nil {
		return err
	}
	if err := a.store.AppendMarketPrice(ledger.MarketPrice{Time: now, MarketPrice: priceMap}); err != nil {
		return err
	}
	if a.index != nil {
		if err := a.index.IndexRecord(rec); err != nil {
			return err
		}
	}

	fmt.Printf("hash: %s\nsig: %s\n", rec.Hash, rec.Signature)
	return nil
}

// cmdCommit implements the "commit <symbol> <quantity> (<price> [force] | market)"
// grammar's price validation: a price below 1 requires the explicit
// "force" flag (spec.md's policy that sub-unit prices are usually a typo),
// a negative price is always rejected. price/force are already parsed
// from the CLI tail by the dispatcher (see parseCommitPrice).
func (a *App) cmdCommit(ctx context.Context, symbol string, qty int64, price float64, force bool) error {
	if price == marketPriceSentinel {
		return a.commit(ctx, ledger.KindTrade, symbol, qty, price)
	}
	if price < 0 {
		return zkerr.Inputf("commit: invalid price %v", price)
	}
	if price < 1 && !force {
		return zkerr.Policyf("commit: price below 1 should use force flag: commit <symbol> <quantity> <price> force")
	}
	return a.commit(ctx, ledger.KindTrade, symbol, qty, price)
}

// parseCommitPrice interprets commit's trailing price/force tokens:
// "market" requests the fetched market price; otherwise the next token is
// a float, optionally followed by the literal "force".
func parseCommitPrice(args []string) (price float64, force bool, err error) {
	if len(args) == 0 {
		return 0, false, zkerr.Inputf("commit: missing price argument")
	}
	if args[0] == "market" {
		return marketPriceSentinel, false, nil
	}
	price, err = parseFloat(args[0])
	if err != nil {
		return 0, false, err
	}
	if price < 0 {
		return 0, false, zkerr.Inputf("commit: invalid price %v", price)
	}
	force = len(args) > 1 && args[1] == "force"
	return price, force, nil
}

func (a *App) cmdInherit(ctx context.Context, symbol string, qty int64) error {
	return a.commit(ctx, ledger.KindInherit, symbol, qty, marketPriceSentinel)
}

func (a *App) cmdDeliver(ctx context.Context, symbol string) error {
	return a.commit(ctx, ledger.KindDeliver, symbol, 0, marketPriceSentinel)
}
