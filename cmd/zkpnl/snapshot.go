package main

import (
	"context"
	"fmt"

	"github.com/0kPN1/zkpnl/internal/ledger"
)

// cmdSnapshot implements spec.md §4.4's snapshot operation: fetch a fresh
// price map, fold every record since the last snapshot into a new
// portfolio, and append the result to the album.
func (a *App) cmdSnapshot(ctx context.Context) error {
	records, err := a.store.ReadRecords()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no record. please commit first.")
		return nil
	}
	marketPrices, err := a.store.ReadMarketPrices()
	if err != nil {
		return err
	}
	album, err := a.store.ReadSnapshots()
	if err != nil {
		return err
	}

	symbols := symbolsFromPrices(marketPrices)
	priceMap, err := a.source.FetchPriceMap(ctx, symbols)
	if err != nil {
		return err
	}

	now := a.now()
	snap, err := ledger.NewSnapshot(now, album, records, priceMap, a.cfg.Capital, a.cfg.Transcript, a.signer)
	if err != nil {
		return err
	}

	start := snap.Message.Time
	if len(snap.Message.Records) > 0 {
		start = snap.Message.Records[0].Message.Time
	}
	if len(album) > 0 {
		start = album[len(album)-1].Message.Time
	}

	if err := a.store.AppendSnapshot(snap); err != nil {
		return err
	}
	if err := a.store.AppendMarketPrice(ledger.MarketPrice{Time: now, MarketPrice: priceMap}); err != nil {
		return err
	}
	if a.index != nil {
		if err := a.index.IndexSnapshot(snap); err != nil {
			return err
		}
	}

	fmt.Printf("\n%-25s|%-8s\n", "Instrument", "Size")
	for _, sym := range snap.Private.Portfolio.Keys() {
		size, _ := snap.Private.Portfolio.Get(sym)
		fmt.Printf("%-25s|%-8d\n", sym, size)
	}
	fmt.Printf("\nFrom\t\t%s\nTo\t\t%s\nP&L\t\t%v\nLog Return\t%v\n", start, now, snap.Message.PnL, snap.Message.LogReturn)
	fmt.Printf("\nhash: %s\nsig: %s\n", snap.Hash, snap.Signature)
	return nil
}
