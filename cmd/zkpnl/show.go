package main

import (
	"context"
	"fmt"

	"github.com/0kPN1/zkpnl/internal/ledger"
	"github.com/0kPN1/zkpnl/internal/report"
)

// cmdShowMarket implements "show market <symbol>": fetch and print a
// single live price.
func (a *App) cmdShowMarket(ctx context.Context, symbol string) error {
	price, err := a.source.FetchPrice(ctx, symbol)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %10.4f USD\n", symbol, price)
	return nil
}

// cmdShowMarketAll implements "show market all [save]": fetch every
// tracked symbol's price (defaulting to XBTUSD alone when nothing has
// ever been tracked), print options denominated in BTC via XBTUSD, and
// optionally append the fetched map to the price log.
func (a *App) cmdShowMarketAll(ctx context.Context, save bool) error {
	marketPrices, err := a.store.ReadMarketPrices()
	if err != nil {
		return err
	}
	symbols := symbolsFromPrices(marketPrices)
	if len(symbols) == 0 {
		symbols = []string{"XBTUSD"}
	}
	priceMap, err := a.source.FetchPriceMap(ctx, symbols)
	if err != nil {
		return err
	}

	if save {
		if err := a.store.AppendMarketPrice(ledger.MarketPrice{Time: a.now(), MarketPrice: priceMap}); err != nil {
			return err
		}
	}

	xbtusd, _ := priceMap.Get("XBTUSD")
	for _, sym := range priceMap.Keys() {
		price, _ := priceMap.Get(sym)
		if a.cfg.IsOption(sym) && xbtusd != 0 {
			fmt.Printf("%-20s %10.4f BTC\n", sym, price/xbtusd)
		} else {
			fmt.Printf("%-20s %10.4f USD\n", sym, price)
		}
	}
	return nil
}

// cmdShowSnapshot implements "show snapshot": a one-line-per-entry table
// of every album entry's hash, time, P&L, and log return.
func (a *App) cmdShowSnapshot() error {
	album, err := a.store.ReadSnapshots()
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("%-10s|%-35s|%-16s|%-16s\n", "Hash", "Time", "P&L (USD)", "Log Return")
	fmt.Println("----------------------------------------------------------------------")
	for _, snap := range album {
		hash := snap.Hash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		fmt.Printf("%-10s|%-35s|%16.1f|%16.8f\n", hash, snap.Message.Time.Format(timeDisplayLayout), snap.Message.PnL, snap.Message.LogReturn)
	}
	fmt.Println()
	return nil
}

const timeDisplayLayout = "2006-01-02 15:04:05 -0700"

// cmdShowReport implements "show report [from <start>] [to (<end>|now)]":
// the per-symbol P&L table over the resolved range, and portfolio totals
// split by USD- vs BTC-denominated instruments. Grounded on
// original_source/src/cmd.rs::show_report.
func (a *App) cmdShowReport(ctx context.Context, args []string) error {
	tr, _ := report.ParseArgs(args, a.loc)

	records, err := a.store.ReadRecords()
	if err != nil {
		return err
	}
	rftm, ok := report.NewRangeFilteredTradeMap(tr, records)
	if !ok {
		fmt.Println("no record found in this range")
		return nil
	}

	marketPrices, err := a.store.ReadMarketPrices()
	if err != nil {
		return err
	}
	rfpm, err := report.NewRangeFilteredPriceMap(ctx, tr, marketPrices, rftm, a.source, a.loc)
	if err != nil {
		return err
	}

	reports1 := report.GetPNLReport(ctx, a.cfg, rftm.TradeMap1, rfpm.PriceMap1, a.source)
	reports2 := report.GetPNLReport(ctx, a.cfg, rftm.TradeMap2, rfpm.PriceMap2, a.source)
	bysymbol1 := make(map[string]report.PNLReport, len(reports1))
	for _, r := range reports1 {
		bysymbol1[r.Symbol] = r
	}

	fmt.Println()
	fmt.Printf("First trade\t%s\n", rftm.FirstTradeTime)
	fmt.Printf("Last trade\t%s\n", rftm.LastTradeTime)
	fmt.Printf("Market price\t%s\n", rfpm.MarketTime)
	fmt.Println()
	fmt.Printf("%-25s|%-8s|%-16s|%-16s|%-16s|%-16s|%-16s\n", "Instrument", "Size", "Market Price", "Avg. Price", "Cash Balance", "Market Value", "P&L")
	fmt.Println("------------------------------------------------------------------------------------------------------------------------")

	var usdBalance, btcBalance, usdValue, btcValue, totalPnL float64
	for _, r2 := range reports2 {
		r1 := bysymbol1[r2.Symbol] // zero PNLReport if absent, i.e. no "before" position
		cb := r2.CashBalance - r1.CashBalance
		mv := r2.MarketValue - r1.MarketValue
		pnl := r2.PnL - r1.PnL
		avgPrice := 0.0
		if r2.Size != 0 {
			avgPrice = -cb / float64(r2.Size)
		}
		if r2.IsOption {
			if r2.Size != 0 {
				btcBalance += cb
			}
			btcValue += mv
			fmt.Printf("%-25s|%8d|%13.4f BTC|%13.4f BTC|%13.4f BTC|%13.4f BTC|%13.1f USD\n", r2.Symbol, r2.Size, r2.MarketPrice, avgPrice, cb, mv, pnl)
		} else {
			if r2.Size != 0 {
				usdBalance += cb
			}
			usdValue += mv
			fmt.Printf("%-25s|%8d|%13.1f USD|%13.1f USD|%13.1f USD|%13.1f USD|%13.1f USD\n", r2.Symbol, r2.Size, r2.MarketPrice, avgPrice, cb, mv, pnl)
		}
		totalPnL += pnl
	}
	fmt.Println()
	fmt.Printf("Number of trades: %d\n", rftm.Count)
	fmt.Printf("Total Cash Balance: %.1f USD + %.4f BTC (zero size instruments are not included)\n", usdBalance, btcBalance)
	fmt.Printf("Total Market Value: %.1f USD + %.4f BTC\n", usdValue, btcValue)
	fmt.Printf("Total P&L: %.1f USD\n", totalPnL)
	fmt.Println()
	return nil
}
