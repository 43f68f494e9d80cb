package report

import (
	"context"
	"time"

	"github.com/0kPN1/zkpnl/internal/book"
	"github.com/0kPN1/zkpnl/internal/ledger"
	"github.com/0kPN1/zkpnl/internal/quantity"
	"github.com/0kPN1/zkpnl/internal/zkerr"
)

// RangeFilteredTradeMap is records partitioned by a TimeRange: TradeMap1
// is every trade strictly before the range's start (the book as it stood
// entering the range, used as the "before" baseline), TradeMap2 is every
// trade up to and including the range's end (the book as of the range's
// end). Grounded on original_source/src/report.rs's
// RangeFilteredTradeMap::new.
type RangeFilteredTradeMap struct {
	FirstTradeTime time.Time
	LastTradeTime  time.Time
	Count          int
	TradeMap1      *book.TradeList[quantity.Int64]
	TradeMap2      *book.TradeList[quantity.Int64]
}

// NewRangeFilteredTradeMap partitions records by r, resolving r's open
// ends against records' own first/last timestamps. It returns ok=false
// when no record falls within the resolved [start, end] window.
func NewRangeFilteredTradeMap(r TimeRange, records []ledger.Record) (*RangeFilteredTradeMap, bool) {
	if len(records) == 0 {
		return nil, false
	}
	start, end := resolveBounds(r, records)

	var slice1Len int
	var times []time.Time
	map1 := book.NewTradeList[quantity.Int64]()
	map2 := book.NewTradeList[quantity.Int64]()
	for _, rec := range records {
		price := quantity.Integerize(rec.Trade.Price)
		qty := quantity.Int64(rec.Trade.Qty)
		if rec.Message.Time.Before(start) {
			slice1Len++
			map1.Append(rec.Trade.Symbol, price, qty)
		}
		if !rec.Message.Time.After(end) {
			times = append(times, rec.Message.Time)
			map2.Append(rec.Trade.Symbol, price, qty)
		}
	}
	if len(map1.Symbols()) == 0 {
		for _, sym := range map2.Symbols() {
			map1Ensure(map1, sym)
		}
	}
	if slice1Len > len(times) {
		slice1Len = len(times)
	}
	windowed := times[slice1Len:]
	if len(windowed) == 0 {
		return nil, false
	}
	return &RangeFilteredTradeMap{
		FirstTradeTime: windowed[0],
		LastTradeTime:  windowed[len(windowed)-1],
		Count:          len(windowed),
		TradeMap1:      map1,
		TradeMap2:      map2,
	}, true
}

// map1Ensure records sym as a tracked symbol of an otherwise-empty
// TradeMap1, so that an empty "before" book still enumerates every symbol
// the "after" book trades. The symbol gets one zero-price, zero-quantity
// lot rather than an empty lot list.
func map1Ensure(t *book.TradeList[quantity.Int64], sym string) {
	if !t.Has(sym) {
		t.Append(sym, 0, 0)
		// A zero-price, zero-qty synthetic lot contributes nothing to
		// CashBalance/MarketValue/Size, so this reads as "tracked, no
		// position" rather than a real trade.
	}
}

func resolveBounds(r TimeRange, records []ledger.Record) (start, end time.Time) {
	switch r.Kind {
	case KindRange:
		return r.Start, r.End
	case KindUpToLastSince:
		return r.Start, records[len(records)-1].Message.Time
	case KindUpToNowSince:
		return r.Start, records[len(records)-1].Message.Time
	case KindUpTo:
		return records[0].Message.Time, r.End
	default: // KindUpToLast, KindUpToNow
		return records[0].Message.Time, records[len(records)-1].Message.Time
	}
}

// PriceFetcher fetches live prices, satisfied by *priced.Source; report
// depends on the interface, not the concrete package, so tests can stub
// it without standing up an HTTP server.
type PriceFetcher interface {
	FetchPriceMap(ctx context.Context, symbols []string) (*ledger.PriceMap, error)
}

// RangeFilteredPriceMap is the price side of a report: the price map
// logged at the first in-range trade's time (PriceMap1) and the one logged
// at the last in-range trade's time or live-fetched "now" (PriceMap2),
// plus the wall-clock time PriceMap2 was observed at.
type RangeFilteredPriceMap struct {
	MarketTime time.Time
	PriceMap1  *ledger.PriceMap
	PriceMap2  *ledger.PriceMap
}

// NewRangeFilteredPriceMap resolves r's price maps against the logged
// market-price history, fetching live prices for the KindUpToNow*
// variants via fetcher.
func NewRangeFilteredPriceMap(ctx context.Context, r TimeRange, marketPrices []ledger.MarketPrice, rftm *RangeFilteredTradeMap, fetcher PriceFetcher, loc *time.Location) (*RangeFilteredPriceMap, error) {
	map1 := findPriceMapAt(marketPrices, rftm.FirstTradeTime)
	if map1 == nil {
		return nil, zkerr.Integrityf("report: no market price recorded at %s", rftm.FirstTradeTime)
	}

	var marketTime time.Time
	var map2 *ledger.PriceMap
	switch r.Kind {
	case KindUpToNow, KindUpToNowSince:
		marketTime = Now(loc)
		symbols := symbolsOf(marketPrices)
		pm, err := fetcher.FetchPriceMap(ctx, symbols)
		if err != nil {
			return nil, err
		}
		map2 = pm
	default:
		marketTime = rftm.LastTradeTime
		map2 = findPriceMapAt(marketPrices, rftm.LastTradeTime)
		if map2 == nil {
			return nil, zkerr.Integrityf("report: no market price recorded at %s", rftm.LastTradeTime)
		}
	}
	return &RangeFilteredPriceMap{MarketTime: marketTime, PriceMap1: map1, PriceMap2: map2}, nil
}

func findPriceMapAt(marketPrices []ledger.MarketPrice, t time.Time) *ledger.PriceMap {
	for _, mp := range marketPrices {
		if mp.Time.Equal(t) {
			return mp.MarketPrice
		}
	}
	return nil
}

// symbolsOf returns the symbols tracked by the most recent price
// observation, or nil if there is none.
func symbolsOf(marketPrices []ledger.MarketPrice) []string {
	if len(marketPrices) == 0 {
		return nil
	}
	return marketPrices[len(marketPrices)-1].MarketPrice.Keys()
}
