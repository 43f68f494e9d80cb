package report

import (
	"context"
	"sort"

	"github.com/0kPN1/zkpnl/internal/book"
	"github.com/0kPN1/zkpnl/internal/config"
	"github.com/0kPN1/zkpnl/internal/ledger"
	"github.com/0kPN1/zkpnl/internal/quantity"
)

// PNLReport is one symbol's row in the "show report" table: market price,
// cash balance, and market value are normalized to BTC for options
// (divided by the XBTUSD price) and left in USD otherwise; P&L is always
// in USD. Grounded on
// original_source/src/report.rs's PNLReport.
type PNLReport struct {
	IsOption    bool
	Symbol      string
	CashBalance float64
	MarketValue float64
	PnL         float64
	MarketPrice float64
	Size        int64
}

// SNPReport is one album entry's row in a snapshot export: hash, time,
// capital, P&L, and log return. Grounded on
// original_source/src/report.rs's SNPReport.
type SNPReport struct {
	Hash      string
	Time      string
	Capital   float64
	PnL       float64
	LogReturn float64
}

// NewSNPReport projects a Snapshot's public fields into an SNPReport row.
func NewSNPReport(s ledger.Snapshot, timeLayout string) SNPReport {
	return SNPReport{
		Hash:      s.Hash,
		Time:      s.Message.Time.Format(timeLayout),
		Capital:   s.Message.Capital,
		PnL:       s.Message.PnL,
		LogReturn: s.Message.LogReturn,
	}
}

// GetPNLReport builds one PNLReport per symbol in tradeMap, normalizing
// options into BTC via priceMap's XBTUSD entry (falling back to a live
// fetch, then to 1.0, exactly as original_source/src/report.rs does),
// sorted by descending P&L.
func GetPNLReport(ctx context.Context, cfg *config.Config, tradeMap *book.TradeList[quantity.Int64], priceMap *ledger.PriceMap, fetcher PriceFetcher) []PNLReport {
	symbols := tradeMap.Symbols()
	reports := make([]PNLReport, 0, len(symbols))
	for _, sym := range symbols {
		reports = append(reports, newPNLReport(ctx, cfg, sym, tradeMap.Lots(sym), priceMap, fetcher))
	}
	sort.SliceStable(reports, func(i, j int) bool { return reports[i].PnL > reports[j].PnL })
	return reports
}

func newPNLReport(ctx context.Context, cfg *config.Config, symbol string, lots []book.Lot[quantity.Int64], priceMap *ledger.PriceMap, fetcher PriceFetcher) PNLReport {
	isOption := cfg.IsOption(symbol)
	marketPrice, _ := priceMap.Get(symbol)
	zero := quantity.Int64(0)

	underlying := 1.0
	if isOption && len(lots) > 0 {
		if p, ok := priceMap.Get("XBTUSD"); ok {
			underlying = p
		} else if fetcher != nil {
			if p, err := fetcher.FetchPriceMap(ctx, []string{"XBTUSD"}); err == nil {
				if v, ok := p.Get("XBTUSD"); ok {
					underlying = v
				}
			}
		}
	}

	cash := int64(book.CashBalance(lots, zero))
	market := int64(book.MarketValue(lots, zero, quantity.Integerize(marketPrice)))
	return PNLReport{
		IsOption:    isOption,
		Symbol:      symbol,
		MarketPrice: marketPrice / underlying,
		Size:        int64(book.Size(lots, zero)),
		CashBalance: quantity.Deintegerize(cash) / underlying,
		MarketValue: quantity.Deintegerize(market) / underlying,
		PnL:         quantity.Deintegerize(cash + market),
	}
}
