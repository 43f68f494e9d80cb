// Package book implements C2: portfolio inheritance, portfolio
// aggregation, cash-balance, market-value, and total-P&L, all generic
// over quantity.Scalar. Every formula here is written once and executed
// twice — once with quantity.Int64 for the prover's plaintext ledger,
// once with quantity.Committed for the proof circuit — following
// original_source/src/core.rs's ZKPNLCalculable formulas exactly.
package book

import "github.com/0kPN1/zkpnl/internal/quantity"

// Lot is a single priced trade (or synthetic inherited position) against
// a symbol: a public price coefficient and a quantity of type Q.
type Lot[Q quantity.Scalar[Q]] struct {
	Price int64 // integerized price, public
	Qty   Q
}

// TradeList is Symbol -> ordered lots, insertion order = symbol-first-seen.
type TradeList[Q quantity.Scalar[Q]] struct {
	order []string
	lots  map[string][]Lot[Q]
}

// NewTradeList returns an empty, order-preserving trade list.
func NewTradeList[Q quantity.Scalar[Q]]() *TradeList[Q] {
	return &TradeList[Q]{lots: make(map[string][]Lot[Q])}
}

// Append adds a (price, qty) lot to symbol's list, creating the entry
// (and recording first-seen order) if absent.
func (t *TradeList[Q]) Append(symbol string, price int64, qty Q) {
	if _, ok := t.lots[symbol]; !ok {
		t.order = append(t.order, symbol)
	}
	t.lots[symbol] = append(t.lots[symbol], Lot[Q]{Price: price, Qty: qty})
}

// Symbols returns the tracked symbols in first-seen order.
func (t *TradeList[Q]) Symbols() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Lots returns symbol's lots (nil if untracked).
func (t *TradeList[Q]) Lots(symbol string) []Lot[Q] { return t.lots[symbol] }

// Has reports whether symbol has any lots.
func (t *TradeList[Q]) Has(symbol string) bool {
	_, ok := t.lots[symbol]
	return ok
}

// Size = Σ qty over a symbol's lots.
func Size[Q quantity.Scalar[Q]](lots []Lot[Q], zero Q) Q {
	total := zero
	for _, l := range lots {
		total = total.Add(l.Qty)
	}
	return total
}

// CashBalance = Σ(-qty * price). Long buys (qty>0) consume cash; shorts
// receive cash.
func CashBalance[Q quantity.Scalar[Q]](lots []Lot[Q], zero Q) Q {
	total := zero
	for _, l := range lots {
		total = total.Add(l.Qty.Neg().MulInt64(l.Price))
	}
	return total
}

// MarketValue = size(lots) * marketPrice.
func MarketValue[Q quantity.Scalar[Q]](lots []Lot[Q], zero Q, marketPrice int64) Q {
	return Size(lots, zero).MulInt64(marketPrice)
}

// PnLPerSymbol = CashBalance + MarketValue.
func PnLPerSymbol[Q quantity.Scalar[Q]](lots []Lot[Q], zero Q, marketPrice int64) Q {
	return CashBalance(lots, zero).Add(MarketValue(lots, zero, marketPrice))
}

// TotalPnL = Σ_symbol PnLPerSymbol(trades[sym], prices[sym]). A symbol
// present in trades but absent from prices is valued at market price 0.
func TotalPnL[Q quantity.Scalar[Q]](trades *TradeList[Q], zero Q, prices map[string]int64) Q {
	total := zero
	for _, sym := range trades.Symbols() {
		total = total.Add(PnLPerSymbol(trades.Lots(sym), zero, prices[sym]))
	}
	return total
}

// Portfolio is the ordered Symbol -> net size mapping.
type Portfolio[Q quantity.Scalar[Q]] struct {
	order []string
	sizes map[string]Q
}

// NewPortfolio returns an empty, order-preserving portfolio.
func NewPortfolio[Q quantity.Scalar[Q]]() *Portfolio[Q] {
	return &Portfolio[Q]{sizes: make(map[string]Q)}
}

// Set inserts or overwrites symbol's net size, recording first-insertion
// order.
func (p *Portfolio[Q]) Set(symbol string, qty Q) {
	if _, ok := p.sizes[symbol]; !ok {
		p.order = append(p.order, symbol)
	}
	p.sizes[symbol] = qty
}

// Symbols returns tracked symbols in first-seen order.
func (p *Portfolio[Q]) Symbols() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Get returns symbol's net size and whether it is tracked.
func (p *Portfolio[Q]) Get(symbol string) (Q, bool) {
	q, ok := p.sizes[symbol]
	return q, ok
}

// BuildPortfolio computes Symbol -> Size(trades[symbol]) for every
// tracked symbol.
func BuildPortfolio[Q quantity.Scalar[Q]](trades *TradeList[Q], zero Q) *Portfolio[Q] {
	p := NewPortfolio[Q]()
	for _, sym := range trades.Symbols() {
		p.Set(sym, Size(trades.Lots(sym), zero))
	}
	return p
}

// InheritPortfolio appends a synthetic trade, at the previous snapshot's
// closing price, for every (symbol, size) carried in prevPortfolio, into
// trades. This treats a carried-forward position as a trade executed at
// the previous close, collapsing the per-period P&L formula into one
// linear expression instead of separate realized/unrealized bookkeeping.
func InheritPortfolio[Q quantity.Scalar[Q]](trades *TradeList[Q], prevPortfolio *Portfolio[Q], prevPrices map[string]int64) {
	for _, sym := range prevPortfolio.Symbols() {
		size, _ := prevPortfolio.Get(sym)
		trades.Append(sym, prevPrices[sym], size)
	}
}
