package book

import (
	"testing"

	"github.com/0kPN1/zkpnl/internal/quantity"
)

func i(n int64) quantity.Int64 { return quantity.Int64(n) }

func TestSize_SumsQty(t *testing.T) {
	trades := NewTradeList[quantity.Int64]()
	trades.Append("XBTUSD", quantity.Integerize(20000), i(100))
	trades.Append("XBTUSD", quantity.Integerize(21000), i(-40))

	size := Size(trades.Lots("XBTUSD"), quantity.Int64(0))
	if size != 60 {
		t.Errorf("expected size 60, got %d", size)
	}
}

func TestCashBalance_LongConsumesCash(t *testing.T) {
	trades := NewTradeList[quantity.Int64]()
	price := quantity.Integerize(20000)
	trades.Append("XBTUSD", price, i(100))

	cash := CashBalance(trades.Lots("XBTUSD"), quantity.Int64(0))
	if cash != i(100).Neg().MulInt64(price) {
		t.Errorf("expected cash balance -100*price, got %d", cash)
	}
	if cash >= 0 {
		t.Errorf("expected a long buy to consume cash (negative balance), got %d", cash)
	}
}

func TestPnLPerSymbol_FlatWhenMarketEqualsEntry(t *testing.T) {
	trades := NewTradeList[quantity.Int64]()
	price := quantity.Integerize(20000)
	trades.Append("XBTUSD", price, i(100))

	pnl := PnLPerSymbol(trades.Lots("XBTUSD"), quantity.Int64(0), price)
	if pnl != 0 {
		t.Errorf("expected zero P&L when market equals entry price, got %d", pnl)
	}
}

func TestPnLPerSymbol_S2Scenario(t *testing.T) {
	// spec.md S1/S2: commit +100 XBTUSD at 20000, price moves to 21000.
	// Expected P&L == (-100*20000 + 100*21000) == 100000 USD (ignoring scale).
	trades := NewTradeList[quantity.Int64]()
	trades.Append("XBTUSD", quantity.Integerize(20000), i(100))

	pnl := PnLPerSymbol(trades.Lots("XBTUSD"), quantity.Int64(0), quantity.Integerize(21000))
	got := quantity.Deintegerize(int64(pnl))
	if diff := got - 100000; diff > 1e-3 || diff < -1e-3 {
		t.Errorf("expected P&L ~100000, got %v", got)
	}
}

func TestInheritPortfolio_CarriesForwardAsSyntheticTrade(t *testing.T) {
	prev := NewPortfolio[quantity.Int64]()
	prev.Set("XBTUSD", i(100))
	prevPrices := map[string]int64{"XBTUSD": quantity.Integerize(21000)}

	trades := NewTradeList[quantity.Int64]()
	InheritPortfolio(trades, prev, prevPrices)

	lots := trades.Lots("XBTUSD")
	if len(lots) != 1 {
		t.Fatalf("expected exactly one synthetic lot, got %d", len(lots))
	}
	if lots[0].Qty != i(100) || lots[0].Price != prevPrices["XBTUSD"] {
		t.Errorf("expected synthetic lot at previous close, got %+v", lots[0])
	}
}

func TestInheritPortfolio_Idempotence(t *testing.T) {
	// spec.md P6: a snapshot immediately after a previous snapshot with no
	// new records produces pnl == 0.
	prev := NewPortfolio[quantity.Int64]()
	prev.Set("XBTUSD", i(100))
	prevPrices := map[string]int64{"XBTUSD": quantity.Integerize(21000)}

	trades := NewTradeList[quantity.Int64]()
	InheritPortfolio(trades, prev, prevPrices)

	pnl := TotalPnL(trades, quantity.Int64(0), prevPrices)
	if pnl != 0 {
		t.Errorf("expected zero P&L with no new trades since the snapshot, got %d", pnl)
	}
}

func TestDeliver_ClosesPosition(t *testing.T) {
	// spec.md P7: after a Deliver record, size(trade_map[X]) == 0.
	trades := NewTradeList[quantity.Int64]()
	price := quantity.Integerize(20000)
	trades.Append("XBTUSD", price, i(50))

	closingQty := Size(trades.Lots("XBTUSD"), quantity.Int64(0)).Neg()
	trades.Append("XBTUSD", price, closingQty)

	if size := Size(trades.Lots("XBTUSD"), quantity.Int64(0)); size != 0 {
		t.Errorf("expected Deliver to flatten the position to 0, got %d", size)
	}
}
