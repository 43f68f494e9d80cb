package ledger

import (
	"math"
	"time"

	"github.com/0kPN1/zkpnl/internal/book"
	"github.com/0kPN1/zkpnl/internal/commitment"
	"github.com/0kPN1/zkpnl/internal/quantity"
	"github.com/0kPN1/zkpnl/internal/zkerr"
)

// i64TradeMapFromRecords rebuilds a plaintext TradeList from a prover's
// own records, the same as original_source's collection::get_i64_trade_map.
func i64TradeMapFromRecords(records []Record) *book.TradeList[quantity.Int64] {
	trades := book.NewTradeList[quantity.Int64]()
	for _, r := range records {
		trades.Append(r.Trade.Symbol, quantity.Integerize(r.Trade.Price), quantity.Int64(r.Trade.Qty))
	}
	return trades
}

func priceMapToInt64(prices *PriceMap) map[string]int64 {
	out := make(map[string]int64, prices.Len())
	for _, sym := range prices.Keys() {
		p, _ := prices.Get(sym)
		out[sym] = quantity.Integerize(p)
	}
	return out
}

// NewRecord implements spec.md §4.4's commit operation: determine the
// effective quantity for kind (Deliver closes the position; Inherit/Trade
// use qtyArg as given), append it to the plaintext trade map rebuilt from
// existing, compute cumulative P&L, commit both under fresh blindings,
// and hash-chain + sign the resulting message.
func NewRecord(
	now time.Time,
	kind Kind,
	symbol string,
	qtyArg int64,
	priceArg float64,
	existing []Record,
	priceMap *PriceMap,
	transcriptLabel string,
	signer *Signer,
) (Record, error) {
	prevHash := Genesis(transcriptLabel)
	if n := len(existing); n > 0 {
		prevHash = existing[n-1].Hash
	}

	trades := i64TradeMapFromRecords(existing)

	qty := qtyArg
	if kind == KindDeliver {
		if !trades.Has(symbol) {
			return Record{}, zkerr.Policyf("deliver: no existing position for %s", symbol)
		}
		qty = int64(book.Size(trades.Lots(symbol), quantity.Int64(0)).Neg())
	}
	trades.Append(symbol, quantity.Integerize(priceArg), quantity.Int64(qty))

	prices := priceMapToInt64(priceMap)
	totalPnL := book.TotalPnL(trades, quantity.Int64(0), prices)
	pnl := quantity.Deintegerize(int64(totalPnL))

	qtyCommitment, qtyBlinding, err := commitment.CommitQuantity(qty)
	if err != nil {
		return Record{}, err
	}
	pnlCommitment, pnlBlinding, err := commitment.CommitQuantity(quantity.Integerize(pnl))
	if err != nil {
		return Record{}, err
	}

	msg := TradeMessage{
		Time:          now,
		Kind:          kind,
		PrevHash:      prevHash,
		Symbol:        symbol,
		Price:         priceArg,
		QtyCommitment: commitment.Serialize(qtyCommitment),
		PnLCommitment: commitment.Serialize(pnlCommitment),
	}
	canon, err := CanonicalJSON(msg)
	if err != nil {
		return Record{}, err
	}
	hash := Sha256Hex(canon)
	sig, err := signer.Sign(hash)
	if err != nil {
		return Record{}, err
	}

	trade := Trade{
		Time:          now,
		Kind:          kind,
		Symbol:        symbol,
		Price:         priceArg,
		Qty:           qty,
		QtyBlinding:   qtyBlinding.Base64(),
		CumulativePnL: pnl,
		PnLBlinding:   pnlBlinding.Base64(),
	}

	return Record{Hash: hash, Signature: sig, Message: msg, Trade: trade}, nil
}

// NewSnapshot implements spec.md §4.4's snapshot operation: drop records
// already covered by the previous snapshot, rebuild the plaintext trade
// map, inherit the previous portfolio as synthetic trades at its closing
// prices, compute the new portfolio and P&L, commit each portfolio size,
// and hash-chain + sign the resulting message.
func NewSnapshot(
	now time.Time,
	album []Snapshot,
	candidateRecords []Record,
	priceMap *PriceMap,
	capital float64,
	transcriptLabel string,
	signer *Signer,
) (Snapshot, error) {
	prevHash := Genesis(transcriptLabel)
	var prev *Snapshot
	if n := len(album); n > 0 {
		prev = &album[n-1]
		prevHash = prev.Hash
	}

	records := make([]Record, 0, len(candidateRecords))
	for _, r := range candidateRecords {
		if prev == nil || r.Message.Time.After(prev.Message.Time) {
			records = append(records, r)
		}
	}

	trades := i64TradeMapFromRecords(records)

	if prev != nil {
		prevPortfolio := book.NewPortfolio[quantity.Int64]()
		for _, sym := range prev.Private.Portfolio.Keys() {
			size, _ := prev.Private.Portfolio.Get(sym)
			prevPortfolio.Set(sym, quantity.Int64(size))
		}
		prevPrices := priceMapToInt64(prev.Private.MarketPrice)
		book.InheritPortfolio(trades, prevPortfolio, prevPrices)
	}

	portfolio := book.BuildPortfolio(trades, quantity.Int64(0))
	prices := priceMapToInt64(priceMap)
	totalPnL := book.TotalPnL(trades, quantity.Int64(0), prices)
	pnl := quantity.Deintegerize(int64(totalPnL))
	logReturn := logReturnOf(pnl, capital)

	portfolioCommitments := NewOrderedMap[string]()
	portfolioBlindings := NewOrderedMap[string]()
	portfolioOut := NewOrderedMap[int64]()
	for _, sym := range portfolio.Symbols() {
		size, _ := portfolio.Get(sym)
		c, blinding, err := commitment.CommitQuantity(int64(size))
		if err != nil {
			return Snapshot{}, err
		}
		portfolioCommitments.Set(sym, commitment.Serialize(c))
		portfolioBlindings.Set(sym, blinding.Base64())
		portfolioOut.Set(sym, int64(size))
	}

	blindedRecords := make([]BlindedRecord, len(records))
	for i, r := range records {
		blindedRecords[i] = r.ToBlinded()
	}

	msg := SnapshotMessage{
		Time:                now,
		PrevHash:            prevHash,
		Capital:             capital,
		PnL:                 pnl,
		LogReturn:           logReturn,
		PortfolioCommitment: portfolioCommitments,
		Records:             blindedRecords,
	}
	canon, err := CanonicalJSON(msg)
	if err != nil {
		return Snapshot{}, err
	}
	hash := Sha256Hex(canon)
	sig, err := signer.Sign(hash)
	if err != nil {
		return Snapshot{}, err
	}

	priv := SnapshotPrivate{
		Time:               now,
		Portfolio:          portfolioOut,
		PortfolioBlindings: portfolioBlindings,
		Records:            records,
		MarketPrice:        priceMap,
	}

	return Snapshot{Hash: hash, Signature: sig, Message: msg, Private: priv}, nil
}

func logReturnOf(pnl, capital float64) float64 {
	if capital <= 0 {
		panic(zkerr.Policyf("snapshot: capital must be positive, got %v", capital).Error())
	}
	return math.Log((pnl + capital) / capital)
}
