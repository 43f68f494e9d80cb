package proof

import (
	"github.com/0kPN1/zkpnl/internal/book"
	"github.com/0kPN1/zkpnl/internal/commitment"
	"github.com/0kPN1/zkpnl/internal/ledger"
	"github.com/0kPN1/zkpnl/internal/quantity"
	"github.com/0kPN1/zkpnl/internal/zkerr"
)

func priceMapToInt64(pm *ledger.PriceMap) map[string]int64 {
	out := make(map[string]int64, pm.Len())
	for _, sym := range pm.Keys() {
		p, _ := pm.Get(sym)
		out[sym] = quantity.Integerize(p)
	}
	return out
}

// proverStatements rebuilds, from the prover's known openings, the same
// linear combinations original_source/src/proof.rs's ZKPNLProof::new
// builds in R1CS, and returns the commitment differences that must each
// open to zero for the snapshot's published P&L and portfolio to be
// correct: one for the total P&L, one per portfolio symbol. Every
// returned Committed carries Known=true.
func proverStatements(previous *ledger.Snapshot, current *ledger.Snapshot) ([]quantity.Committed, error) {
	trades := book.NewTradeList[quantity.Committed]()
	for _, r := range current.Private.Records {
		blinding, err := commitment.ParseBlinding(r.Trade.QtyBlinding)
		if err != nil {
			return nil, err
		}
		c := commitment.CommitWithBlinding(r.Trade.Qty, blinding)
		trades.Append(r.Trade.Symbol, quantity.Integerize(r.Trade.Price), c)
	}

	if previous != nil {
		prevPort := book.NewPortfolio[quantity.Committed]()
		for _, sym := range previous.Private.Portfolio.Keys() {
			size, _ := previous.Private.Portfolio.Get(sym)
			blindingStr, ok := previous.Private.PortfolioBlindings.Get(sym)
			if !ok {
				return nil, zkerr.Integrityf("proof: missing portfolio blinding for %s", sym)
			}
			blinding, err := commitment.ParseBlinding(blindingStr)
			if err != nil {
				return nil, err
			}
			prevPort.Set(sym, commitment.CommitWithBlinding(size, blinding))
		}
		prevPrices := priceMapToInt64(previous.Private.MarketPrice)
		book.InheritPortfolio(trades, prevPort, prevPrices)
	}

	zero := commitment.Zero()
	currentPrices := priceMapToInt64(current.Private.MarketPrice)
	lcPnL := book.TotalPnL(trades, zero, currentPrices)
	expectedPnL := commitment.CommitPublic(quantity.Integerize(current.Message.PnL))
	diffs := []quantity.Committed{lcPnL.Add(expectedPnL.Neg())}

	expectedPortfolio := book.BuildPortfolio(trades, zero)
	for _, sym := range current.Private.Portfolio.Keys() {
		size, _ := current.Private.Portfolio.Get(sym)
		blindingStr, ok := current.Private.PortfolioBlindings.Get(sym)
		if !ok {
			return nil, zkerr.Integrityf("proof: missing portfolio blinding for %s", sym)
		}
		blinding, err := commitment.ParseBlinding(blindingStr)
		if err != nil {
			return nil, err
		}
		curt := commitment.CommitWithBlinding(size, blinding)
		expected, ok := expectedPortfolio.Get(sym)
		if !ok {
			return nil, zkerr.Integrityf("proof: no trades contribute to portfolio symbol %s", sym)
		}
		diffs = append(diffs, curt.Add(expected.Neg()))
	}
	return diffs, nil
}

// verifierStatements rebuilds the same linear combinations as
// proverStatements but from serialized, opaque commitments only (the
// blinded/published form a verifier actually sees). Every returned
// Committed carries Known=false; only its Point is meaningful.
func verifierStatements(previous *ledger.BlindedSnapshot, current *ledger.BlindedSnapshot) ([]quantity.Committed, error) {
	trades := book.NewTradeList[quantity.Committed]()
	for _, r := range current.Message.Records {
		c, err := commitment.Deserialize(r.Message.QtyCommitment)
		if err != nil {
			return nil, err
		}
		trades.Append(r.Message.Symbol, quantity.Integerize(r.Message.Price), c)
	}

	if previous != nil {
		prevPort := book.NewPortfolio[quantity.Committed]()
		for _, sym := range previous.Message.PortfolioCommitment.Keys() {
			cmt, _ := previous.Message.PortfolioCommitment.Get(sym)
			c, err := commitment.Deserialize(cmt)
			if err != nil {
				return nil, err
			}
			prevPort.Set(sym, c)
		}
		prevPrices := priceMapToInt64(previous.MarketPrice)
		book.InheritPortfolio(trades, prevPort, prevPrices)
	}

	zero := commitment.Zero()
	currentPrices := priceMapToInt64(current.MarketPrice)
	lcPnL := book.TotalPnL(trades, zero, currentPrices)
	expectedPnL := commitment.CommitPublic(quantity.Integerize(current.Message.PnL))
	diffs := []quantity.Committed{lcPnL.Add(expectedPnL.Neg())}

	expectedPortfolio := book.BuildPortfolio(trades, zero)
	for _, sym := range current.Message.PortfolioCommitment.Keys() {
		cmt, _ := current.Message.PortfolioCommitment.Get(sym)
		curt, err := commitment.Deserialize(cmt)
		if err != nil {
			return nil, err
		}
		expected, ok := expectedPortfolio.Get(sym)
		if !ok {
			return nil, zkerr.Integrityf("proof: no trades contribute to portfolio symbol %s", sym)
		}
		diffs = append(diffs, curt.Add(expected.Neg()))
	}
	return diffs, nil
}
