// Package ledger implements C4 (record & snapshot construction) and C5
// (hash chain & signature): immutable trade records and portfolio
// snapshots with embedded commitments, Ed25519 signatures, and
// hash-chain links, grounded on original_source/src/model.rs,
// digest.rs, and sig.rs.
package ledger

import "time"

// Kind is a trade record's type: a normal exchange trade, an off-exchange
// position transfer (Inherit), or a settlement that flattens a position
// (Deliver).
type Kind string

const (
	KindInherit Kind = "inherit"
	KindTrade   Kind = "trade"
	KindDeliver Kind = "deliver"
)

// Trade is the prover-private face of a trade record: the plaintext
// quantity and cumulative P&L, and the blinding factors that open the
// commitments published in the corresponding TradeMessage. Losing a
// blinding here makes the prover unable to ever prove again.
type Trade struct {
	Time          time.Time `json:"time"`
	Kind          Kind      `json:"type"`
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Qty           int64     `json:"qty"`
	QtyBlinding   string    `json:"qty_blnd"`
	CumulativePnL float64   `json:"pnl"`
	PnLBlinding   string    `json:"pnl_blnd"`
}

// TradeMessage is the publicly published face of a Trade: everything a
// verifier sees for this record. Commitments are textual base64.
type TradeMessage struct {
	Time          time.Time `json:"time"`
	Kind          Kind      `json:"type"`
	PrevHash      string    `json:"prev_hash"`
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	QtyCommitment string    `json:"qty"`
	PnLCommitment string    `json:"pnl"`
}

// Record is an immutable, hash-chained, signed trade record. Only
// Message travels to verifiers; Trade stays with the prover.
type Record struct {
	Hash      string       `json:"hash"`
	Signature string       `json:"sig"`
	Message   TradeMessage `json:"msg"`
	Trade     Trade        `json:"trade"`
}

// BlindedRecord is a Record stripped of the private Trade field, the form
// embedded in a SnapshotMessage and seen by verifiers.
type BlindedRecord struct {
	Hash      string       `json:"hash"`
	Signature string       `json:"sig"`
	Message   TradeMessage `json:"msg"`
}

// ToBlinded strips r's private Trade field.
func (r Record) ToBlinded() BlindedRecord {
	return BlindedRecord{Hash: r.Hash, Signature: r.Signature, Message: r.Message}
}

// PriceMap is Symbol -> price (f64), insertion-order preserved.
type PriceMap = OrderedMap[float64]

// PortfolioMap is Symbol -> net size (i64), insertion-order preserved.
type PortfolioMap = OrderedMap[int64]

// CommitmentMap is Symbol -> base64 commitment, insertion-order preserved.
type CommitmentMap = OrderedMap[string]

// MarketPrice is a timestamped price snapshot as written to the price log.
type MarketPrice struct {
	Time        time.Time `json:"time"`
	MarketPrice *PriceMap `json:"market_price"`
}

// SnapshotMessage is the publicly published face of a Snapshot.
type SnapshotMessage struct {
	Time                time.Time       `json:"time"`
	PrevHash            string          `json:"prev_hash"`
	Capital             float64         `json:"capital"`
	PnL                 float64         `json:"pnl"`
	LogReturn           float64         `json:"log_return"`
	PortfolioCommitment *CommitmentMap  `json:"portfolio"`
	Records             []BlindedRecord `json:"records"`
}

// SnapshotPrivate is the prover-private face of a Snapshot.
type SnapshotPrivate struct {
	Time               time.Time      `json:"time"`
	Portfolio          *PortfolioMap  `json:"portfolio"`
	PortfolioBlindings *CommitmentMap `json:"portfolio_blnd"`
	Records            []Record       `json:"records"`
	MarketPrice        *PriceMap      `json:"market_price"`
}

// Snapshot is an immutable, hash-chained, signed portfolio snapshot.
type Snapshot struct {
	Hash      string          `json:"hash"`
	Signature string          `json:"sig"`
	Message   SnapshotMessage `json:"msg"`
	Private   SnapshotPrivate `json:"snapshot_blnd"`
}

// BlindedSnapshot carries Hash, Signature, Message, and MarketPrice, with
// no private body — the form embedded in a Proof and seen by verifiers.
type BlindedSnapshot struct {
	Hash        string          `json:"hash"`
	Signature   string          `json:"sig"`
	Message     SnapshotMessage `json:"msg"`
	MarketPrice *PriceMap       `json:"market_price"`
}

// ToBlinded strips s's private SnapshotPrivate field (but keeps the
// market-price map, which BlindedSnapshot publishes alongside Message).
func (s Snapshot) ToBlinded() BlindedSnapshot {
	return BlindedSnapshot{Hash: s.Hash, Signature: s.Signature, Message: s.Message, MarketPrice: s.Private.MarketPrice}
}

// Verifiable is implemented by every hash-chained, signed entity.
type Verifiable interface {
	GetHash() string
	GetSignature() string
	CanonicalMessage() (string, error)
	GetPrevHash() string
}

func (r Record) GetHash() string                    { return r.Hash }
func (r Record) GetSignature() string               { return r.Signature }
func (r Record) CanonicalMessage() (string, error)  { return CanonicalJSON(r.Message) }
func (r Record) GetPrevHash() string                { return r.Message.PrevHash }

func (r BlindedRecord) GetHash() string                   { return r.Hash }
func (r BlindedRecord) GetSignature() string              { return r.Signature }
func (r BlindedRecord) CanonicalMessage() (string, error) { return CanonicalJSON(r.Message) }
func (r BlindedRecord) GetPrevHash() string               { return r.Message.PrevHash }

func (s Snapshot) GetHash() string                   { return s.Hash }
func (s Snapshot) GetSignature() string              { return s.Signature }
func (s Snapshot) CanonicalMessage() (string, error) { return CanonicalJSON(s.Message) }
func (s Snapshot) GetPrevHash() string               { return s.Message.PrevHash }

func (s BlindedSnapshot) GetHash() string                   { return s.Hash }
func (s BlindedSnapshot) GetSignature() string              { return s.Signature }
func (s BlindedSnapshot) CanonicalMessage() (string, error) { return CanonicalJSON(s.Message) }
func (s BlindedSnapshot) GetPrevHash() string               { return s.Message.PrevHash }
