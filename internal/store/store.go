// Package store implements C7: append-only persistence of records,
// snapshots, market prices, and proofs. JSONStore is the concrete
// implementation spec.md §6 calls for (three pretty-printed JSON files
// plus one JSON file per proof), verifying the hash chain and, when a
// public key is configured, every Ed25519 signature on every read;
// index.go adds an optional SQLite side-index, adapted from the
// teacher's database.MarketDataDb, recording (hash, symbol, kind, time)
// rows for records and (hash, time, pnl) rows for snapshots for ad hoc
// SQL inspection.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/0kPN1/zkpnl/internal/ledger"
	"github.com/0kPN1/zkpnl/internal/proof"
	"github.com/0kPN1/zkpnl/internal/zkerr"
)

// LogStore is the C7 contract: append-only persistence with read-time
// integrity verification.
type LogStore interface {
	ReadRecords() ([]ledger.Record, error)
	AppendRecord(r ledger.Record) error
	ReadSnapshots() ([]ledger.Snapshot, error)
	AppendSnapshot(s ledger.Snapshot) error
	ReadMarketPrices() ([]ledger.MarketPrice, error)
	AppendMarketPrice(mp ledger.MarketPrice) error
	WriteProof(p *proof.Proof, filename string) error
	ReadProof(filename string) (*proof.Proof, error)
	ListProofs() ([]string, error)
}

// JSONStore persists to three append-only JSON files plus a directory of
// per-proof JSON files, matching spec.md §4.7/§6.
type JSONStore struct {
	recordPath   string
	albumPath    string
	pricePath    string
	proofPath    string
	pubKeyBase64 string
}

// NewJSONStore builds a JSONStore rooted at the four configured paths.
// pubKeyBase64 is the Ed25519 public key reads verify signatures against;
// an empty string disables signature verification, matching spec.md I4's
// "when a signing seed is configured" qualifier.
func NewJSONStore(recordPath, albumPath, pricePath, proofPath, pubKeyBase64 string) *JSONStore {
	return &JSONStore{recordPath: recordPath, albumPath: albumPath, pricePath: pricePath, proofPath: proofPath, pubKeyBase64: pubKeyBase64}
}

// readJSONOrEmpty reads and unmarshals path into v. A missing file is not
// an error: it is treated as an empty array and the file is created,
// matching spec.md §7's IOError recovery policy.
func readJSONOrEmpty(path string, v any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if werr := os.WriteFile(path, []byte("[]"), 0o644); werr != nil {
			return zkerr.WrapIO(werr, "create empty data file %s", path)
		}
		return json.Unmarshal([]byte("[]"), v)
	}
	if err != nil {
		return zkerr.WrapIO(err, "read data file %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return zkerr.WrapIntegrity(err, "parse data file %s", path)
	}
	return nil
}

func writeJSONPretty(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return zkerr.WrapIntegrity(err, "encode data file %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return zkerr.WrapIO(err, "write data file %s", path)
	}
	return nil
}

// ReadRecords loads the record log, verifying every message hash, the
// intra-log hash chain (not anchored to genesis: the transcript label
// lives in config, not in the store, so callers that need genesis-chain
// verification pair this with ledger.VerifyHashChainSinceGenesis
// themselves), and — when a
// public key is configured — every Ed25519 signature, matching spec.md
// I4/§4.7 and original_source/src/db.rs::read_record's verify_sig call.
func (s *JSONStore) ReadRecords() ([]ledger.Record, error) {
	var records []ledger.Record
	if err := readJSONOrEmpty(s.recordPath, &records); err != nil {
		return nil, err
	}
	if err := ledger.VerifyMessageHashes(records); err != nil {
		return nil, err
	}
	if err := ledger.VerifyHashChain(records); err != nil {
		return nil, err
	}
	if s.pubKeyBase64 != "" {
		if err := ledger.VerifyWithPublicKey(s.pubKeyBase64, records); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// AppendRecord appends r to the record log.
func (s *JSONStore) AppendRecord(r ledger.Record) error {
	records, err := s.ReadRecords()
	if err != nil {
		return err
	}
	records = append(records, r)
	return writeJSONPretty(s.recordPath, records)
}

// ReadSnapshots loads the snapshot album, verifying every message hash,
// the intra-log hash chain, and — when a public key is configured —
// every Ed25519 signature, matching spec.md I4/§4.7 and
// original_source/src/db.rs::read_album's verify_sig call.
func (s *JSONStore) ReadSnapshots() ([]ledger.Snapshot, error) {
	var snapshots []ledger.Snapshot
	if err := readJSONOrEmpty(s.albumPath, &snapshots); err != nil {
		return nil, err
	}
	if err := ledger.VerifyMessageHashes(snapshots); err != nil {
		return nil, err
	}
	if err := ledger.VerifyHashChain(snapshots); err != nil {
		return nil, err
	}
	if s.pubKeyBase64 != "" {
		if err := ledger.VerifyWithPublicKey(s.pubKeyBase64, snapshots); err != nil {
			return nil, err
		}
	}
	return snapshots, nil
}

// AppendSnapshot appends s to the snapshot album.
func (s *JSONStore) AppendSnapshot(snap ledger.Snapshot) error {
	snapshots, err := s.ReadSnapshots()
	if err != nil {
		return err
	}
	snapshots = append(snapshots, snap)
	return writeJSONPretty(s.albumPath, snapshots)
}

// ReadMarketPrices loads the price log. Prices carry no hash chain: they
// are a plain timestamped observation log.
func (s *JSONStore) ReadMarketPrices() ([]ledger.MarketPrice, error) {
	var prices []ledger.MarketPrice
	if err := readJSONOrEmpty(s.pricePath, &prices); err != nil {
		return nil, err
	}
	return prices, nil
}

// AppendMarketPrice appends mp to the price log.
func (s *JSONStore) AppendMarketPrice(mp ledger.MarketPrice) error {
	prices, err := s.ReadMarketPrices()
	if err != nil {
		return err
	}
	prices = append(prices, mp)
	return writeJSONPretty(s.pricePath, prices)
}

// WriteProof writes p as pretty-printed JSON under proofPath/filename.
func (s *JSONStore) WriteProof(p *proof.Proof, filename string) error {
	if err := os.MkdirAll(s.proofPath, 0o755); err != nil {
		return zkerr.WrapIO(err, "create proof directory %s", s.proofPath)
	}
	return writeJSONPretty(filepath.Join(s.proofPath, filename), p)
}

// ReadProof loads and unmarshals a single proof file. It does not run
// verification: callers invoke VerifyHash/VerifySig/VerifyR1CS
// explicitly per spec.md §4.6.
func (s *JSONStore) ReadProof(filename string) (*proof.Proof, error) {
	data, err := os.ReadFile(filepath.Join(s.proofPath, filename))
	if err != nil {
		return nil, zkerr.WrapIO(err, "read proof %s", filename)
	}
	var p proof.Proof
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, zkerr.WrapIntegrity(err, "parse proof %s", filename)
	}
	if p.ProtocolVersion != proof.ProtocolVersion {
		return nil, zkerr.Integrityf("proof %s has protocol_version %d, expected %d", filename, p.ProtocolVersion, proof.ProtocolVersion)
	}
	return &p, nil
}

// ListProofs returns every proof filename under proofPath, sorted.
func (s *JSONStore) ListProofs() ([]string, error) {
	entries, err := os.ReadDir(s.proofPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, zkerr.WrapIO(err, "list proof directory %s", s.proofPath)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ProofFilename derives a proof's filename: the previous snapshot's own
// time when chained, else the current snapshot's first constituent
// record's time, else "initial" for a from-genesis proof with no
// records at all; followed by the current snapshot's time. Mirrors
// original_source/src/db.rs::write_proof's start/end derivation exactly.
func ProofFilename(previous *ledger.Snapshot, current ledger.Snapshot) string {
	const layout = "2006-01-02-150405"
	first := "initial"
	switch {
	case previous != nil:
		first = previous.Message.Time.Format(layout)
	case len(current.Message.Records) > 0:
		first = current.Message.Records[0].Message.Time.Format(layout)
	}
	return first + "_" + current.Message.Time.Format(layout) + ".json"
}
