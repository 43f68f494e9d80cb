package proof

import (
	"testing"
	"time"

	"github.com/0kPN1/zkpnl/internal/ledger"
)

func prices(pairs map[string]float64, order []string) *ledger.PriceMap {
	pm := ledger.NewOrderedMap[float64]()
	for _, sym := range order {
		pm.Set(sym, pairs[sym])
	}
	return pm
}

const testTranscript = "proof-test-001"

func buildGenesisSnapshot(t *testing.T) *ledger.Snapshot {
	t.Helper()
	signer, _ := ledger.NewSigner("")
	now := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	p := prices(map[string]float64{"XBTUSD": 20000}, []string{"XBTUSD"})

	rec, err := ledger.NewRecord(now, ledger.KindTrade, "XBTUSD", 100, 20000, nil, p, testTranscript, signer)
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}

	snap, err := ledger.NewSnapshot(now, nil, []ledger.Record{rec}, p, 1_000_000, testTranscript, signer)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	return &snap
}

func TestProof_GenesisSnapshot_VerifiesAll(t *testing.T) {
	signer, _ := ledger.NewSigner("")
	current := buildGenesisSnapshot(t)

	p, err := New(nil, current, testTranscript, signer)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.ProtocolVersion != ProtocolVersion {
		t.Errorf("expected protocol version %d, got %d", ProtocolVersion, p.ProtocolVersion)
	}
	if err := p.VerifyHash(); err != nil {
		t.Errorf("expected VerifyHash to succeed, got %v", err)
	}
	if err := p.VerifySig(); err != nil {
		t.Errorf("expected VerifySig to succeed (no-op signer), got %v", err)
	}
	if err := p.VerifyR1CS(); err != nil {
		t.Errorf("expected VerifyR1CS to succeed, got %v", err)
	}
}

func TestProof_ChainedSnapshot_VerifiesAll(t *testing.T) {
	signer, _ := ledger.NewSigner("")
	prev := buildGenesisSnapshot(t)

	now := prev.Message.Time.Add(time.Hour)
	p1 := prices(map[string]float64{"XBTUSD": 21000}, []string{"XBTUSD"})

	rec, err := ledger.NewRecord(now, ledger.KindTrade, "XBTUSD", -40, 21000, nil, p1, testTranscript, signer)
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}

	current, err := ledger.NewSnapshot(now, []ledger.Snapshot{*prev}, []ledger.Record{rec}, p1, 1_000_000, testTranscript, signer)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}

	pr, err := New(prev, &current, testTranscript, signer)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := pr.VerifyHash(); err != nil {
		t.Errorf("expected VerifyHash to succeed, got %v", err)
	}
	if err := pr.VerifyR1CS(); err != nil {
		t.Errorf("expected VerifyR1CS to succeed across an inherited portfolio, got %v", err)
	}
}

func TestProof_VerifyR1CS_RejectsTamperedPnL(t *testing.T) {
	signer, _ := ledger.NewSigner("")
	current := buildGenesisSnapshot(t)

	p, err := New(nil, current, testTranscript, signer)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Tamper with the published P&L after the proof was built: the Sigma
	// proof was computed against the original value, so the recomputed
	// diff should no longer open to the claimed commitment.
	p.CurrentSnapshot.Message.PnL += 1
	if err := p.VerifyR1CS(); err == nil {
		t.Error("expected VerifyR1CS to reject a tampered P&L")
	}
}

func TestProof_VerifyHash_RejectsTamperedRecord(t *testing.T) {
	signer, _ := ledger.NewSigner("")
	current := buildGenesisSnapshot(t)

	p, err := New(nil, current, testTranscript, signer)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	p.CurrentSnapshot.Message.Records[0].Message.Price += 1
	if err := p.VerifyHash(); err == nil {
		t.Error("expected VerifyHash to reject a tampered embedded record")
	}
}
