package ledger

import (
	"testing"
	"time"

	"github.com/0kPN1/zkpnl/internal/zkerr"
)

func priceMap(m map[string]float64, order []string) *PriceMap {
	pm := NewOrderedMap[float64]()
	for _, sym := range order {
		pm.Set(sym, m[sym])
	}
	return pm
}

const transcript = "test-001"

func TestNewRecord_S1_GenesisAndFlatPnL(t *testing.T) {
	signer, _ := NewSigner("")
	now := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	prices := priceMap(map[string]float64{"XBTUSD": 20000}, []string{"XBTUSD"})

	rec, err := NewRecord(now, KindTrade, "XBTUSD", 100, 20000, nil, prices, transcript, signer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Message.PrevHash != Genesis(transcript) {
		t.Errorf("expected record[0].prev_hash == genesis, got %s", rec.Message.PrevHash)
	}
	if rec.Trade.CumulativePnL != 0 {
		t.Errorf("expected zero P&L when market == entry, got %v", rec.Trade.CumulativePnL)
	}
	if rec.Signature != "" {
		t.Errorf("expected empty signature with no signing seed, got %s", rec.Signature)
	}
}

func TestNewRecord_HashChain(t *testing.T) {
	signer, _ := NewSigner("")
	now := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	prices := priceMap(map[string]float64{"XBTUSD": 20000}, []string{"XBTUSD"})

	rec1, err := NewRecord(now, KindTrade, "XBTUSD", 100, 20000, nil, prices, transcript, signer)
	if err != nil {
		t.Fatal(err)
	}
	rec2, err := NewRecord(now.Add(time.Minute), KindTrade, "XBTUSD", -40, 20500, []Record{rec1}, prices, transcript, signer)
	if err != nil {
		t.Fatal(err)
	}

	if err := VerifyHashChainSinceGenesis(Genesis(transcript), []Record{rec1, rec2}); err != nil {
		t.Errorf("expected valid hash chain, got error: %v", err)
	}
	if err := VerifyMessageHashes([]Record{rec1, rec2}); err != nil {
		t.Errorf("expected valid message hashes, got error: %v", err)
	}

	// P3: flipping any byte of a message breaks verification.
	tampered := rec2
	tampered.Message.Price += 1
	if err := VerifyMessageHash(tampered); err == nil {
		t.Error("expected tampering with a message to break hash verification")
	}
}

func TestNewRecord_Deliver_ClosesPosition(t *testing.T) {
	signer, _ := NewSigner("")
	now := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	prices := priceMap(map[string]float64{"XBTUSD": 20000}, []string{"XBTUSD"})

	rec1, err := NewRecord(now, KindTrade, "XBTUSD", 50, 20000, nil, prices, transcript, signer)
	if err != nil {
		t.Fatal(err)
	}
	rec2, err := NewRecord(now.Add(time.Minute), KindDeliver, "XBTUSD", 0, 20000, []Record{rec1}, prices, transcript, signer)
	if err != nil {
		t.Fatal(err)
	}

	if rec2.Trade.Qty != -50 {
		t.Errorf("expected deliver qty -50 to flatten a +50 position, got %d", rec2.Trade.Qty)
	}
}

func TestNewRecord_Deliver_NonExistentPositionIsPolicyError(t *testing.T) {
	signer, _ := NewSigner("")
	now := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	prices := priceMap(map[string]float64{"XBTUSD": 20000}, []string{"XBTUSD"})

	_, err := NewRecord(now, KindDeliver, "XBTUSD", 0, 20000, nil, prices, transcript, signer)
	if err == nil {
		t.Fatal("expected delivering a non-existent position to fail")
	}
	if !zkerr.Is(err, zkerr.Policy) {
		t.Errorf("expected a PolicyError, got %v", err)
	}
}

func TestSignerRoundTrip(t *testing.T) {
	// 32 zero bytes is a valid (if insecure) Ed25519 seed for test purposes.
	seed := "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA="
	signer, err := NewSigner(seed)
	if err != nil {
		t.Fatalf("unexpected error constructing signer: %v", err)
	}
	if !signer.Enabled() {
		t.Fatal("expected signer to be enabled with a non-empty seed")
	}

	sig, err := signer.Sign("deadbeef")
	if err != nil {
		t.Fatalf("unexpected error signing: %v", err)
	}
	if sig == "" {
		t.Fatal("expected a non-empty signature")
	}

	rec := BlindedRecord{Hash: "deadbeef", Signature: sig}
	if err := VerifyWithPublicKey(signer.PublicKeyBase64(), []BlindedRecord{rec}); err != nil {
		t.Errorf("expected signature to verify, got error: %v", err)
	}

	// P4: mutating hash breaks verification.
	rec.Hash = "deadbeee"
	if err := VerifyWithPublicKey(signer.PublicKeyBase64(), []BlindedRecord{rec}); err == nil {
		t.Error("expected mutated hash to break signature verification")
	}
}

func TestOrderedMap_PreservesInsertionOrderThroughJSON(t *testing.T) {
	pm := NewOrderedMap[int64]()
	pm.Set("ETHUSD", 1)
	pm.Set("XBTUSD", 2)
	pm.Set("AAAA", 3)

	data, err := CanonicalJSON(pm)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"ETHUSD":1,"XBTUSD":2,"AAAA":3}`
	if data != want {
		t.Errorf("expected insertion-order JSON %s, got %s", want, data)
	}

	var decoded OrderedMap[int64]
	if err := decoded.UnmarshalJSON([]byte(data)); err != nil {
		t.Fatal(err)
	}
	if got := decoded.Keys(); len(got) != 3 || got[0] != "ETHUSD" || got[2] != "AAAA" {
		t.Errorf("expected round-tripped key order to be preserved, got %v", got)
	}
}

func TestStripLegacyZeroWidthSpace(t *testing.T) {
	got := stripLegacyZeroWidthSpace(legacyZeroWidthSpace + "abc")
	if got != "abc" {
		t.Errorf("expected legacy zero-width space to be stripped, got %q", got)
	}
}
