package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/0kPN1/zkpnl/internal/config"
	"github.com/0kPN1/zkpnl/internal/ledger"
)

func mkRecord(t *testing.T, when time.Time, symbol string, qty int64, price float64) ledger.Record {
	t.Helper()
	signer, err := ledger.NewSigner("")
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	prices := ledger.NewOrderedMap[float64]()
	prices.Set(symbol, price)
	rec, err := ledger.NewRecord(when, ledger.KindTrade, symbol, qty, price, nil, prices, "test-transcript", signer)
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	return rec
}

func TestParseArgs_UpToLastDefault(t *testing.T) {
	tr, rest := ParseArgs(nil, time.UTC)
	if tr.Kind != KindUpToLast {
		t.Errorf("expected KindUpToLast for empty args, got %v", tr.Kind)
	}
	if len(rest) != 0 {
		t.Errorf("expected no leftover args, got %v", rest)
	}
}

func TestParseArgs_FromToNow(t *testing.T) {
	tr, _ := ParseArgs([]string{"from", "202201010000", "to", "now"}, time.UTC)
	if tr.Kind != KindUpToNowSince {
		t.Fatalf("expected KindUpToNowSince, got %v", tr.Kind)
	}
	want := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	if !tr.Start.Equal(want) {
		t.Errorf("expected start %v, got %v", want, tr.Start)
	}
}

func TestParseArgs_FromToRange(t *testing.T) {
	tr, _ := ParseArgs([]string{"from", "202201010000", "to", "202201020000"}, time.UTC)
	if tr.Kind != KindRange {
		t.Fatalf("expected KindRange, got %v", tr.Kind)
	}
	if tr.Start.After(tr.End) {
		t.Errorf("expected start before end")
	}
}

func TestParseArgs_MalformedFallsBackToUpToLast(t *testing.T) {
	tr, _ := ParseArgs([]string{"garbage"}, time.UTC)
	if tr.Kind != KindUpToLast {
		t.Errorf("expected malformed tail to fall back to KindUpToLast, got %v", tr.Kind)
	}
}

func TestNewRangeFilteredTradeMap_UpToLast(t *testing.T) {
	t1 := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2022, 1, 2, 0, 0, 0, 0, time.UTC)
	records := []ledger.Record{
		mkRecord(t, t1, "XBTUSD", 1, 20000),
		mkRecord(t, t2, "XBTUSD", -1, 21000),
	}
	rftm, ok := NewRangeFilteredTradeMap(TimeRange{Kind: KindUpToLast}, records)
	if !ok {
		t.Fatal("expected a non-empty range")
	}
	if rftm.Count != 2 {
		t.Errorf("expected count 2, got %d", rftm.Count)
	}
	if got := rftm.TradeMap1.Symbols(); len(got) != 1 || got[0] != "XBTUSD" {
		t.Errorf("expected the empty before-map for KindUpToLast to be backfilled with [XBTUSD], got %v", got)
	}
	if !rftm.TradeMap2.Has("XBTUSD") {
		t.Errorf("expected XBTUSD in the after-map")
	}
}

func TestNewRangeFilteredTradeMap_NoRecordsInWindow(t *testing.T) {
	t1 := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []ledger.Record{mkRecord(t, t1, "XBTUSD", 1, 20000)}
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	_, ok := NewRangeFilteredTradeMap(TimeRange{Kind: KindUpTo, End: past}, records)
	if ok {
		t.Error("expected no records to fall within a window entirely before the log")
	}
}

func TestGetPNLReport_SortedDescendingByPnL(t *testing.T) {
	cfg := &config.Config{Bitmex: []string{"XBTUSD", "ETHUSD"}}
	t1 := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []ledger.Record{
		mkRecord(t, t1, "XBTUSD", 1, 20000),
		mkRecord(t, t1, "ETHUSD", 1, 1500),
	}
	rftm, ok := NewRangeFilteredTradeMap(TimeRange{Kind: KindUpToLast}, records)
	if !ok {
		t.Fatal("expected a non-empty range")
	}
	prices := ledger.NewOrderedMap[float64]()
	prices.Set("XBTUSD", 25000)
	prices.Set("ETHUSD", 1400)

	reports := GetPNLReport(context.Background(), cfg, rftm.TradeMap2, prices, nil)
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if reports[0].Symbol != "XBTUSD" {
		t.Errorf("expected XBTUSD (higher P&L) first, got %s", reports[0].Symbol)
	}
	if reports[0].PnL <= reports[1].PnL {
		t.Errorf("expected descending P&L order, got %v then %v", reports[0].PnL, reports[1].PnL)
	}
}

func TestWriteSNPReportCSV_EmptyIsNoop(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteSNPReportCSV(dir, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "" {
		t.Errorf("expected no file written for empty reports, got %s", path)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected no files created, found %v", entries)
	}
}

func TestWriteSNPReportCSV_WritesRows(t *testing.T) {
	dir := t.TempDir()
	reports := []SNPReport{
		{Hash: "h1", Time: "2022-01-01-000000", Capital: 1000, PnL: 10, LogReturn: 0.01},
		{Hash: "h2", Time: "2022-01-02-000000", Capital: 1000, PnL: 20, LogReturn: 0.02},
	}
	path, err := WriteSNPReportCSV(dir, reports)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("expected export in %s, got %s", dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty CSV content")
	}
}
