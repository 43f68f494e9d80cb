package main

import "testing"

func TestParseCommitPrice_Market(t *testing.T) {
	price, force, err := parseCommitPrice([]string{"market"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != marketPriceSentinel || force {
		t.Errorf("expected market sentinel with no force, got price=%v force=%v", price, force)
	}
}

func TestParseCommitPrice_LiteralWithForce(t *testing.T) {
	price, force, err := parseCommitPrice([]string{"0.5", "force"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 0.5 || !force {
		t.Errorf("expected price=0.5 force=true, got price=%v force=%v", price, force)
	}
}

func TestParseCommitPrice_LiteralNoForce(t *testing.T) {
	price, force, err := parseCommitPrice([]string{"20000"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 20000 || force {
		t.Errorf("expected price=20000 force=false, got price=%v force=%v", price, force)
	}
}

func TestParseCommitPrice_MissingArg(t *testing.T) {
	if _, _, err := parseCommitPrice(nil); err == nil {
		t.Error("expected error for missing price argument")
	}
}

func TestParseCommitPrice_NotANumber(t *testing.T) {
	if _, _, err := parseCommitPrice([]string{"abc"}); err == nil {
		t.Error("expected error for non-numeric price")
	}
}

func TestCmdCommit_RejectsNegativePrice(t *testing.T) {
	a := &App{}
	if err := a.cmdCommit(nil, "XBTUSD", 1, -5, false); err == nil {
		t.Error("expected negative price to be rejected before any store access")
	}
}

func TestCmdCommit_RejectsSubUnitWithoutForce(t *testing.T) {
	a := &App{}
	if err := a.cmdCommit(nil, "XBTUSD", 1, 0.5, false); err == nil {
		t.Error("expected sub-unit price without force to be rejected")
	}
}
