package priced

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/0kPN1/zkpnl/internal/config"
)

func newTestSource(t *testing.T, cfg *config.Config, bitmex, binance, deribit http.HandlerFunc) *Source {
	t.Helper()
	s := NewSource(cfg)
	if bitmex != nil {
		srv := httptest.NewServer(bitmex)
		t.Cleanup(srv.Close)
		s.BitmexBaseURL = srv.URL
	}
	if binance != nil {
		srv := httptest.NewServer(binance)
		t.Cleanup(srv.Close)
		s.BinanceBaseURL = srv.URL
	}
	if deribit != nil {
		srv := httptest.NewServer(deribit)
		t.Cleanup(srv.Close)
		s.DeribitBaseURL = srv.URL
	}
	return s
}

func TestFetchPrice_Bitmex(t *testing.T) {
	cfg := &config.Config{Bitmex: []string{"XBTUSD"}}
	s := newTestSource(t, cfg, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"symbol":"XBTUSD","lastPrice":20000.5}]`))
	}, nil, nil)

	price, err := s.FetchPrice(context.Background(), "XBTUSD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 20000.5 {
		t.Errorf("expected 20000.5, got %v", price)
	}
}

func TestFetchPrice_Binance(t *testing.T) {
	cfg := &config.Config{Binance: []string{"ETHUSDT"}}
	s := newTestSource(t, cfg, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol":"ETHUSDT","price":"1500.25"}`))
	}, nil)

	price, err := s.FetchPrice(context.Background(), "ETHUSDT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 1500.25 {
		t.Errorf("expected 1500.25, got %v", price)
	}
}

func TestFetchPrice_Deribit_UsesDeliveryPriceWhenPresent(t *testing.T) {
	// spec.md S6: mark 0.05 BTC, XBTUSD-equivalent delivery price 20000 ->
	// effective USD price 1000.
	cfg := &config.Config{}
	s := newTestSource(t, cfg, nil, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"mark_price":0.05,"delivery_price":20000,"underlying_price":19999}}`))
	})

	price, err := s.FetchPrice(context.Background(), "BTC-30DEC22-20000-C")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 1000 {
		t.Errorf("expected 1000 (mark*delivery), got %v", price)
	}
}

func TestFetchPrice_Deribit_FallsBackToUnderlyingPrice(t *testing.T) {
	cfg := &config.Config{}
	s := newTestSource(t, cfg, nil, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"mark_price":0.1,"underlying_price":21000}}`))
	})

	price, err := s.FetchPrice(context.Background(), "BTC-30DEC22-20000-C")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 2100 {
		t.Errorf("expected 2100 (mark*underlying fallback), got %v", price)
	}
}

func TestFetchPriceMap_PreservesOrder(t *testing.T) {
	cfg := &config.Config{Bitmex: []string{"XBTUSD", "ETHUSD"}}
	s := newTestSource(t, cfg, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lastPrice":100.0}]`))
	}, nil, nil)

	pm, err := s.FetchPriceMap(context.Background(), []string{"ETHUSD", "XBTUSD"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	keys := pm.Keys()
	if len(keys) != 2 || keys[0] != "ETHUSD" || keys[1] != "XBTUSD" {
		t.Errorf("expected insertion order [ETHUSD XBTUSD], got %v", keys)
	}
}
