// Package priced implements spec.md §6's external price source: three
// unauthenticated REST adapters (BitMEX, Binance, Deribit) selected
// per-symbol from configuration, each fetched with a conservative
// per-request timeout (spec.md §5). Grounded on
// original_source/src/api.rs's fetch_price/bitmex/binance/deribit
// functions; the teacher repo has no outbound REST client of its own
// (it speaks FIX), so the algorithm here follows the original source
// directly, expressed with Go's stdlib net/http.
package priced

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/0kPN1/zkpnl/internal/config"
	"github.com/0kPN1/zkpnl/internal/ledger"
	"github.com/0kPN1/zkpnl/internal/zkerr"
)

// RequestTimeout bounds every outbound price fetch (spec.md §5: "≤ 10s,
// fail the enclosing command on exhaustion rather than retry silently").
const RequestTimeout = 10 * time.Second

// Source fetches live prices, selecting BitMEX/Binance/Deribit per
// symbol from the configured exchange lists. The three base URLs are
// fields, not literals, so tests can point them at an httptest server
// instead of the real exchanges.
type Source struct {
	cfg    *config.Config
	client *http.Client

	BitmexBaseURL  string
	BinanceBaseURL string
	DeribitBaseURL string
}

// NewSource builds a Source bound to cfg's bitmex/binance symbol lists,
// pointed at the real exchange endpoints.
func NewSource(cfg *config.Config) *Source {
	return &Source{
		cfg:            cfg,
		client:         &http.Client{Timeout: RequestTimeout},
		BitmexBaseURL:  "https://www.bitmex.com",
		BinanceBaseURL: "https://www.binance.com",
		DeribitBaseURL: "https://www.deribit.com",
	}
}

// FetchPriceMap fetches every symbol in symbols, in order, building an
// insertion-ordered PriceMap.
func (s *Source) FetchPriceMap(ctx context.Context, symbols []string) (*ledger.PriceMap, error) {
	pm := ledger.NewOrderedMap[float64]()
	for _, sym := range symbols {
		p, err := s.FetchPrice(ctx, sym)
		if err != nil {
			return nil, err
		}
		pm.Set(sym, p)
	}
	return pm, nil
}

// FetchPrice fetches one symbol's price, routing to BitMEX, Binance, or
// Deribit (the default, for unlisted symbols — spec.md §6: "a symbol not
// listed under bitmex/binance is treated as a Deribit option").
func (s *Source) FetchPrice(ctx context.Context, symbol string) (float64, error) {
	bitmex, binance := s.cfg.IsExchangeSymbol(symbol)
	switch {
	case bitmex:
		return s.bitmex(ctx, symbol)
	case binance:
		return s.binance(ctx, symbol)
	default:
		return s.deribit(ctx, symbol)
	}
}

func (s *Source) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, zkerr.WrapNetwork(err, "build request for %s", url)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, zkerr.WrapNetwork(err, "fetch %s", url)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, zkerr.Networkf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, zkerr.WrapNetwork(err, "read response body from %s", url)
	}
	return body, nil
}

func (s *Source) bitmex(ctx context.Context, symbol string) (float64, error) {
	url := fmt.Sprintf("%s/api/v1/instrument?symbol=%s", s.BitmexBaseURL, symbol)
	body, err := s.get(ctx, url)
	if err != nil {
		return 0, err
	}
	var instruments []map[string]any
	if err := json.Unmarshal(body, &instruments); err != nil {
		return 0, zkerr.WrapNetwork(err, "parse bitmex response for %s", symbol)
	}
	if len(instruments) == 0 {
		return 0, zkerr.Networkf("bitmex: no instrument found for %s", symbol)
	}
	price, ok := instruments[0]["lastPrice"].(float64)
	if !ok {
		return 0, zkerr.Networkf("bitmex: missing lastPrice for %s", symbol)
	}
	return price, nil
}

func (s *Source) binance(ctx context.Context, symbol string) (float64, error) {
	url := fmt.Sprintf("%s/api/v3/ticker/price?symbol=%s", s.BinanceBaseURL, symbol)
	body, err := s.get(ctx, url)
	if err != nil {
		return 0, err
	}
	var res map[string]string
	if err := json.Unmarshal(body, &res); err != nil {
		return 0, zkerr.WrapNetwork(err, "parse binance response for %s", symbol)
	}
	price, err := strconv.ParseFloat(res["price"], 64)
	if err != nil {
		return 0, zkerr.WrapNetwork(err, "parse binance price for %s", symbol)
	}
	return price, nil
}

// deribit implements spec.md §6's option-repricing rule: the usable
// price is mark_price * (delivery_price ?? underlying_price), since
// options are quoted in BTC and must be repriced into USD.
func (s *Source) deribit(ctx context.Context, symbol string) (float64, error) {
	url := fmt.Sprintf("%s/api/v2/public/ticker?instrument_name=%s", s.DeribitBaseURL, symbol)
	body, err := s.get(ctx, url)
	if err != nil {
		return 0, err
	}
	var res struct {
		Result map[string]any `json:"result"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return 0, zkerr.WrapNetwork(err, "parse deribit response for %s", symbol)
	}
	if res.Result == nil {
		return 0, zkerr.Networkf("deribit: instrument not found for %s", symbol)
	}
	markPrice, ok := res.Result["mark_price"].(float64)
	if !ok {
		return 0, zkerr.Networkf("deribit: missing mark_price for %s", symbol)
	}
	underlying, ok := res.Result["delivery_price"].(float64)
	if !ok {
		underlying, ok = res.Result["underlying_price"].(float64)
		if !ok {
			return 0, zkerr.Networkf("deribit: missing delivery_price/underlying_price for %s", symbol)
		}
	}
	return markPrice * underlying, nil
}
