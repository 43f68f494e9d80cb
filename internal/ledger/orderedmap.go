package ledger

import (
	"bytes"
	"encoding/json"

	"github.com/0kPN1/zkpnl/internal/zkerr"
)

// OrderedMap is a Symbol-keyed map that preserves insertion order on both
// iteration and JSON encoding, matching spec.md §4.4's canonical-JSON
// requirement that "maps preserve insertion order" (the Go standard
// library's map type does not: encoding/json sorts map[string]V keys
// alphabetically, which would silently break hash-chain determinism
// between prover and verifier if used directly for PriceMap/PortfolioMap/
// the commitment maps).
type OrderedMap[V any] struct {
	order []string
	vals  map[string]V
}

// NewOrderedMap returns an empty ordered map.
func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{vals: make(map[string]V)}
}

// Set inserts or overwrites key, recording first-insertion order.
func (m *OrderedMap[V]) Set(key string, val V) {
	if _, ok := m.vals[key]; !ok {
		m.order = append(m.order, key)
	}
	m.vals[key] = val
}

// Get returns key's value and whether it is present.
func (m *OrderedMap[V]) Get(key string) (V, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Keys returns the tracked keys in insertion order.
func (m *OrderedMap[V]) Keys() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Len returns the number of tracked keys.
func (m *OrderedMap[V]) Len() int { return len(m.order) }

func (m *OrderedMap[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		valBytes, err := json.Marshal(m.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *OrderedMap[V]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return zkerr.WrapIntegrity(err, "decode ordered map")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return zkerr.Integrityf("ordered map: expected object")
	}

	m.order = nil
	m.vals = make(map[string]V)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return zkerr.WrapIntegrity(err, "decode ordered map key")
		}
		key, ok := keyTok.(string)
		if !ok {
			return zkerr.Integrityf("ordered map: key must be a string")
		}
		var val V
		if err := dec.Decode(&val); err != nil {
			return zkerr.WrapIntegrity(err, "decode ordered map value for %s", key)
		}
		m.Set(key, val)
	}
	if _, err := dec.Token(); err != nil {
		return zkerr.WrapIntegrity(err, "decode ordered map closing brace")
	}
	return nil
}
