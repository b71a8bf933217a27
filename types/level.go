package types

import "encoding/json"

// Level is a (price, qty) pair. A level with Qty == 0 is a tombstone: it
// signals deletion when received in a delta and must never persist in
// steady-state book state (spec §3).
type Level struct {
	Price Decimal `json:"price"`
	Qty   Decimal `json:"qty"`
}

// levelWire mirrors the wire shape so price/qty can arrive as a quoted
// string, a bare number, or scientific notation without losing precision.
type levelWire struct {
	Price json.RawMessage `json:"price"`
	Qty   json.RawMessage `json:"qty"`
}

// UnmarshalJSON decodes a Level's price and qty per the spec's lossless
// Decimal rule, rather than trusting encoding/json's own numeric decode.
func (l *Level) UnmarshalJSON(data []byte) error {
	var w levelWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	price, err := unmarshalDecimalJSON(w.Price)
	if err != nil {
		return err
	}
	qty, err := unmarshalDecimalJSON(w.Qty)
	if err != nil {
		return err
	}
	l.Price = price
	l.Qty = qty
	return nil
}

// IsTombstone reports whether this level signals removal of its price.
func (l Level) IsTombstone() bool {
	return l.Qty.IsZero()
}
