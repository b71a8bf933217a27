// Package types defines the exact-arithmetic primitives and wire enumerations
// shared across the book, session, and tracker packages.
//
// Grounded on original_source/crates/kraken-types/src/level.rs and enums.rs.
package types

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimal is a lossless fixed-point number. It is a thin alias over
// shopspring/decimal rather than a reimplementation: the upstream type
// already satisfies the spec's "~28 significant digits, round-trips through
// JSON" requirement, and every pack repo that touches prices depends on it.
type Decimal = decimal.Decimal

// Zero is the canonical zero-value Decimal.
var Zero = decimal.Zero

// ParseDecimal parses a plain decimal literal ("123.456", "-1", "0") into a
// Decimal, preserving every digit of input.
func ParseDecimal(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("parse decimal %q: %w", s, err)
	}
	return d, nil
}

// unmarshalDecimalJSON implements the spec's Decimal JSON decode rule: the
// input may be a quoted string, a bare integer, a plain decimal, or
// scientific notation. Quoted/plain/integer forms parse exact digits;
// scientific notation falls back to a float64 bridge, which may lose
// precision past 2^53 as the spec explicitly permits.
func unmarshalDecimalJSON(data []byte) (Decimal, error) {
	raw := bytes.TrimSpace(data)
	if bytes.Equal(raw, []byte("null")) {
		return Decimal{}, nil
	}
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	}
	s := string(raw)
	if isScientificNotation(s) {
		var f float64
		if _, err := fmt.Sscanf(s, "%g", &f); err != nil {
			return Decimal{}, fmt.Errorf("parse scientific decimal %q: %w", s, err)
		}
		return decimal.NewFromFloat(f), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("parse decimal %q: %w", s, err)
	}
	return d, nil
}

func isScientificNotation(s string) bool {
	return strings.ContainsAny(s, "eE") && !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X")
}
