// Package checksum implements the exchange's CRC-32/ISO-HDLC orderbook
// checksum protocol.
//
// Grounded on original_source/crates/kraken-book/src/checksum.rs.
package checksum

import (
	"hash/crc32"
	"strings"

	"github.com/hitakshiA/Havklo-sdk-sub000/types"
)

// topN is the number of levels per side the protocol includes in the digest.
const topN = 10

// Compute returns the CRC32 of the canonical digit stream built from the top
// ten asks (ascending price) followed by the top ten bids (descending
// price). Callers must pass levels already sorted on their respective sides;
// Compute only truncates to topN and concatenates, it does not sort.
func Compute(bidsDesc, asksAsc []types.Level) uint32 {
	var b strings.Builder

	asks := asksAsc
	if len(asks) > topN {
		asks = asks[:topN]
	}
	for _, lvl := range asks {
		b.WriteString(formatForChecksum(lvl.Price))
		b.WriteString(formatForChecksum(lvl.Qty))
	}

	bids := bidsDesc
	if len(bids) > topN {
		bids = bids[:topN]
	}
	for _, lvl := range bids {
		b.WriteString(formatForChecksum(lvl.Price))
		b.WriteString(formatForChecksum(lvl.Qty))
	}

	return crc32.ChecksumIEEE([]byte(b.String()))
}

// formatForChecksum renders a Decimal's canonical digit string: the literal
// decimal representation with the point removed and leading zeros stripped,
// or "0" if nothing remains.
func formatForChecksum(d types.Decimal) string {
	s := d.String()
	if d.Exponent() < 0 {
		s = d.StringFixed(-d.Exponent())
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "0"
	}
	return s
}

// Result pairs a computed checksum against the server-provided expectation.
type Result struct {
	Computed uint32
	Expected uint32
}

// IsValid reports whether the computed checksum matches the expectation.
func (r Result) IsValid() bool {
	return r.Computed == r.Expected
}
