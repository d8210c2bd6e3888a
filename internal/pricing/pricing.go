// Package pricing derives the displayed price triple (current price,
// reference price, savings) from a record's raw amount field. Amounts are
// stored in minor currency units (paise); displayed values use the rupee
// glyph with Indian-style digit grouping.
package pricing

import (
	"math"
	"strings"

	"nudge/internal/types"
)

// FallbackPrice is used when the amount field is missing or unparseable.
// The record is still dispatched; only the price display degrades.
const FallbackPrice = "₹999"

// Triple holds the formatted price strings rendered into outbound messages.
type Triple struct {
	Price          string
	ReferencePrice string
	Savings        string
}

// Resolve converts a raw amount into the formatted triple for the given
// tier multiplier:
//
//	price     = amount / 100
//	reference = ceil(price * multiplier)
//	savings   = reference - price
//
// An undecodable amount yields the fallback price with empty reference and
// savings, never an error.
func Resolve(amountRaw any, multiplier float64) Triple {
	amount, ok := types.DecodeAmount(amountRaw)
	if !ok {
		return Triple{Price: FallbackPrice}
	}

	price := float64(amount) / 100
	reference := math.Ceil(price * multiplier)
	savings := reference - price

	return Triple{
		Price:          FormatINR(price),
		ReferencePrice: FormatINR(reference),
		Savings:        FormatINR(savings),
	}
}

// FormatINR formats a rupee value with the currency glyph and en-IN digit
// grouping: the last three integer digits form one group, every preceding
// pair forms another (12,34,567). Fractional paise are rendered to at most
// two places with trailing zeros trimmed.
func FormatINR(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	whole := int64(v)
	frac := v - float64(whole)

	grouped := groupIndian(whole)

	if frac > 1e-9 {
		// Round to two places; carry into the integer part if rounding
		// produces 100 paise.
		paise := int64(math.Round(frac * 100))
		if paise >= 100 {
			whole++
			grouped = groupIndian(whole)
			paise = 0
		}
		if paise > 0 {
			fracStr := strings.TrimRight(formatTwoDigits(paise), "0")
			if fracStr != "" {
				return "₹" + sign + grouped + "." + fracStr
			}
		}
	}

	return "₹" + sign + grouped
}

func formatTwoDigits(n int64) string {
	return string([]byte{byte('0' + n/10), byte('0' + n%10)})
}

func groupIndian(n int64) string {
	digits := []byte(itoa(n))
	if len(digits) <= 3 {
		return string(digits)
	}

	// Last three digits, then groups of two from the right.
	var parts []string
	parts = append(parts, string(digits[len(digits)-3:]))
	rest := digits[:len(digits)-3]
	for len(rest) > 2 {
		parts = append(parts, string(rest[len(rest)-2:]))
		rest = rest[:len(rest)-2]
	}
	if len(rest) > 0 {
		parts = append(parts, string(rest))
	}

	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteString(parts[i])
		if i > 0 {
			b.WriteByte(',')
		}
	}
	return b.String()
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
