package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	t.Run("beginner tier pricing", func(t *testing.T) {
		// 99900 paise at 1.5x: price 999, reference ceil(999*1.5)=1499,
		// savings 500.
		got := Resolve(99900, 1.5)
		assert.Equal(t, "₹999", got.Price)
		assert.Equal(t, "₹1,499", got.ReferencePrice)
		assert.Equal(t, "₹500", got.Savings)
	})

	t.Run("advanced tier pricing", func(t *testing.T) {
		// 199900 paise at 1.25x: price 1999, reference ceil(2498.75)=2499.
		got := Resolve(199900, 1.25)
		assert.Equal(t, "₹1,999", got.Price)
		assert.Equal(t, "₹2,499", got.ReferencePrice)
		assert.Equal(t, "₹500", got.Savings)
	})

	t.Run("skillset multiplier ceils up", func(t *testing.T) {
		// 99900 paise at 1.3x: reference ceil(1298.7)=1299.
		got := Resolve("99900", 1.3)
		assert.Equal(t, "₹999", got.Price)
		assert.Equal(t, "₹1,299", got.ReferencePrice)
		assert.Equal(t, "₹300", got.Savings)
	})

	t.Run("missing amount falls back", func(t *testing.T) {
		got := Resolve(nil, 1.5)
		assert.Equal(t, FallbackPrice, got.Price)
		assert.Empty(t, got.ReferencePrice)
		assert.Empty(t, got.Savings)
	})

	t.Run("unparseable amount falls back", func(t *testing.T) {
		got := Resolve("free", 1.5)
		assert.Equal(t, FallbackPrice, got.Price)
	})
}

func TestFormatINR(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{name: "under a thousand", in: 999, want: "₹999"},
		{name: "four digits", in: 1499, want: "₹1,499"},
		{name: "five digits", in: 12345, want: "₹12,345"},
		{name: "indian grouping seven digits", in: 1234567, want: "₹12,34,567"},
		{name: "indian grouping eight digits", in: 12345678, want: "₹1,23,45,678"},
		{name: "zero", in: 0, want: "₹0"},
		{name: "fractional paise", in: 999.5, want: "₹999.5"},
		{name: "two decimal places", in: 999.25, want: "₹999.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatINR(tt.in))
		})
	}
}
