package x402

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		amount   string
		decimals int32
		symbol   string
		want     string
	}{
		{"500", 6, "USDC", "$0.0005 USDC"},
		{"1000000", 6, "USDC", "$1 USDC"},
		{"0", 6, "USDC", "$0 USDC"},
		{"1500000000000000000", 18, "DAI", "$1.5 DAI"},
	}

	for _, tt := range tests {
		got, err := FormatPrice(tt.amount, tt.decimals, tt.symbol)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestFormatPriceInvalidAmount(t *testing.T) {
	_, err := FormatPrice("not-a-number", 6, "USDC")
	assert.Error(t, err)
}

func TestPriceFormatter(t *testing.T) {
	format := PriceFormatter(6, "USDC")

	requirement := testRequirement()
	assert.Equal(t, "$0.0005 USDC", format(requirement))

	requirement.Amount = "garbage"
	assert.Empty(t, format(requirement), "unparseable amounts degrade to an empty price")
}
