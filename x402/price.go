package x402

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FormatPrice renders an atomic-unit amount as a human-readable price
// string, e.g. FormatPrice("500", 6, "USDC") == "$0.0005 USDC".
func FormatPrice(amount string, decimals int32, symbol string) (string, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return "", fmt.Errorf("invalid amount %q: %w", amount, err)
	}

	return fmt.Sprintf("$%s %s", d.Shift(-decimals).String(), symbol), nil
}

// PriceFormatter returns a GateConfig.Price function for assets with the
// given decimals and symbol. Amounts that fail to parse render as an empty
// price rather than breaking the 402 body.
func PriceFormatter(decimals int32, symbol string) func(PaymentRequirement) string {
	return func(requirement PaymentRequirement) string {
		price, err := FormatPrice(requirement.Amount, decimals, symbol)
		if err != nil {
			return ""
		}
		return price
	}
}
