package pricing

import (
	"strings"

	"github.com/ikkim/tiffin-backend/internal/app/model"
	"github.com/ikkim/tiffin-backend/internal/tiffin"
	"github.com/shopspring/decimal"
)

// Fees are the checkout adjustments configured for the storefront.
type Fees struct {
	Shipping decimal.Decimal
	Discount decimal.Decimal
}

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// Display is Totals rendered for checkout, two decimals each.
type Display struct {
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Discount string `json:"discount"`
	Total    string `json:"total"`
}

// UnitPrice parses a line price. Anything that is not a finite number counts as zero.
func UnitPrice(price model.Price) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(string(price)))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func LineAmount(line model.CartLine) decimal.Decimal {
	return UnitPrice(line.Price).Mul(decimal.NewFromInt(int64(line.Qty)))
}

// Subtotal sums price x qty over the mains and addons of every group.
func Subtotal(groups []tiffin.DayGroup) decimal.Decimal {
	sum := decimal.Zero
	for _, g := range groups {
		for _, line := range g.Mains {
			sum = sum.Add(LineAmount(line))
		}
		for _, line := range g.Addons {
			sum = sum.Add(LineAmount(line))
		}
	}
	return sum
}

func Summarize(groups []tiffin.DayGroup, fees Fees) Totals {
	subtotal := Subtotal(groups)
	return Totals{
		Subtotal: subtotal,
		Shipping: fees.Shipping,
		Discount: fees.Discount,
		Total:    subtotal.Add(fees.Shipping).Sub(fees.Discount),
	}
}

func (t Totals) Display() Display {
	return Display{
		Subtotal: FormatAmount(t.Subtotal),
		Shipping: FormatAmount(t.Shipping),
		Discount: FormatAmount(t.Discount),
		Total:    FormatAmount(t.Total),
	}
}

func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
