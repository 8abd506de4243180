package pricing

import (
	"strings"

	"github.com/ikkim/tiffin-backend/internal/app/model"
	"github.com/shopspring/decimal"
)

// DefaultCategoryPrefixes are the collection-handle prefixes stripped before
// a catalog category is matched against threshold keys.
var DefaultCategoryPrefixes = []string{"main_tiffin_", "addon_tiffin_", "addon_"}

// Adjuster applies category thresholds to catalog items.
type Adjuster struct {
	prefixes []string
}

func NewAdjuster(prefixes []string) *Adjuster {
	if len(prefixes) == 0 {
		prefixes = DefaultCategoryPrefixes
	}
	normalized := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			normalized = append(normalized, p)
		}
	}
	return &Adjuster{prefixes: normalized}
}

// NormalizeCategory turns a storefront collection handle into a threshold
// key prefix: "main_tiffin_proteins" becomes "protein".
func (a *Adjuster) NormalizeCategory(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	for _, prefix := range a.prefixes {
		if rest, ok := strings.CutPrefix(c, prefix); ok {
			c = rest
			break
		}
	}
	// storefront collections are plural, threshold keys are singular
	if c == "proteins" {
		c = "protein"
	}
	return c
}

// Adjust returns item with its category threshold taken off the price. The
// item comes back unchanged when no threshold applies or its price is not a
// number.
func (a *Adjuster) Adjust(item model.MenuItem, thresholds Thresholds) model.MenuItem {
	threshold, ok := thresholds.Lookup(a.NormalizeCategory(item.Category))
	if !ok {
		return item
	}
	price, err := AdjustPrice(item.Price, threshold)
	if err != nil {
		return item
	}
	item.Price = price
	return item
}

func (a *Adjuster) AdjustAll(items []model.MenuItem, thresholds Thresholds) []model.MenuItem {
	out := make([]model.MenuItem, len(items))
	for i, item := range items {
		out[i] = a.Adjust(item, thresholds)
	}
	return out
}

// AdjustPrice computes max(price - threshold, 0) and renders it with as many
// fractional digits as price had. A price without fractional digits gives a
// truncated integer.
func AdjustPrice(price model.Price, threshold decimal.Decimal) (model.Price, error) {
	raw := strings.TrimSpace(string(price))
	original, err := decimal.NewFromString(raw)
	if err != nil {
		return price, err
	}

	discounted := decimal.Max(original.Sub(threshold), decimal.Zero)
	places := fractionDigits(raw)
	if places == 0 {
		return model.Price(discounted.Truncate(0).String()), nil
	}
	return model.Price(discounted.StringFixed(places)), nil
}

func fractionDigits(raw string) int32 {
	if i := strings.IndexAny(raw, "eE"); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.IndexByte(raw, '.'); i >= 0 {
		return int32(len(raw) - i - 1)
	}
	return 0
}
