package model

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidLineType = errors.New("invalid line type")
	ErrInvalidWeekday  = errors.New("invalid weekday")
)

// LineType distinguishes slot-filling mains from free-quantity addons.
type LineType string

const (
	LineTypeMain  LineType = "main"
	LineTypeAddon LineType = "addon"
)

// ParseLineType validates a line type coming from outside the engine.
func ParseLineType(s string) (LineType, error) {
	switch LineType(strings.ToLower(strings.TrimSpace(s))) {
	case LineTypeMain:
		return LineTypeMain, nil
	case LineTypeAddon:
		return LineTypeAddon, nil
	default:
		return "", ErrInvalidLineType
	}
}

// Weekdays in display order, Monday first.
var Weekdays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// ParseWeekday returns the canonical day name ("Monday") for a case-insensitive input.
func ParseWeekday(s string) (string, time.Weekday, error) {
	name := strings.TrimSpace(s)
	for _, d := range Weekdays {
		if strings.EqualFold(d.String(), name) {
			return d.String(), d, nil
		}
	}
	return "", 0, ErrInvalidWeekday
}

// NormalizeCategory is the stored/compared form of a category label.
func NormalizeCategory(category string) string {
	return strings.ToUpper(strings.TrimSpace(category))
}

// Price keeps a catalog price in its original textual form so the number of
// fractional digits survives adjustment. JSON numbers and numeric strings are
// both accepted.
type Price string

func (p *Price) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*p = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Price(strings.TrimSpace(s))
		return nil
	}
	*p = Price(raw)
	return nil
}

func (p Price) String() string {
	return string(p)
}

// LineKey is the identity of a cart line. At most one line exists per key.
type LineKey struct {
	ID        string   `json:"id"`
	VariantID string   `json:"variant_id"`
	Day       string   `json:"day"`
	Category  string   `json:"category"`
	Type      LineType `json:"type"`
}

// Normalized returns the key with its category in stored form.
func (k LineKey) Normalized() LineKey {
	k.Category = NormalizeCategory(k.Category)
	return k
}

// CartLine is one purchasable unit in a tiffin cart.
type CartLine struct {
	ID         string   `json:"id"`
	VariantID  string   `json:"variant_id"`
	Type       LineType `json:"type"`
	Category   string   `json:"category"`              // upper-cased on insertion
	Day        string   `json:"day"`                   // weekday name
	Date       string   `json:"date"`                  // display date, fixed at insertion
	TiffinPlan *int     `json:"tiffin_plan,omitempty"` // box number for multi-box days
	Title      string   `json:"title"`
	Price      Price    `json:"price"`
	Image      string   `json:"image"`
	Qty        int      `json:"qty"`
}

func (l CartLine) Key() LineKey {
	return LineKey{
		ID:        l.ID,
		VariantID: l.VariantID,
		Day:       l.Day,
		Category:  NormalizeCategory(l.Category),
		Type:      l.Type,
	}
}

// Plan returns the tiffin plan number, 1 when the line carries none.
func (l CartLine) Plan() int {
	if l.TiffinPlan == nil {
		return 1
	}
	return *l.TiffinPlan
}
