package tiffin

import (
	"errors"
	"strings"

	"github.com/ikkim/tiffin-backend/internal/app/model"
)

var ErrInvalidAction = errors.New("invalid selection action")

// Action is a gesture on a dish card.
type Action string

const (
	ActionTap       Action = "tap"       // card press
	ActionIncrement Action = "increment" // + button
	ActionDecrement Action = "decrement" // - button
)

func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionTap, ActionIncrement, ActionDecrement:
		return a, nil
	case "":
		return ActionTap, nil
	default:
		return "", ErrInvalidAction
	}
}

// Select translates a gesture on the dish described by line into a store
// transition. Mains only react to taps; +/- buttons belong to addons.
func Select(s CartState, action Action, line model.CartLine) CartState {
	switch line.Type {
	case model.LineTypeMain:
		if action == ActionTap {
			return TapMain(s, line)
		}
	case model.LineTypeAddon:
		switch action {
		case ActionTap:
			return TapAddon(s, line)
		case ActionIncrement:
			return IncrementAddon(s, line)
		case ActionDecrement:
			return DecrementAddon(s, line)
		}
	}
	return s
}

// TapMain deselects the dish when it already fills its slot. Otherwise it
// evicts whatever main occupies (day, category) and puts the dish there.
func TapMain(s CartState, line model.CartLine) CartState {
	line.Type = model.LineTypeMain
	key := line.Key()
	if _, ok := s.Find(key); ok {
		return s.Remove(key)
	}
	line.Qty = 1
	return evictSlot(s, line.Day, line.Category).AddOrReplace(line)
}

// TapAddon toggles an addon card: unchecked becomes qty 1, checked is removed.
func TapAddon(s CartState, line model.CartLine) CartState {
	line.Type = model.LineTypeAddon
	key := line.Key()
	if _, ok := s.Find(key); ok {
		return s.Remove(key)
	}
	line.Qty = 1
	return s.AddOrReplace(line)
}

func IncrementAddon(s CartState, line model.CartLine) CartState {
	line.Type = model.LineTypeAddon
	if existing, ok := s.Find(line.Key()); ok {
		existing.Qty++
		return s.AddOrReplace(existing)
	}
	line.Qty = 1
	return s.AddOrReplace(line)
}

func DecrementAddon(s CartState, line model.CartLine) CartState {
	line.Type = model.LineTypeAddon
	key := line.Key()
	existing, ok := s.Find(key)
	if !ok {
		return s
	}
	if existing.Qty <= 1 {
		return s.Remove(key)
	}
	existing.Qty--
	return s.AddOrReplace(existing)
}

// evictSlot drops every main on (day, category), whatever its id or variant.
func evictSlot(s CartState, day, category string) CartState {
	category = model.NormalizeCategory(category)
	return s.filter(func(l model.CartLine) bool {
		return l.Type != model.LineTypeMain || l.Day != day || l.Category != category
	})
}
