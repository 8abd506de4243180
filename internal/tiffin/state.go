package tiffin

import (
	"github.com/ikkim/tiffin-backend/internal/app/model"
)

// CartState is the canonical collection of cart lines. Every transition
// returns a new state and leaves the receiver untouched. Looking up a key that
// has no line is never an error: the transition is a no-op.
type CartState struct {
	Lines []model.CartLine `json:"lines"`
	// Cleared is raised by Clear and lowered by the next transition that
	// inserts a line, so observers can tell a cleared cart from one emptied
	// line by line.
	Cleared bool `json:"cleared"`
}

func NewCartState() CartState {
	return CartState{Lines: []model.CartLine{}}
}

func (s CartState) Len() int {
	return len(s.Lines)
}

// Find returns a copy of the line stored under key.
func (s CartState) Find(key model.LineKey) (model.CartLine, bool) {
	if i := indexOf(s.Lines, key.Normalized()); i >= 0 {
		return s.Lines[i], true
	}
	return model.CartLine{}, false
}

// AddLine merges line into the cart: an existing line under the same key
// gains line.Qty, otherwise line is inserted. Qty <= 0 counts as 1.
func (s CartState) AddLine(line model.CartLine) CartState {
	return s.AddLines([]model.CartLine{line})
}

func (s CartState) AddLines(lines []model.CartLine) CartState {
	next := s.cloneLines()
	for _, line := range lines {
		line = normalizeLine(line)
		if line.Qty <= 0 {
			line.Qty = 1
		}
		if i := indexOf(next, line.Key()); i >= 0 {
			next[i].Qty += line.Qty
			continue
		}
		next = append(next, line)
	}
	return CartState{Lines: next}
}

// AddOrReplace drops the line stored under line's key and inserts line with
// its own qty. Qty <= 0 leaves the key empty.
func (s CartState) AddOrReplace(line model.CartLine) CartState {
	line = normalizeLine(line)
	next := s.Remove(line.Key())
	if line.Qty <= 0 {
		return next
	}
	return CartState{Lines: append(next.cloneLines(), line)}
}

func (s CartState) Increase(key model.LineKey) CartState {
	line, ok := s.Find(key)
	if !ok {
		return s
	}
	return s.SetQty(key, line.Qty+1)
}

// Decrease removes the line once its qty reaches zero.
func (s CartState) Decrease(key model.LineKey) CartState {
	line, ok := s.Find(key)
	if !ok {
		return s
	}
	return s.SetQty(key, line.Qty-1)
}

func (s CartState) SetQty(key model.LineKey, qty int) CartState {
	i := indexOf(s.Lines, key.Normalized())
	if i < 0 {
		return s
	}
	if qty <= 0 {
		return s.Remove(key)
	}
	next := s.cloneLines()
	next[i].Qty = qty
	return CartState{Lines: next, Cleared: s.Cleared}
}

func (s CartState) Remove(key model.LineKey) CartState {
	i := indexOf(s.Lines, key.Normalized())
	if i < 0 {
		return s
	}
	next := make([]model.CartLine, 0, len(s.Lines)-1)
	next = append(next, s.Lines[:i]...)
	next = append(next, s.Lines[i+1:]...)
	return CartState{Lines: next, Cleared: s.Cleared}
}

func (s CartState) Clear() CartState {
	return CartState{Lines: []model.CartLine{}, Cleared: true}
}

// filter keeps the lines for which keep returns true.
func (s CartState) filter(keep func(model.CartLine) bool) CartState {
	next := make([]model.CartLine, 0, len(s.Lines))
	for _, line := range s.Lines {
		if keep(line) {
			next = append(next, line)
		}
	}
	return CartState{Lines: next, Cleared: s.Cleared}
}

func (s CartState) cloneLines() []model.CartLine {
	out := make([]model.CartLine, len(s.Lines), len(s.Lines)+1)
	copy(out, s.Lines)
	return out
}

func indexOf(lines []model.CartLine, key model.LineKey) int {
	for i, line := range lines {
		if line.Key() == key {
			return i
		}
	}
	return -1
}

func normalizeLine(line model.CartLine) model.CartLine {
	line.Category = model.NormalizeCategory(line.Category)
	if line.TiffinPlan != nil {
		plan := *line.TiffinPlan
		line.TiffinPlan = &plan
	}
	return line
}
