package service

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/tiffin-backend/internal/app/model"
	"github.com/ikkim/tiffin-backend/internal/pricing"
	"github.com/ikkim/tiffin-backend/internal/tiffin"
	"github.com/ikkim/tiffin-backend/pkg/logger"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrInvalidSelection = errors.New("invalid selection")
)

// SelectionRequest is a gesture on a dish card. Category is the slot label
// ("PROTEIN"); when empty it is derived from the catalog collection.
type SelectionRequest struct {
	ItemID     string `json:"item_id" binding:"required"`
	VariantID  string `json:"variant_id" binding:"required"`
	Type       string `json:"type" binding:"required"`
	Category   string `json:"category"`
	Day        string `json:"day" binding:"required"`
	TiffinPlan *int   `json:"tiffin_plan"`
	Action     string `json:"action"`
}

// CartDay is a day group together with the categories it still lacks.
type CartDay struct {
	tiffin.DayGroup
	Missing []string `json:"missing"`
}

type CartView struct {
	ID         string             `json:"id"`
	Lines      []model.CartLine   `json:"lines"`
	Days       []CartDay          `json:"days"`
	Totals     pricing.Totals     `json:"-"`
	Display    pricing.Display    `json:"totals"`
	Incomplete []tiffin.DayStatus `json:"incomplete_days"`
	Complete   bool               `json:"complete"`
	Cleared    bool               `json:"cleared"`
	Favorites  tiffin.Favorites   `json:"favorites"`
}

type CartService interface {
	CreateCart() string
	GetCart(cartID string) (*CartView, error)
	Select(cartID string, req SelectionRequest) (*CartView, error)
	AddLines(cartID string, lines []model.CartLine) (*CartView, error)
	SetQty(cartID string, key model.LineKey, qty int) (*CartView, error)
	Increase(cartID string, key model.LineKey) (*CartView, error)
	Decrease(cartID string, key model.LineKey) (*CartView, error)
	Remove(cartID string, key model.LineKey) (*CartView, error)
	Clear(cartID string) (*CartView, error)
	ToggleFavorite(cartID string, key model.FavoriteKey) (tiffin.Favorites, error)
	Favorites(cartID string) (tiffin.Favorites, error)
	SweepIdle(now time.Time) int
}

type CartOptions struct {
	Rules      tiffin.Rules
	Fees       pricing.Fees
	Adjuster   *pricing.Adjuster
	DateLayout string
	IdleTTL    time.Duration
	Now        func() time.Time
}

// cartSession is one shopper's cart. Its mutex serializes every transition
// so each operation sees the result of the previous one.
type cartSession struct {
	mu        sync.Mutex
	state     tiffin.CartState
	favorites tiffin.Favorites
	lastSeen  time.Time
}

type cartService struct {
	menu     MenuService
	opts     CartOptions
	mu       sync.RWMutex
	sessions map[string]*cartSession
}

func NewCartService(menu MenuService, opts CartOptions) CartService {
	if len(opts.Rules.RequiredCategories) == 0 {
		opts.Rules = tiffin.DefaultRules()
	}
	if opts.Adjuster == nil {
		opts.Adjuster = pricing.NewAdjuster(nil)
	}
	if opts.DateLayout == "" {
		opts.DateLayout = tiffin.DefaultDateLayout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &cartService{
		menu:     menu,
		opts:     opts,
		sessions: make(map[string]*cartSession),
	}
}

func (s *cartService) CreateCart() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &cartSession{
		state:     tiffin.NewCartState(),
		favorites: tiffin.Favorites{},
		lastSeen:  s.opts.Now(),
	}
	s.mu.Unlock()

	logger.Info("Cart created", map[string]interface{}{
		"cart_id": id,
	})
	return id
}

func (s *cartService) GetCart(cartID string) (*CartView, error) {
	return s.mutate(cartID, func(state tiffin.CartState) (tiffin.CartState, error) {
		return state, nil
	})
}

func (s *cartService) Select(cartID string, req SelectionRequest) (*CartView, error) {
	action, err := tiffin.ParseAction(req.Action)
	if err != nil {
		return nil, err
	}
	line, err := s.resolveSelection(req)
	if err != nil {
		return nil, err
	}

	view, err := s.mutate(cartID, func(state tiffin.CartState) (tiffin.CartState, error) {
		return tiffin.Select(state, action, line), nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Cart selection applied", map[string]interface{}{
		"cart_id":  cartID,
		"item_id":  line.ID,
		"type":     line.Type,
		"category": line.Category,
		"day":      line.Day,
		"action":   action,
	})
	return view, nil
}

// AddLines bulk-merges lines as a reorder or restore would. Lines must carry
// a valid type and day; a missing date is stamped from the day.
func (s *cartService) AddLines(cartID string, lines []model.CartLine) (*CartView, error) {
	prepared := make([]model.CartLine, 0, len(lines))
	for _, line := range lines {
		lineType, err := model.ParseLineType(string(line.Type))
		if err != nil {
			return nil, err
		}
		dayName, weekday, err := model.ParseWeekday(line.Day)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(line.ID) == "" || strings.TrimSpace(line.Category) == "" {
			return nil, ErrInvalidSelection
		}
		line.Type = lineType
		line.Day = dayName
		if line.Date == "" {
			line.Date = s.stampDate(weekday)
		}
		prepared = append(prepared, line)
	}

	view, err := s.mutate(cartID, func(state tiffin.CartState) (tiffin.CartState, error) {
		return state.AddLines(prepared), nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Lines added to cart", map[string]interface{}{
		"cart_id": cartID,
		"count":   len(prepared),
	})
	return view, nil
}

func (s *cartService) SetQty(cartID string, key model.LineKey, qty int) (*CartView, error) {
	key, err := validateKey(key)
	if err != nil {
		return nil, err
	}
	return s.mutate(cartID, func(state tiffin.CartState) (tiffin.CartState, error) {
		return state.SetQty(key, qty), nil
	})
}

func (s *cartService) Increase(cartID string, key model.LineKey) (*CartView, error) {
	key, err := validateKey(key)
	if err != nil {
		return nil, err
	}
	return s.mutate(cartID, func(state tiffin.CartState) (tiffin.CartState, error) {
		return state.Increase(key), nil
	})
}

func (s *cartService) Decrease(cartID string, key model.LineKey) (*CartView, error) {
	key, err := validateKey(key)
	if err != nil {
		return nil, err
	}
	return s.mutate(cartID, func(state tiffin.CartState) (tiffin.CartState, error) {
		return state.Decrease(key), nil
	})
}

func (s *cartService) Remove(cartID string, key model.LineKey) (*CartView, error) {
	key, err := validateKey(key)
	if err != nil {
		return nil, err
	}
	return s.mutate(cartID, func(state tiffin.CartState) (tiffin.CartState, error) {
		return state.Remove(key), nil
	})
}

func (s *cartService) Clear(cartID string) (*CartView, error) {
	view, err := s.mutate(cartID, func(state tiffin.CartState) (tiffin.CartState, error) {
		return state.Clear(), nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Cart cleared", map[string]interface{}{
		"cart_id": cartID,
	})
	return view, nil
}

func (s *cartService) ToggleFavorite(cartID string, key model.FavoriteKey) (tiffin.Favorites, error) {
	if strings.TrimSpace(key.ID) == "" {
		return nil, ErrInvalidSelection
	}
	dayName, _, err := model.ParseWeekday(key.Day)
	if err != nil {
		return nil, err
	}
	key.Day = dayName

	session, err := s.session(cartID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	session.favorites = session.favorites.Toggle(key)
	session.lastSeen = s.opts.Now()
	return session.favorites, nil
}

func (s *cartService) Favorites(cartID string) (tiffin.Favorites, error) {
	session, err := s.session(cartID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.favorites, nil
}

// SweepIdle drops carts not touched within the idle TTL and returns how many
// were dropped. A zero TTL disables the sweep.
func (s *cartService) SweepIdle(now time.Time) int {
	if s.opts.IdleTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-s.opts.IdleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for id, session := range s.sessions {
		session.mu.Lock()
		idle := session.lastSeen.Before(cutoff)
		session.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			dropped++
		}
	}

	if dropped > 0 {
		logger.Info("Idle carts swept", map[string]interface{}{
			"dropped":   dropped,
			"remaining": len(s.sessions),
		})
	}
	return dropped
}

func (s *cartService) session(cartID string) (*cartSession, error) {
	s.mu.RLock()
	session, ok := s.sessions[cartID]
	s.mu.RUnlock()
	if !ok {
		logger.Warn("Cart not found", map[string]interface{}{
			"cart_id": cartID,
		})
		return nil, ErrCartNotFound
	}
	return session, nil
}

func (s *cartService) mutate(cartID string, apply func(tiffin.CartState) (tiffin.CartState, error)) (*CartView, error) {
	session, err := s.session(cartID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	next, err := apply(session.state)
	if err != nil {
		return nil, err
	}
	session.state = next
	session.lastSeen = s.opts.Now()
	return s.buildView(cartID, session), nil
}

func (s *cartService) buildView(cartID string, session *cartSession) *CartView {
	groups := tiffin.GroupByDay(session.state.Lines, s.opts.Rules)
	days := make([]CartDay, 0, len(groups))
	for _, g := range groups {
		days = append(days, CartDay{DayGroup: g, Missing: g.Missing(s.opts.Rules)})
	}
	incomplete := tiffin.IncompleteDays(groups, s.opts.Rules)
	totals := pricing.Summarize(groups, s.opts.Fees)

	lines := make([]model.CartLine, len(session.state.Lines))
	copy(lines, session.state.Lines)

	return &CartView{
		ID:         cartID,
		Lines:      lines,
		Days:       days,
		Totals:     totals,
		Display:    totals.Display(),
		Incomplete: incomplete,
		Complete:   len(groups) > 0 && len(incomplete) == 0,
		Cleared:    session.state.Cleared,
		Favorites:  session.favorites,
	}
}

// resolveSelection validates req and builds the line from the catalog item.
func (s *cartService) resolveSelection(req SelectionRequest) (model.CartLine, error) {
	lineType, err := model.ParseLineType(req.Type)
	if err != nil {
		return model.CartLine{}, err
	}
	dayName, weekday, err := model.ParseWeekday(req.Day)
	if err != nil {
		return model.CartLine{}, err
	}
	if strings.TrimSpace(req.ItemID) == "" {
		return model.CartLine{}, ErrInvalidSelection
	}
	if req.TiffinPlan != nil && *req.TiffinPlan < 1 {
		return model.CartLine{}, ErrInvalidSelection
	}

	item, err := s.menu.FindItem(req.ItemID, req.VariantID)
	if err != nil {
		return model.CartLine{}, err
	}

	category := req.Category
	if strings.TrimSpace(category) == "" {
		category = s.opts.Adjuster.NormalizeCategory(item.Category)
	}
	if strings.TrimSpace(category) == "" {
		return model.CartLine{}, ErrInvalidSelection
	}

	return model.CartLine{
		ID:         item.ID,
		VariantID:  item.VariantID,
		Type:       lineType,
		Category:   category,
		Day:        dayName,
		Date:       s.stampDate(weekday),
		TiffinPlan: req.TiffinPlan,
		Title:      item.Title,
		Price:      item.Price,
		Image:      item.Image,
		Qty:        1,
	}, nil
}

func (s *cartService) stampDate(day time.Weekday) string {
	return tiffin.UpcomingDate(s.opts.Now(), day).Format(s.opts.DateLayout)
}

func validateKey(key model.LineKey) (model.LineKey, error) {
	lineType, err := model.ParseLineType(string(key.Type))
	if err != nil {
		return key, err
	}
	dayName, _, err := model.ParseWeekday(key.Day)
	if err != nil {
		return key, err
	}
	key.Type = lineType
	key.Day = dayName
	return key.Normalized(), nil
}
