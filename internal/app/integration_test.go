package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/tiffin-backend/config"
	"github.com/ikkim/tiffin-backend/internal/app/controller"
	"github.com/ikkim/tiffin-backend/internal/app/model"
	"github.com/ikkim/tiffin-backend/internal/app/repository"
	"github.com/ikkim/tiffin-backend/internal/app/service"
	"github.com/ikkim/tiffin-backend/internal/db"
	"github.com/ikkim/tiffin-backend/internal/pricing"
	"github.com/ikkim/tiffin-backend/internal/router"
	"github.com/ikkim/tiffin-backend/internal/tiffin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Handler http.Handler
}

func setupIntegrationTest(t *testing.T) *TestServer {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	menuRepo := repository.NewMenuRepository(testDB)
	thresholdRepo := repository.NewThresholdRepository(testDB)

	require.NoError(t, menuRepo.Upsert([]model.MenuItem{
		{ID: "p1", VariantID: "v1", Title: "Butter Chicken", Category: "main_tiffin_proteins", Type: model.LineTypeMain, Price: "15.99", Tags: `["Halal"]`},
		{ID: "p2", VariantID: "v1", Title: "Chana Masala", Category: "main_tiffin_proteins", Type: model.LineTypeMain, Price: "11.49", Tags: `["Vegan","Gluten Free"]`},
		{ID: "g1", VariantID: "v1", Title: "Bhindi Fry", Category: "main_tiffin_veggies", Type: model.LineTypeMain, Price: "7.25", Tags: `["Vegan"]`},
		{ID: "s1", VariantID: "v1", Title: "Basmati Rice", Category: "main_tiffin_sides", Type: model.LineTypeMain, Price: "3"},
		{ID: "b1", VariantID: "v1", Title: "Mango Lassi", Category: "main_tiffin_probiotics", Type: model.LineTypeMain, Price: "4.50"},
		{ID: "a1", VariantID: "v1", Title: "Extra Roti", Category: "addon_sides", Type: model.LineTypeAddon, Price: "1.25"},
	}, 50))
	require.NoError(t, thresholdRepo.Upsert([]model.PriceThreshold{
		{Key: "protein_price_threshold", Value: "1.99"},
		{Key: "veggies_price_threshold", Value: "0.25"},
	}))

	adjuster := pricing.NewAdjuster(nil)
	thresholds := service.NewThresholdService(thresholdRepo, nil)
	require.NoError(t, thresholds.Refresh(context.Background()))
	menu := service.NewMenuService(menuRepo, thresholds, adjuster)
	carts := service.NewCartService(menu, service.CartOptions{
		Rules: tiffin.DefaultRules(),
		Fees: pricing.Fees{
			Shipping: decimal.RequireFromString("10.85"),
			Discount: decimal.RequireFromString("9"),
		},
		Adjuster: adjuster,
		IdleTTL:  time.Hour,
		Now:      func() time.Time { return time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC) },
	})

	cfg := &config.Config{
		Server: config.ServerConfig{GinMode: gin.TestMode},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
	r := router.NewRouter(
		controller.NewMenuController(menu, thresholds),
		controller.NewCartController(carts, service.NewExportService()),
		nil,
		cfg,
	)
	return &TestServer{Handler: r.Setup()}
}

func (s *TestServer) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func TestWeeklyPlanJourney(t *testing.T) {
	server := setupIntegrationTest(t)

	// Browse vegan dishes
	w, body := server.do(t, http.MethodGet, "/api/v1/menu?tags=vegan", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), body["count"])

	// Open a cart
	w, body = server.do(t, http.MethodPost, "/api/v1/carts", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	cartID := body["cart"].(map[string]interface{})["id"].(string)
	base := "/api/v1/carts/" + cartID

	// Fill Monday, changing the protein once
	for _, id := range []string{"p1", "p2", "g1", "s1", "b1"} {
		w, _ = server.do(t, http.MethodPost, base+"/selections", gin.H{
			"item_id": id, "variant_id": "v1", "type": "main", "day": "Monday",
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	// Two extra rotis on Monday, one on Tuesday
	for _, day := range []string{"Monday", "Monday", "Tuesday"} {
		w, _ = server.do(t, http.MethodPost, base+"/selections", gin.H{
			"item_id": "a1", "variant_id": "v1", "type": "addon", "day": day, "action": "increment",
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, body = server.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cart := body["cart"].(map[string]interface{})

	lines := cart["lines"].([]interface{})
	assert.Len(t, lines, 6)
	assert.Equal(t, false, cart["complete"])

	incomplete := cart["incomplete_days"].([]interface{})
	require.Len(t, incomplete, 1)
	tuesday := incomplete[0].(map[string]interface{})
	assert.Equal(t, "Tuesday", tuesday["day"])
	// the addon roti counts as SIDES
	assert.Equal(t, []interface{}{"PROTEIN", "VEGGIES", "PROBIOTICS"}, tuesday["missing"])

	days := cart["days"].([]interface{})
	require.Len(t, days, 2)
	monday := days[0].(map[string]interface{})
	assert.Equal(t, "Monday", monday["day"])
	plans := monday["tiffin_plans"].([]interface{})
	require.Len(t, plans, 1)
	items := plans[0].(map[string]interface{})["items"].([]interface{})
	titles := []string{}
	for _, item := range items {
		titles = append(titles, item.(map[string]interface{})["title"].(string))
	}
	assert.Equal(t, []string{"Chana Masala", "Bhindi Fry", "Basmati Rice", "Mango Lassi"}, titles)

	// 9.50 + 7.00 + 3 + 4.50 + 3 x 1.25
	totals := cart["totals"].(map[string]interface{})
	assert.Equal(t, "27.75", totals["subtotal"])
	assert.Equal(t, "10.85", totals["shipping"])
	assert.Equal(t, "9.00", totals["discount"])
	assert.Equal(t, "29.60", totals["total"])

	// Download the plan
	w, _ = server.do(t, http.MethodGet, base+"/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotZero(t, w.Body.Len())

	// Start over
	w, body = server.do(t, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cart = body["cart"].(map[string]interface{})
	assert.Equal(t, true, cart["cleared"])
	assert.Empty(t, cart["lines"])
}

func TestThresholdUpdateReprices(t *testing.T) {
	server := setupIntegrationTest(t)

	w, body := server.do(t, http.MethodGet, "/api/v1/menu/items/p1?variant_id=v1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "14.00", body["item"].(map[string]interface{})["price"])

	w, _ = server.do(t, http.MethodPut, "/api/v1/menu/thresholds", gin.H{
		"thresholds": []gin.H{{"key": "protein_price_threshold", "value": "20"}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, body = server.do(t, http.MethodGet, "/api/v1/menu/items/p1?variant_id=v1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0.00", body["item"].(map[string]interface{})["price"])
}
