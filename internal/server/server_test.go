package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hometracker/internal/auth"
	"hometracker/internal/models"
	"hometracker/internal/models/dto"
	"hometracker/internal/storage/memory"
)

type testAPI struct {
	ts    *httptest.Server
	store *memory.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store := memory.NewStore()
	ctx := context.Background()
	seed := []models.User{
		{Username: "admin", Password: "admin", FullName: "Home Admin", Role: models.RoleAdmin},
		{Username: "user1", Password: "user1", FullName: "User One", Role: models.RoleUser},
		{Username: "user2", Password: "user2", FullName: "User Two", Role: models.RoleUser},
	}
	for _, u := range seed {
		_, err := store.CreateUser(ctx, u)
		require.NoError(t, err)
	}

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	ts := httptest.NewServer(NewRouter(store, tokens, []string{"*"}))
	t.Cleanup(ts.Close)

	return &testAPI{ts: ts, store: store}
}

func (a *testAPI) request(t *testing.T, method, path, token string, payload any) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, a.ts.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func (a *testAPI) login(t *testing.T, username, password string) dto.LoginResponse {
	t.Helper()

	resp, raw := a.request(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "login body: %s", raw)

	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestPublicEndpoints(t *testing.T) {
	api := newTestAPI(t)

	resp, raw := api.request(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "active")

	resp, raw = api.request(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "healthy")
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)

	out := api.login(t, "admin", "admin")
	assert.NotEmpty(t, out.AccessToken)
	assert.Equal(t, "bearer", out.TokenType)
	assert.Equal(t, "admin", out.User.Username)
	assert.Equal(t, models.RoleAdmin, out.User.Role)

	resp, _ := api.request(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": "admin", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = api.request(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": "ghost", "password": "ghost",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginResponseHidesPassword(t *testing.T) {
	api := newTestAPI(t)

	resp, raw := api.request(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": "user1", "password": "user1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(raw), `"password"`)
}

func TestMe(t *testing.T) {
	api := newTestAPI(t)
	token := api.login(t, "user1", "user1").AccessToken

	resp, raw := api.request(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var user models.User
	require.NoError(t, json.Unmarshal(raw, &user))
	assert.Equal(t, "user1", user.Username)
	assert.Equal(t, "User One", user.FullName)
}

func TestBearerRequired(t *testing.T) {
	api := newTestAPI(t)

	resp, _ := api.request(t, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = api.request(t, http.MethodGet, "/api/expenses", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestExpiredTokenRejected(t *testing.T) {
	store := memory.NewStore()
	_, err := store.CreateUser(context.Background(), models.User{
		Username: "user1", Password: "user1", FullName: "User One", Role: models.RoleUser,
	})
	require.NoError(t, err)

	expired := auth.NewTokenManager("test-secret", -time.Minute)
	live := auth.NewTokenManager("test-secret", time.Hour)

	ts := httptest.NewServer(NewRouter(store, live, []string{"*"}))
	defer ts.Close()

	token, err := expired.Generate(models.User{Username: "user1"})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminOnlyEndpoints(t *testing.T) {
	api := newTestAPI(t)
	userToken := api.login(t, "user1", "user1").AccessToken

	// Payload validity is irrelevant; the role check comes first.
	cases := []struct {
		method, path string
		payload      any
	}{
		{http.MethodPost, "/api/users", map[string]string{"username": "new", "password": "new", "full_name": "New User"}},
		{http.MethodDelete, "/api/users/1", nil},
		{http.MethodDelete, "/api/categories/1", nil},
		{http.MethodPut, "/api/settings", map[string]string{"currency_symbol": "$", "home_name": "X"}},
	}
	for _, tc := range cases {
		resp, _ := api.request(t, tc.method, tc.path, userToken, tc.payload)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, "%s %s", tc.method, tc.path)
	}
}

func TestUserManagement(t *testing.T) {
	api := newTestAPI(t)
	adminToken := api.login(t, "admin", "admin").AccessToken

	resp, raw := api.request(t, http.MethodPost, "/api/users", adminToken, map[string]string{
		"username": "user3", "password": "user3", "full_name": "User Three",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", raw)

	var created models.User
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.Equal(t, "user3", created.Username)
	assert.Equal(t, models.RoleUser, created.Role)

	resp, _ = api.request(t, http.MethodPost, "/api/users", adminToken, map[string]string{
		"username": "user3", "password": "x", "full_name": "Dup",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw = api.request(t, http.MethodGet, "/api/users", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var users []models.User
	require.NoError(t, json.Unmarshal(raw, &users))
	assert.Len(t, users, 4)

	resp, _ = api.request(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", created.ID), adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = api.request(t, http.MethodDelete, "/api/users/9999", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCategoryLifecycle(t *testing.T) {
	api := newTestAPI(t)
	adminToken := api.login(t, "admin", "admin").AccessToken
	userToken := api.login(t, "user2", "user2").AccessToken

	resp, raw := api.request(t, http.MethodPost, "/api/categories", userToken, map[string]string{
		"name": "Groceries",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var category models.Category
	require.NoError(t, json.Unmarshal(raw, &category))
	assert.Equal(t, "#3498db", category.Color, "default color applied")

	resp, _ = api.request(t, http.MethodPost, "/api/categories", userToken, map[string]string{
		"name": "Groceries", "color": "#000000",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw = api.request(t, http.MethodGet, "/api/categories", userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var categories []models.Category
	require.NoError(t, json.Unmarshal(raw, &categories))
	assert.Len(t, categories, 1)

	resp, _ = api.request(t, http.MethodDelete, fmt.Sprintf("/api/categories/%d", category.ID), adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = api.request(t, http.MethodDelete, fmt.Sprintf("/api/categories/%d", category.ID), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExpenseFiltersOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	token := api.login(t, "user1", "user1").AccessToken

	resp, raw := api.request(t, http.MethodPost, "/api/categories", token, map[string]string{"name": "Utilities"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var category models.Category
	require.NoError(t, json.Unmarshal(raw, &category))

	me := api.login(t, "user1", "user1").User
	dates := []string{"2026-08-10", "2026-08-20", "2026-09-01"}
	for _, date := range dates {
		resp, raw = api.request(t, http.MethodPost, "/api/expenses", token, map[string]any{
			"amount":       50.0,
			"category_id":  category.ID,
			"payment_mode": "upi",
			"paid_by":      me.ID,
			"date":         date,
			"time":         "10:00",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", raw)
	}

	resp, raw = api.request(t, http.MethodGet, "/api/expenses?start_date=2026-08-01&end_date=2026-08-31", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var expenses []models.Expense
	require.NoError(t, json.Unmarshal(raw, &expenses))
	require.Len(t, expenses, 2)
	assert.Equal(t, "2026-08-20", expenses[0].Date)
	assert.Equal(t, "2026-08-10", expenses[1].Date)

	resp, _ = api.request(t, http.MethodGet, "/api/expenses?category_id=nope", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = api.request(t, http.MethodPost, "/api/expenses", token, map[string]any{
		"amount": 0, "category_id": category.ID, "payment_mode": "upi",
		"paid_by": me.ID, "date": "2026-09-01", "time": "10:00",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestToBuyPurchaseFlow(t *testing.T) {
	api := newTestAPI(t)
	token := api.login(t, "user1", "user1").AccessToken
	me := api.login(t, "user1", "user1").User

	resp, raw := api.request(t, http.MethodPost, "/api/to-buy", token, map[string]any{
		"name":        "Blender",
		"target_date": "2026-09-20",
		"priority":    "high",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", raw)
	var item models.ToBuyItem
	require.NoError(t, json.Unmarshal(raw, &item))
	assert.Equal(t, me.ID, item.CreatedBy, "created_by stamped from caller")
	assert.False(t, item.Purchased)

	resp, raw = api.request(t, http.MethodPatch, fmt.Sprintf("/api/to-buy/%d/purchase", item.ID), token, map[string]any{
		"purchased_by":          me.ID,
		"purchase_amount":       89.5,
		"purchase_payment_mode": "card",
		"purchase_date":         "2026-09-18",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", raw)
	var purchased models.ToBuyItem
	require.NoError(t, json.Unmarshal(raw, &purchased))
	assert.True(t, purchased.Purchased)
	require.NotNil(t, purchased.PurchaseAmount)
	assert.Equal(t, 89.5, *purchased.PurchaseAmount)

	// The matching expense exists under the lazily created category.
	resp, raw = api.request(t, http.MethodGet, "/api/expenses", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var expenses []models.Expense
	require.NoError(t, json.Unmarshal(raw, &expenses))
	require.Len(t, expenses, 1)
	assert.Equal(t, 89.5, expenses[0].Amount)
	assert.Equal(t, "card", expenses[0].PaymentMode)
	assert.Equal(t, me.ID, expenses[0].PaidBy)
	assert.Equal(t, "2026-09-18", expenses[0].Date)
	require.NotNil(t, expenses[0].Description)
	assert.Equal(t, "Purchase: Blender", *expenses[0].Description)

	resp, raw = api.request(t, http.MethodGet, "/api/categories", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var categories []models.Category
	require.NoError(t, json.Unmarshal(raw, &categories))
	require.Len(t, categories, 1)
	assert.Equal(t, "To-Buy Items", categories[0].Name)
	assert.Equal(t, "#6366f1", categories[0].Color)

	// Purchased filter over HTTP.
	resp, raw = api.request(t, http.MethodGet, "/api/to-buy?purchased=false", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var open []models.ToBuyItem
	require.NoError(t, json.Unmarshal(raw, &open))
	assert.Empty(t, open)

	// Missing item: 404 and no extra expense.
	resp, _ = api.request(t, http.MethodPatch, "/api/to-buy/9999/purchase", token, map[string]any{
		"purchased_by": me.ID, "purchase_amount": 5.0,
		"purchase_payment_mode": "cash", "purchase_date": "2026-09-19",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw = api.request(t, http.MethodGet, "/api/expenses", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &expenses))
	assert.Len(t, expenses, 1)
}

func TestSettingsOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	adminToken := api.login(t, "admin", "admin").AccessToken
	userToken := api.login(t, "user2", "user2").AccessToken

	resp, _ := api.request(t, http.MethodPut, "/api/settings", adminToken, map[string]string{
		"currency_symbol": "$", "home_name": "Lake House",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw := api.request(t, http.MethodGet, "/api/settings", userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var settings map[string]string
	require.NoError(t, json.Unmarshal(raw, &settings))
	assert.Equal(t, "$", settings["currency_symbol"])
	assert.Equal(t, "Lake House", settings["home_name"])

	resp, _ = api.request(t, http.MethodPut, "/api/settings", adminToken, map[string]string{
		"currency_symbol": "", "home_name": "X",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
