package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lapakpos/backend/internal/domain"
	"lapakpos/backend/internal/kvstore"
	"lapakpos/backend/internal/ledger"
	"lapakpos/backend/internal/service"
)

func newTestAPI(t *testing.T) (*API, http.Handler) {
	t.Helper()
	kv := kvstore.NewMemory()
	svc := service.New(kv, nil, "main-shop", 0)
	users := ledger.NewUserLedger(kv)

	hash, err := HashPassword("admin-secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if _, err := users.Create(context.Background(), domain.User{
		ID:           "u-admin",
		Username:     "boss",
		Name:         "Boss",
		Email:        "boss@example.com",
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	auth := NewAuthManager(testSecret, time.Hour, users)
	api := New(svc, auth, "http://127.0.0.1:3000")
	return api, api.Handler()
}

func login(t *testing.T, handler http.Handler) string {
	t.Helper()
	body, _ := json.Marshal(domain.LoginRequest{Username: "boss", Password: "admin-secret"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	var resp domain.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.AccessToken
}

func TestHealthEndpoint(t *testing.T) {
	_, handler := newTestAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProductsRequireAuth(t *testing.T) {
	_, handler := newTestAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestMutationsRequireCSRFToken(t *testing.T) {
	_, handler := newTestAPI(t)
	token := login(t, handler)

	body := []byte(`{"name":"kopi","price_cents":1500,"quantity":10,"category":"drinks"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without CSRF token, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestCreateAndListProducts(t *testing.T) {
	api, handler := newTestAPI(t)
	token := login(t, handler)
	csrf := api.generateCSRFToken()

	body := []byte(`{"name":"kopi","price_cents":1500,"quantity":10,"category":"drinks"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-CSRF-Token", csrf)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product: %d %s", rec.Code, rec.Body.String())
	}

	listReq := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	listReq.Header.Set("Authorization", "Bearer "+token)
	listRec := httptest.NewRecorder()
	handler.ServeHTTP(listRec, listReq)
	if listRec.Code != http.StatusOK {
		t.Fatalf("list products: %d", listRec.Code)
	}
	var products []domain.Product
	if err := json.Unmarshal(listRec.Body.Bytes(), &products); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(products) != 1 || products[0].Name != "kopi" {
		t.Fatalf("unexpected products %+v", products)
	}
}

func TestAddToCartDefaultsQuantityToOne(t *testing.T) {
	api, handler := newTestAPI(t)
	token := login(t, handler)
	csrf := api.generateCSRFToken()

	body := []byte(`{"name":"kopi","price_cents":1500,"quantity":10,"category":"drinks"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-CSRF-Token", csrf)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product: %d %s", rec.Code, rec.Body.String())
	}
	var product domain.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &product); err != nil {
		t.Fatalf("decode product: %v", err)
	}

	addBody, _ := json.Marshal(map[string]string{"product_id": product.ID})
	addReq := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(addBody))
	addReq.Header.Set("Content-Type", "application/json")
	addReq.Header.Set("Authorization", "Bearer "+token)
	addReq.Header.Set("X-CSRF-Token", csrf)
	addRec := httptest.NewRecorder()
	handler.ServeHTTP(addRec, addReq)
	if addRec.Code != http.StatusOK {
		t.Fatalf("add to cart without quantity: %d %s", addRec.Code, addRec.Body.String())
	}
	var view domain.CartView
	if err := json.Unmarshal(addRec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if len(view.Lines) != 1 || view.Lines[0].Quantity != 1 {
		t.Fatalf("expected a single line with quantity 1, got %+v", view.Lines)
	}
}

func TestCheckoutRejectionMapsToUnprocessable(t *testing.T) {
	api, handler := newTestAPI(t)
	token := login(t, handler)
	csrf := api.generateCSRFToken()

	// Empty cart checkout is refused with a structured error body.
	body := []byte(`{"terminal_id":"t1","payment":{"method":"cash","amount_paid_cents":100}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-CSRF-Token", csrf)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d %s", rec.Code, rec.Body.String())
	}
	var resp domain.CheckoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success || resp.Error == "" {
		t.Fatalf("expected refusal payload, got %+v", resp)
	}
}

func TestSecurityHeadersPresent(t *testing.T) {
	_, handler := newTestAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Fatalf("%s: expected %q, got %q", header, want, got)
		}
	}
}
