package httpapi

import (
	"context"
	"testing"
	"time"

	"lapakpos/backend/internal/domain"
	"lapakpos/backend/internal/kvstore"
	"lapakpos/backend/internal/ledger"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestUsers(t *testing.T) *ledger.UserLedger {
	t.Helper()
	users := ledger.NewUserLedger(kvstore.NewMemory())
	hash, err := HashPassword("kasir-secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	_, err = users.Create(context.Background(), domain.User{
		ID:           "u-1",
		Username:     "kasir",
		Name:         "Kasir A",
		Email:        "kasir@example.com",
		PasswordHash: hash,
		Role:         domain.RoleCashier,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return users
}

func TestLoginAndParseToken(t *testing.T) {
	auth := NewAuthManager(testSecret, time.Hour, newTestUsers(t))

	resp, err := auth.Login(context.Background(), domain.LoginRequest{Username: "kasir", Password: "kasir-secret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Role != domain.RoleCashier {
		t.Fatalf("expected cashier role, got %s", resp.Role)
	}

	session, err := auth.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if session.Username != "kasir" || session.Role != domain.RoleCashier {
		t.Fatalf("unexpected session %+v", session)
	}
	if session.UserID != "u-1" || session.Email != "kasir@example.com" {
		t.Fatalf("identity claims missing: %+v", session)
	}
	if session.IsAdmin() {
		t.Fatalf("cashier must not be admin")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	auth := NewAuthManager(testSecret, time.Hour, newTestUsers(t))
	if _, err := auth.Login(context.Background(), domain.LoginRequest{Username: "kasir", Password: "wrong"}); err == nil {
		t.Fatalf("expected login failure")
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	users := newTestUsers(t)
	if _, err := users.SetActive(context.Background(), "u-1", false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	auth := NewAuthManager(testSecret, time.Hour, users)
	if _, err := auth.Login(context.Background(), domain.LoginRequest{Username: "kasir", Password: "kasir-secret"}); err == nil {
		t.Fatalf("expected inactive account to be rejected")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	auth := NewAuthManager(testSecret, time.Hour, newTestUsers(t))
	if _, err := auth.ParseToken("not-a-token"); err == nil {
		t.Fatalf("expected parse failure")
	}
}

func TestBootstrapSeedsAdminWhenEmpty(t *testing.T) {
	users := ledger.NewUserLedger(kvstore.NewMemory())
	NewAuthManager(testSecret, time.Hour, users)

	admin, err := users.GetByUsername(context.Background(), "admin")
	if err != nil {
		t.Fatalf("expected seeded admin: %v", err)
	}
	if admin.Role != domain.RoleAdmin || !admin.Active {
		t.Fatalf("seeded admin malformed: %+v", admin)
	}
}

func TestCSRFTokenWindow(t *testing.T) {
	a := New(nil, nil, "http://127.0.0.1:3000")
	token := a.generateCSRFToken()
	if !a.validateCSRFToken(token) {
		t.Fatalf("freshly issued token must validate")
	}
	if a.validateCSRFToken("deadbeef") {
		t.Fatalf("arbitrary token must not validate")
	}
	if a.validateCSRFToken("") {
		t.Fatalf("empty token must not validate")
	}
}

func TestAttemptLimiter(t *testing.T) {
	limiter := newAttemptLimiter(2, time.Minute)
	if !limiter.Allow("1.2.3.4") || !limiter.Allow("1.2.3.4") {
		t.Fatalf("first attempts should pass")
	}
	if limiter.Allow("1.2.3.4") {
		t.Fatalf("third attempt within window should be blocked")
	}
	if !limiter.Allow("5.6.7.8") {
		t.Fatalf("other clients must not be affected")
	}
}
