package httpapi

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"lapakpos/backend/internal/domain"
	"lapakpos/backend/internal/ledger"
)

// AuthManager issues and validates access tokens against the user
// ledger. Credentials are always bcrypt hashes; a legacy plain-text
// password found in the ledger is upgraded in place on first load.
type AuthManager struct {
	secret   []byte
	tokenTTL time.Duration
	users    *ledger.UserLedger
}

type posCustomClaims struct {
	jwtlib.RegisteredClaims
	Role  string `json:"role"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	UID   string `json:"uid"`
}

func NewAuthManager(secret string, tokenTTL time.Duration, users *ledger.UserLedger) *AuthManager {
	if secret == "" {
		secret = "dev-change-me"
	}
	if tokenTTL <= 0 {
		tokenTTL = 8 * time.Hour
	}

	manager := &AuthManager{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		users:    users,
	}
	// Startup runs before any request context exists.
	manager.bootstrap(context.Background())
	return manager
}

// bootstrap seeds a default admin when the user collection is empty and
// upgrades any plain-text passwords left by older installs.
func (a *AuthManager) bootstrap(ctx context.Context) {
	if a.users == nil {
		return
	}
	users, err := a.users.List(ctx)
	if err != nil {
		log.Printf("[auth] WARN: listing users at startup: %v", err)
		return
	}

	if len(users) == 0 {
		hash, err := HashPassword("admin123")
		if err != nil {
			return
		}
		_, err = a.users.Create(ctx, domain.User{
			ID:           "bootstrap-admin",
			Username:     "admin",
			Name:         "Administrator",
			PasswordHash: hash,
			Role:         domain.RoleAdmin,
			Active:       true,
			CreatedAt:    time.Now().UTC(),
		})
		if err != nil {
			log.Printf("[auth] WARN: seeding default admin: %v", err)
			return
		}
		log.Printf("[auth] WARN: seeded default admin account; change its password immediately")
		return
	}

	for _, user := range users {
		if user.PasswordHash == "" || isPasswordHash(user.PasswordHash) {
			continue
		}
		hashed, err := HashPassword(user.PasswordHash)
		if err != nil {
			continue
		}
		if err := a.users.UpdatePassword(ctx, user.ID, hashed); err != nil {
			log.Printf("[auth] WARN: upgrading password hash for %s: %v", user.Username, err)
		}
	}
}

func (a *AuthManager) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := a.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return domain.LoginResponse{}, errors.New("invalid credentials")
	}
	if !verifyPassword(user.PasswordHash, req.Password) {
		return domain.LoginResponse{}, errors.New("invalid credentials")
	}
	if !user.Active {
		return domain.LoginResponse{}, errors.New("account is inactive")
	}

	expiresAt := time.Now().UTC().Add(a.tokenTTL)
	token, err := a.sign(user, expiresAt)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	return domain.LoginResponse{
		AccessToken: token,
		Role:        user.Role,
		ExpiresAt:   expiresAt.Format(time.RFC3339),
	}, nil
}

func (a *AuthManager) ParseToken(tokenStr string) (domain.Session, error) {
	claims := &posCustomClaims{}
	token, err := jwtlib.ParseWithClaims(tokenStr, claims, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return domain.Session{}, errors.New("invalid or expired token")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return domain.Session{}, errors.New("invalid token subject")
	}
	return domain.Session{
		UserID:   claims.UID,
		Username: sub,
		Name:     claims.Name,
		Email:    claims.Email,
		Role:     claims.Role,
	}, nil
}

func (a *AuthManager) sign(user domain.User, expiresAt time.Time) (string, error) {
	claims := posCustomClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwtlib.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
			Issuer:    "lapakpos",
		},
		Role:  user.Role,
		Name:  user.Name,
		Email: user.Email,
		UID:   user.ID,
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

func verifyPassword(stored string, input string) bool {
	if stored == "" || strings.TrimSpace(input) == "" || !isPasswordHash(stored) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(input)) == nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func isPasswordHash(value string) bool {
	return strings.HasPrefix(value, "$2a$") || strings.HasPrefix(value, "$2b$") || strings.HasPrefix(value, "$2y$")
}
