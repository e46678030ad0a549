package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sweetshop/inventory-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

// Create mirrors the real Mongo repo: duplicate usernames are rejected and the
// first user in the store is forced to admin.
func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	clone := cloneUser(user)
	r.seq++
	clone.ID = fmt.Sprintf("u%d", r.seq)
	if len(r.users) == 0 {
		clone.IsAdmin = true
	}
	r.users[clone.Username] = clone
	return cloneUser(clone), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

const testAdminKey = "aswd"

func newTestAuthService(repo *stubUserRepo) *AuthService {
	return NewAuthService(repo, "secret", testAdminKey, time.Hour, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Register tests
// ---------------------------------------------------------------------------

func TestAuthService_Register_FirstUserIsAdmin(t *testing.T) {
	// The first registration is admin whatever the key says, including a
	// wrong one.
	for _, key := range []string{"", "wrong-key", testAdminKey} {
		repo := newStubUserRepo()
		svc := newTestAuthService(repo)

		user, err := svc.Register(context.Background(), "alice", "pass123", key)
		if err != nil {
			t.Fatalf("Register(key=%q) returned error: %v", key, err)
		}
		if !user.IsAdmin {
			t.Errorf("first user must be admin (key=%q)", key)
		}
	}
}

func TestAuthService_Register_AdminKeyGrantsAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	_, _ = svc.Register(context.Background(), "alice", "pass123", "")
	user, err := svc.Register(context.Background(), "carol", "pass123", testAdminKey)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if !user.IsAdmin {
		t.Error("correct admin key must grant admin")
	}
}

func TestAuthService_Register_WrongKeyIsNotAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	_, _ = svc.Register(context.Background(), "alice", "pass123", "")
	user, err := svc.Register(context.Background(), "bob", "pass123", "not-the-key")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.IsAdmin {
		t.Error("wrong admin key must not grant admin")
	}
}

func TestAuthService_Register_EmptyConfiguredKeyGrantsNothing(t *testing.T) {
	// With no admin key configured, an empty supplied key must not match.
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", "", time.Hour, zerolog.Nop())

	_, _ = svc.Register(context.Background(), "alice", "pass123", "")
	user, err := svc.Register(context.Background(), "bob", "pass123", "")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.IsAdmin {
		t.Error("empty configured key must never grant admin")
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "pass123"},
		{"short username", "ab", "pass123"},
		{"empty password", "alice", ""},
		{"short password", "alice", "12345"},
	}
	for _, tc := range cases {
		if _, err := svc.Register(context.Background(), tc.username, tc.password, ""); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
	if len(repo.users) != 0 {
		t.Errorf("no user should be stored after validation failures, got %d", len(repo.users))
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	first, err := svc.Register(context.Background(), "alice", "pass123", "")
	if err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "alice", "otherpass", ""); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	// The store must be unchanged: one user, original hash.
	if len(repo.users) != 1 {
		t.Fatalf("expected 1 stored user, got %d", len(repo.users))
	}
	stored := repo.users["alice"]
	if stored.PasswordHash != first.PasswordHash {
		t.Error("duplicate registration must not alter the stored user")
	}
}

func TestAuthService_Register_HashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	user, err := svc.Register(context.Background(), "alice", "pass123", "")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.PasswordHash == "pass123" {
		t.Fatal("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_BootstrapScenario(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	alice, err := svc.Register(context.Background(), "alice", "pass123", "")
	if err != nil || !alice.IsAdmin {
		t.Fatalf("alice: want admin, got admin=%v err=%v", alice != nil && alice.IsAdmin, err)
	}
	bob, err := svc.Register(context.Background(), "bob", "pass123", "")
	if err != nil || bob.IsAdmin {
		t.Fatalf("bob: want non-admin, got admin=%v err=%v", bob != nil && bob.IsAdmin, err)
	}
	carol, err := svc.Register(context.Background(), "carol", "pass123", testAdminKey)
	if err != nil || !carol.IsAdmin {
		t.Fatalf("carol: want admin, got admin=%v err=%v", carol != nil && carol.IsAdmin, err)
	}
	if _, err := svc.Register(context.Background(), "alice", "pass456", ""); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("re-registering alice: expected ErrUserExists, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Login tests
// ---------------------------------------------------------------------------

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), "carol", "s3cret99", ""); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "carol", "s3cret99")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected token, got empty")
	}
	if user == nil || user.Username != "carol" {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["username"] != "carol" {
		t.Errorf("expected username claim carol, got %v", claims["username"])
	}
	if claims["is_admin"] != true {
		t.Errorf("expected is_admin claim true, got %v", claims["is_admin"])
	}
	if _, ok := claims["exp"]; !ok {
		t.Error("expected exp claim")
	}
}

func TestAuthService_Login_UniformError(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	_, _ = svc.Register(context.Background(), "dave", "goodpass", "")

	// Wrong password and unknown username must fail with the identical kind.
	_, _, wrongPass := svc.Login(context.Background(), "dave", "badpass")
	_, _, unknown := svc.Login(context.Background(), "ghost", "whatever")

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Errorf("unknown username: expected ErrInvalidCredentials, got %v", unknown)
	}
}

// ---------------------------------------------------------------------------
// ValidateToken tests
// ---------------------------------------------------------------------------

func TestAuthService_ValidateToken_RoundTrip(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	_, _ = svc.Register(context.Background(), "alice", "pass123", "")
	token, _, err := svc.Login(context.Background(), "alice", "pass123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	user, err := svc.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("expected alice, got %q", user.Username)
	}
	if !user.IsAdmin {
		t.Error("expected admin flag resolved from the store")
	}
}

func TestAuthService_ValidateToken_Expired(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)
	_, _ = svc.Register(context.Background(), "alice", "pass123", "")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "alice",
		"is_admin": true,
		"exp":      time.Now().Add(-time.Minute).Unix(),
	})
	signed, err := expired.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.ValidateToken(context.Background(), signed); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestAuthService_ValidateToken_TamperedSignature(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)
	_, _ = svc.Register(context.Background(), "alice", "pass123", "")

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "alice",
		"is_admin": true,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := forged.SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.ValidateToken(context.Background(), signed); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_ValidateToken_Malformed(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.ValidateToken(context.Background(), "not-a-token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_ValidateToken_UnknownUser(t *testing.T) {
	// A structurally valid token naming a user absent from the store is
	// rejected: identity is resolved against the store, not the claim.
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	ghost := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "ghost",
		"is_admin": true,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := ghost.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.ValidateToken(context.Background(), signed); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
