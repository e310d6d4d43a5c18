package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/courier-orders/internal/core/domain"
)

type stubUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	nextID int64
	err    error
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

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = r.nextID
	r.users[stored.Username] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []domain.Event
}

func (s *recordingSink) Enqueue(e domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) all() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Event(nil), s.events...)
}

func newTestAuthService(repo *stubUserRepo, sink *recordingSink) *AuthService {
	return NewAuthService(repo, sink, "secret", time.Hour, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	sink := &recordingSink{}
	svc := newTestAuthService(repo, sink)

	user, err := svc.Register(context.Background(), "alice", "pw", "customer")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if user.PasswordHash == "pw" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != "customer" {
		t.Fatalf("unexpected role: %s", user.Role)
	}

	events := sink.all()
	if len(events) != 1 || events[0].Type != domain.EventUserRegistered || events[0].Key != "1" {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestAuthService_Register_FreeTextRole(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), &recordingSink{})

	user, err := svc.Register(context.Background(), "eve", "pw", "dispatcher-night-shift")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Role != "dispatcher-night-shift" {
		t.Fatalf("role not preserved: %s", user.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), &recordingSink{})

	cases := []struct{ username, password, role string }{
		{"", "pw", "customer"},
		{"bob", "", "customer"},
		{"bob", "pw", ""},
		{"bob", strings.Repeat("x", 73), "customer"},
	}
	for _, tc := range cases {
		if _, err := svc.Register(context.Background(), tc.username, tc.password, tc.role); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("Register(%q, len %d, %q): expected ErrInvalidInput, got %v", tc.username, len(tc.password), tc.role, err)
		}
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	sink := &recordingSink{}
	svc := newTestAuthService(newStubUserRepo(), sink)

	if _, err := svc.Register(context.Background(), "bob", "pass", "customer"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", "pass2", "customer"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if n := len(sink.all()); n != 1 {
		t.Fatalf("expected 1 event, got %d", n)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, &recordingSink{})

	registered, err := svc.Register(context.Background(), "carol", "s3cret", "courier")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.Username != "carol" {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Subject != "1" || registered.ID != 1 {
		t.Fatalf("expected subject 1, got %q", claims.Subject)
	}
	if claims.Role != "courier" || claims.Username != "carol" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Sub(claims.IssuedAt.Time) != time.Hour {
		t.Fatalf("unexpected expiry: %+v", claims.ExpiresAt)
	}
}

func TestAuthService_DefaultTokenTTL(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), nil, "secret", 0, zerolog.Nop())
	if svc.tokenTTL != defaultTokenTTL {
		t.Fatalf("expected default ttl %v, got %v", defaultTokenTTL, svc.tokenTTL)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), &recordingSink{})

	_, _ = svc.Register(context.Background(), "dave", "goodpass", "customer")
	if _, _, err := svc.Login(context.Background(), "dave", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUserLooksLikeBadPassword(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), &recordingSink{})

	if _, _, err := svc.Login(context.Background(), "ghost", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_RepositoryFailure(t *testing.T) {
	repo := newStubUserRepo()
	repo.err = errors.New("database is down")
	svc := newTestAuthService(repo, &recordingSink{})

	_, _, err := svc.Login(context.Background(), "alice", "pw")
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected infrastructure error to propagate, got %v", err)
	}
}
