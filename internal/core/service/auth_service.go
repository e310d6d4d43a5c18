package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/courier-orders/internal/core/domain"
	"github.com/99minutos/courier-orders/internal/core/ports"
)

const (
	defaultTokenTTL = 15 * time.Minute
	// bcrypt ignores everything past 72 bytes, so longer passwords are rejected.
	maxPasswordBytes = 72
)

// TokenClaims is the payload of an access token. Subject holds the user ID
// in decimal form.
type TokenClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService implements registration and login.
type AuthService struct {
	repo      ports.UserRepository
	events    ports.EventSink
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

func NewAuthService(repo ports.UserRepository, events ports.EventSink, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	if events == nil {
		events = discardSink{}
	}
	return &AuthService{
		repo:      repo,
		events:    events,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Register hashes the password and stores a new user. Uniqueness is left to
// the repository so that two concurrent registrations cannot both succeed.
func (s *AuthService) Register(ctx context.Context, username, password, role string) (*domain.User, error) {
	if username == "" || password == "" || role == "" {
		return nil, fmt.Errorf("%w: username, password and role are required", domain.ErrInvalidInput)
	}
	if len(password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", domain.ErrInvalidInput, maxPasswordBytes)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return nil, err
	}

	s.events.Enqueue(domain.Event{
		Type:       domain.EventUserRegistered,
		Key:        strconv.FormatInt(created.ID, 10),
		OccurredAt: created.CreatedAt,
		Payload: map[string]any{
			"id":       created.ID,
			"username": created.Username,
			"role":     created.Role,
		},
	})
	s.logger.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("user registered")

	return created, nil
}

// Login verifies the credentials and returns a signed access token.
// Unknown users and wrong passwords are both reported as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	return token, user, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := s.now()
	claims := TokenClaims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

type discardSink struct{}

func (discardSink) Enqueue(domain.Event) {}
