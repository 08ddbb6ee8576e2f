package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/project-registry/internal/core/domain"
	"github.com/99minutos/project-registry/internal/core/ports"
)

// tokenClaims is the JWT payload: sub carries the user id.
type tokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// dummyHash is compared against when the username does not exist so both
// failure paths cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	return h
})

// AuthService implements login and bearer token resolution.
type AuthService struct {
	users    ports.UserRepository
	lockout  ports.LoginLockoutStore
	secret   []byte
	tokenTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAuthService builds an AuthService. lockout may be nil to disable
// failed-login throttling.
func NewAuthService(users ports.UserRepository, lockout ports.LoginLockoutStore, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 30 * time.Minute
	}
	return &AuthService{
		users:    users,
		lockout:  lockout,
		secret:   []byte(jwtSecret),
		tokenTTL: tokenTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Login checks the username/password pair and mints an access token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Token, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.lockout != nil {
		locked, retryAfter, err := s.lockout.IsLocked(ctx, username)
		if err != nil {
			s.logger.Warn().Err(err).Str("username", username).Msg("lockout check failed")
		} else if locked {
			return nil, &domain.LockedError{RetryAfterSeconds: retryAfter}
		}
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("find user: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		s.recordFailure(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		s.recordFailure(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}

	if s.lockout != nil {
		if err := s.lockout.RecordSuccess(ctx, username); err != nil {
			s.logger.Warn().Err(err).Str("username", username).Msg("lockout reset failed")
		}
	}

	return s.IssueToken(user)
}

// IssueToken signs a token for user that expires after the configured TTL.
func (s *AuthService) IssueToken(user *domain.User) (*domain.Token, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)

	claims := tokenClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &domain.Token{
		AccessToken: signed,
		TokenType:   domain.TokenTypeBearer,
		ExpiresAt:   expiresAt,
	}, nil
}

// CurrentUser verifies token and loads the user it was issued for.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	id, err := s.parseToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *AuthService) parseToken(token string) (uint, error) {
	if token == "" {
		return 0, domain.ErrMissingToken
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return 0, domain.ErrInvalidToken
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidToken
	}
	return uint(id), nil
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	if s.lockout == nil {
		return
	}
	if err := s.lockout.RecordFailure(ctx, username); err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("lockout record failed")
	}
}
