// internal/auth/auth.go
//
// Accounts and tokens.
//   - Signup/Login: bcrypt password hashes stored through store.Store.
//   - Tokens: HS256 JWTs carrying id + username, expiring after ExpiresDays.
//   - Resolve: token → user, rejecting tokens whose user no longer exists.

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/santiago-ondris/wheels-house-sub002/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidSignup      = errors.New("invalid signup")
)

// Claims is the token payload.
type Claims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Options configures a Service.
type Options struct {
	Secret      string
	ExpiresDays int
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	Now        func() time.Time
}

// Service signs up, logs in and authenticates users.
type Service struct {
	store  store.Store
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

func NewService(st store.Store, opts Options) *Service {
	s := &Service{
		store:  st,
		secret: []byte(opts.Secret),
		ttl:    time.Duration(opts.ExpiresDays) * 24 * time.Hour,
		cost:   opts.BcryptCost,
		now:    opts.Now,
	}
	if s.ttl <= 0 {
		s.ttl = 14 * 24 * time.Hour
	}
	if s.cost == 0 {
		s.cost = bcrypt.DefaultCost
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func normalizeUsername(u string) string {
	return strings.TrimSpace(u)
}

// validateSignup enforces username/password shape.
func validateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return fmt.Errorf("%w: username must be 3-24 chars", ErrInvalidSignup)
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return fmt.Errorf("%w: username may contain letters, numbers and underscore only", ErrInvalidSignup)
		}
	}
	if len(p) < 8 || len(p) > 72 {
		return fmt.Errorf("%w: password must be 8-72 chars", ErrInvalidSignup)
	}
	return nil
}

// Signup creates an account. store.ErrUsernameTaken passes through.
func (s *Service) Signup(ctx context.Context, username, password string) (*store.User, error) {
	username = normalizeUsername(username)
	if err := validateSignup(username, password); err != nil {
		return nil, err
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &store.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(h),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*store.User, error) {
	u, err := s.store.FindUserByUsername(ctx, normalizeUsername(username))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// SignToken issues a token for u and returns its expiry.
func (s *Service) SignToken(u *store.User) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   u.ID,
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	ss, err := t.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return ss, exp, nil
}

// ParseToken verifies signature, algorithm and expiry.
func (s *Service) ParseToken(tok string) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !t.Valid || claims.UserID == "" || claims.Username == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Resolve returns the user a token belongs to.
func (s *Service) Resolve(ctx context.Context, tok string) (*store.User, error) {
	c, err := s.ParseToken(tok)
	if err != nil {
		return nil, err
	}
	u, err := s.store.FindUserByID(ctx, c.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
