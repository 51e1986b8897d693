package jwt

import (
	"errors"
	"time"

	"github.com/amoylab/tenantly/internal/common/config"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidAlgorithm = errors.New("invalid signing algorithm")
	ErrEmptySecretKey   = errors.New("secret key cannot be empty")
	ErrWeakSecretKey    = errors.New("secret key must be at least 32 characters")
	ErrInvalidDuration  = errors.New("duration must be positive")
	ErrMissingClaims    = errors.New("token is missing subject or tenant")
)

// Claims binds a token to one user inside one tenant.
// The user id travels in the registered "sub" claim.
type Claims struct {
	TenantID string `json:"tid"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the subject of the token
func (c *Claims) UserID() string {
	return c.Subject
}

// Service signs and verifies HS256 tokens
type Service struct {
	secret   []byte
	duration time.Duration
	now      func() time.Time
}

// Option customizes a Service
type Option func(*Service)

// WithClock replaces the time source used for issuing and validating
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new JWT service
func NewService(cfg config.JWTConfig, opts ...Option) (*Service, error) {
	if cfg.SecretKey == "" {
		return nil, ErrEmptySecretKey
	}
	if len(cfg.SecretKey) < 32 {
		return nil, ErrWeakSecretKey
	}
	if cfg.Duration <= 0 {
		return nil, ErrInvalidDuration
	}
	s := &Service{
		secret:   []byte(cfg.SecretKey),
		duration: cfg.Duration,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Duration returns the token lifetime
func (s *Service) Duration() time.Duration {
	return s.duration
}

// GenerateToken signs a token for userID in tenantID
func (s *Service) GenerateToken(userID, tenantID, role string) (string, error) {
	if userID == "" || tenantID == "" {
		return "", ErrMissingClaims
	}
	now := s.now()
	claims := &Claims{
		TenantID: tenantID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken checks the signature, algorithm and lifetime of tokenString
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidAlgorithm
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.TenantID == "" {
		return nil, ErrMissingClaims
	}
	return claims, nil
}
