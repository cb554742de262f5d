package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/config"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
)

// hmacJWTService is an implementation of JWTService using HMAC-SHA signing.
type hmacJWTService struct {
	signingKey []byte
	// tokenLifetime of zero issues tokens without an exp claim.
	tokenLifetime time.Duration
	timeFunc      func() time.Time // Injectable for testing
	clockSkew     time.Duration
}

// jwtCustomClaims defines the structure of JWT claims we use
type jwtCustomClaims struct {
	UserID uuid.UUID `json:"uid"`
	jwt.RegisteredClaims
}

// Ensure hmacJWTService implements JWTService interface
var _ JWTService = (*hmacJWTService)(nil)

// NewJWTService creates a new JWT service using HMAC-SHA256 signing.
func NewJWTService(cfg config.AuthConfig) (JWTService, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret must not be empty")
	}
	if cfg.TokenLifetimeMinutes < 0 {
		return nil, fmt.Errorf("token lifetime must not be negative")
	}
	return newHMACJWTService(
		cfg.JWTSecret,
		time.Duration(cfg.TokenLifetimeMinutes)*time.Minute,
		time.Now,
	), nil
}

func newHMACJWTService(secret string, lifetime time.Duration, timeFunc func() time.Time) *hmacJWTService {
	return &hmacJWTService{
		signingKey:    []byte(secret),
		tokenLifetime: lifetime,
		timeFunc:      timeFunc,
		clockSkew:     2 * time.Minute,
	}
}

// GenerateToken creates a signed JWT with user claims. Every token carries
// a fresh jti, so two tokens for the same user never collide.
func (s *hmacJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	claims := jwtCustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID.String(),
			IssuedAt: jwt.NewNumericDate(now),
			ID:       uuid.New().String(),
		},
	}
	if s.tokenLifetime > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.tokenLifetime))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign JWT",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("signing_method", jwt.SigningMethodHS256.Name))
		return "", fmt.Errorf("failed to sign token with HMAC-SHA256: %w", err)
	}

	return signedToken, nil
}

// ValidateToken validates a JWT and returns the claims if valid.
func (s *hmacJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwtCustomClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("token validation failed: token expired")
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			log.Debug("token validation failed: token not yet valid")
			return nil, ErrTokenNotYetValid
		default:
			log.Debug("token validation failed",
				slog.String("error", err.Error()),
				slog.String("error_type", fmt.Sprintf("%T", err)))
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid || claims.UserID == uuid.Nil {
		log.Debug("token validation failed: invalid claims")
		return nil, ErrInvalidToken
	}

	out := &Claims{
		UserID:  claims.UserID,
		Subject: claims.Subject,
		ID:      claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
