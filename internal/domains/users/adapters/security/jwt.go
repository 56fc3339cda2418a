package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Apurer/it-literature-shop/internal/domains/users/ports"
)

var (
	// ErrInvalidToken is returned for malformed, forged or wrongly signed tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("token has expired")
)

// DefaultTokenTTL matches the one day session length clients expect.
const DefaultTokenTTL = 24 * time.Hour

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// Claims carried by access tokens.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// JWTIssuer signs HS256 tokens.
type JWTIssuer struct {
	config JWTConfig
	now    func() time.Time
}

var _ ports.TokenIssuer = (*JWTIssuer)(nil)

// NewJWTIssuer validates config and returns an issuer.
func NewJWTIssuer(config JWTConfig) (*JWTIssuer, error) {
	if strings.TrimSpace(config.Secret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	if config.TTL <= 0 {
		config.TTL = DefaultTokenTTL
	}
	return &JWTIssuer{config: config, now: time.Now}, nil
}

func (i *JWTIssuer) Issue(userID string) (ports.Token, error) {
	now := i.now()
	expiresAt := now.Add(i.config.TTL)
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.config.Issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(i.config.Secret))
	if err != nil {
		return ports.Token{}, fmt.Errorf("sign token: %w", err)
	}
	return ports.Token{Value: signed, ExpiresAt: expiresAt}, nil
}

func (i *JWTIssuer) Verify(tokenString string) (string, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	}
	if i.config.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(i.config.Issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return []byte(i.config.Secret), nil
	}, parserOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
