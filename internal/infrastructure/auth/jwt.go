package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fitpass-app/fitpass/internal/shared/biztime"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are carried by both token types. Subject holds the user ID.
type Claims struct {
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	SessionID string    `json:"session_id"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// UserID returns the subject.
func (c *Claims) UserID() string { return c.Subject }

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	ExpiresAt    time.Time
}

// Identity is who a token pair is issued for.
type Identity struct {
	UserID    string
	Email     string
	Role      string
	SessionID string
}

type JWTService struct {
	secret           []byte
	accessExpMinutes int
	refreshExpDays   int
	now              func() time.Time
}

func NewJWTService(secret string, accessExpMinutes, refreshExpDays int) *JWTService {
	if accessExpMinutes <= 0 {
		accessExpMinutes = 60
	}
	if refreshExpDays <= 0 {
		refreshExpDays = 30
	}
	return &JWTService{
		secret:           []byte(secret),
		accessExpMinutes: accessExpMinutes,
		refreshExpDays:   refreshExpDays,
		now:              biztime.NowUTC,
	}
}

func (s *JWTService) sign(id Identity, typ TokenType, now, exp time.Time) (string, error) {
	claims := &Claims{
		Email:     id.Email,
		Role:      id.Role,
		SessionID: id.SessionID,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	// jti keeps two tokens minted in the same second distinct
	if typ == TokenTypeRefresh {
		claims.ID = fmt.Sprintf("%s.%d", id.SessionID, now.UnixNano())
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Generate issues an access token and a refresh token for id.
func (s *JWTService) Generate(id Identity) (*TokenPair, error) {
	now := s.now()

	accessExp := now.Add(s.AccessTTL())
	access, err := s.sign(id, TokenTypeAccess, now, accessExp)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := s.sign(id, TokenTypeRefresh, now, now.Add(s.RefreshTTL()))
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.AccessTTL().Seconds()),
		ExpiresAt:    accessExp,
	}, nil
}

func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.Subject != "" {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// VerifyAccess accepts only access tokens.
func (s *JWTService) VerifyAccess(tokenString string) (*Claims, error) {
	return s.verifyType(tokenString, TokenTypeAccess)
}

// VerifyRefresh accepts only refresh tokens.
func (s *JWTService) VerifyRefresh(tokenString string) (*Claims, error) {
	return s.verifyType(tokenString, TokenTypeRefresh)
}

func (s *JWTService) verifyType(tokenString string, typ TokenType) (*Claims, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != typ {
		return nil, fmt.Errorf("%w: not a %s token", ErrInvalidToken, typ)
	}
	return claims, nil
}

func (s *JWTService) AccessTTL() time.Duration {
	return time.Duration(s.accessExpMinutes) * time.Minute
}

func (s *JWTService) RefreshTTL() time.Duration {
	return time.Duration(s.refreshExpDays) * 24 * time.Hour
}
