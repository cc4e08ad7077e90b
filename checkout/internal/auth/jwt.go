package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer          = "w-convenience"
	tokenTypeMember = "MEMBER"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	MemberID  string `json:"member_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Signer issues and checks membership tokens with one HS256 secret.
type Signer struct {
	key []byte
	ttl time.Duration
}

// NewSigner validates the secret loaded at startup.
func NewSigner(secret string, ttl time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Signer{key: []byte(secret), ttl: ttl}, nil
}

// GenerateMemberToken creates a token proving membership for memberID.
func (s *Signer) GenerateMemberToken(memberID string) (string, error) {
	if memberID == "" {
		return "", errors.New("member id is required")
	}
	claims := &Claims{
		MemberID:  memberID,
		TokenType: tokenTypeMember,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   memberID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			Issuer:    issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.key)
}

// ValidateToken parses and verifies a membership token.
func (s *Signer) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != tokenTypeMember {
		return nil, fmt.Errorf("%w: wrong token type %q", ErrInvalidToken, claims.TokenType)
	}
	return claims, nil
}
