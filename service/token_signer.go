package service

import (
	"errors"
	"fmt"
	"go-project-api/logger"
	"go-project-api/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired   = errors.New("access token expired")
	ErrTokenMalformed = errors.New("access token malformed")
	ErrTokenInvalid   = errors.New("access token invalid")
)

// ITokenSigner issues and verifies stateless access tokens.
type ITokenSigner interface {
	Issue(user *model.User) (string, error)
	Verify(tokenString string) (*model.AppClaims, error)
}

// TokenSigner signs HS256 JWTs with a process-wide symmetric key. The key is
// injected once at startup; verification is a pure function of token, key and
// current time.
type TokenSigner struct {
	key []byte
	ttl time.Duration
}

func NewTokenSigner(secretKey string, ttl time.Duration) *TokenSigner {
	return &TokenSigner{key: []byte(secretKey), ttl: ttl}
}

// Issue creates a signed access token with the user's email as subject and
// the tenant claim when the user belongs to a company.
func (s *TokenSigner) Issue(user *model.User) (string, error) {
	var companyID *int64
	if user.CompanyID.Valid {
		id := user.CompanyID.Int64
		companyID = &id
	}

	now := time.Now()
	claims := &model.AppClaims{
		UserID:    user.ID,
		CompanyID: companyID,
		Roles:     user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.key)
	if err != nil {
		logger.Log.WithError(err).WithField("email", user.Email).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}

	return tokenString, nil
}

// Verify parses and validates a token, translating library failures into the
// package's typed errors. Claims are only trusted when the signature matches
// and the token has not expired.
func (s *TokenSigner) Verify(tokenString string) (*model.AppClaims, error) {
	claims := &model.AppClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.key, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, ErrTokenInvalid
		}
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
