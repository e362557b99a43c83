package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Verification failures, distinguishable for callers inside the package
// boundary. The HTTP middleware collapses all of them into one rejection.
var (
	ErrTokenMalformed    = errors.New("token is malformed")
	ErrTokenBadSignature = errors.New("token signature is invalid")
	ErrTokenExpired      = errors.New("token is expired")
)

const tokenSubject = "expense-tracker"

// TokenManager issues and verifies stateless signed bearer tokens. The
// signing secret is fixed at construction for the process lifetime.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// Claims describes the JWT payload. UserID is the principal identifier and
// must round-trip exactly for the full int64 range.
type Claims struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}

// Issue builds and signs a token for the given user.
func (tm *TokenManager) Issue(userID int64) (string, time.Time, error) {
	expiresAt := time.Now().Add(tm.ttl)
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   tokenSubject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify validates the token string and returns the user id it carries.
// Failures map to ErrTokenMalformed, ErrTokenBadSignature or ErrTokenExpired.
func (tm *TokenManager) Verify(tokenStr string) (int64, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenBadSignature
		}
		return tm.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return 0, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return 0, ErrTokenBadSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return 0, ErrTokenMalformed
		default:
			return 0, ErrTokenMalformed
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return 0, ErrTokenMalformed
	}
	return claims.UserID, nil
}
