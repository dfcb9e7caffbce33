package utils

import (
	"errors"
	"math/rand"
	"time"

	"github.com/dgrijalva/jwt-go"
)

var (
	// ErrTokenExpired means the envelope was authentic but older than the
	// configured max age. Callers clear the stored token on this error so a
	// later issuance starts clean.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid covers a bad signature, a malformed envelope, or a
	// missing claim.
	ErrTokenInvalid = errors.New("invalid token")
)

// TimestampSigner produces and verifies the opaque reset-password envelope:
// an HMAC-signed claim set {token, email, iat}. Freshness is checked at
// verification time against the embedded issue timestamp, so no separate
// expiry column is needed.
type TimestampSigner struct {
	secret []byte
	maxAge time.Duration
}

func NewTimestampSigner(secret string, maxAge time.Duration) *TimestampSigner {
	return &TimestampSigner{secret: []byte(secret), maxAge: maxAge}
}

// GenerateOTP returns a uniformly random six digit code.
func GenerateOTP() int {
	return rand.Intn(900000) + 100000
}

func (s *TimestampSigner) Sign(otp int, email string) (string, error) {
	claims := jwt.MapClaims{
		"token": otp,
		"email": email,
		"iat":   time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Unsign verifies the envelope and returns the embedded OTP and email.
// It fails with ErrTokenExpired when the envelope is older than maxAge and
// ErrTokenInvalid for every other defect.
func (s *TimestampSigner) Unsign(envelope string) (int, string, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(envelope, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, "", ErrTokenInvalid
	}

	issuedAt, ok := claims["iat"].(float64)
	if !ok {
		return 0, "", ErrTokenInvalid
	}
	if time.Since(time.Unix(int64(issuedAt), 0)) > s.maxAge {
		return 0, "", ErrTokenExpired
	}

	otp, ok := claims["token"].(float64)
	if !ok {
		return 0, "", ErrTokenInvalid
	}
	email, ok := claims["email"].(string)
	if !ok {
		return 0, "", ErrTokenInvalid
	}

	return int(otp), email, nil
}
