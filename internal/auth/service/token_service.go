package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/belij2111/blogger-auth-service/internal/auth/service TokenGenerator

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenGenerator interface {
	GenerateAccessToken(userID string) (string, error)
	GenerateRefreshToken(userID, deviceID string, issuedAt time.Time) (token string, expiresAt time.Time, err error)
	VerifyAccessToken(tokenString string) (*AccessClaims, error)
	VerifyRefreshToken(tokenString string) (*RefreshClaims, error)
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
}

type TokenService struct {
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type AccessClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// RefreshClaims carries the session triple. IssuedAt (inherited via
// RegisteredClaims) doubles as the session version checked on rotation.
type RefreshClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	DeviceID string `json:"device_id"`
}

func NewTokenService(accessSecret, refreshSecret string, accessMinutes, refreshMinutes int) *TokenService {
	return &TokenService{
		AccessTokenSecret:  accessSecret,
		RefreshTokenSecret: refreshSecret,
		AccessTokenExpiry:  time.Duration(accessMinutes) * time.Minute,
		RefreshTokenExpiry: time.Duration(refreshMinutes) * time.Minute,
	}
}

func (ts *TokenService) GenerateAccessToken(userID string) (string, error) {
	now := time.Now()

	claims := AccessClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ts.AccessTokenSecret))
}

// GenerateRefreshToken mints a refresh token whose iat is the caller-supplied
// issuedAt, so the session row and the token agree to the second.
func (ts *TokenService) GenerateRefreshToken(userID, deviceID string, issuedAt time.Time) (string, time.Time, error) {
	expiresAt := issuedAt.Add(ts.RefreshTokenExpiry)

	claims := RefreshClaims{
		UserID:   userID,
		DeviceID: deviceID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ts.RefreshTokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

func (ts *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := ts.verify(tokenString, claims, ts.AccessTokenSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (ts *TokenService) VerifyRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := ts.verify(tokenString, claims, ts.RefreshTokenSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (ts *TokenService) verify(tokenString string, claims jwt.Claims, secret string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return fmt.Errorf("invalid token")
	}
	return nil
}

func (ts *TokenService) GetAccessTokenExpiry() time.Duration {
	return ts.AccessTokenExpiry
}

func (ts *TokenService) GetRefreshTokenExpiry() time.Duration {
	return ts.RefreshTokenExpiry
}
