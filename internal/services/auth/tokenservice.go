// filepath: internal/services/auth/tokenservice.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"aiopro/internal/config"
	"aiopro/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// accessClaims defines the custom claims for our short-lived access token.
// The key ID travels in the 'sub' claim.
type accessClaims struct {
	Name  string `json:"name"`
	Admin bool   `json:"adm"`
	jwt.RegisteredClaims
}

// Compile-time check to ensure tokenService implements the TokenService interface.
var _ TokenService = (*tokenService)(nil)

// tokenService implements the TokenService interface.
type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates a new instance of the tokenService.
func NewTokenService(cfg *config.Config) TokenService {
	return &tokenService{cfg: cfg}
}

// IssueToken creates and signs a short-lived access token for a key identity.
func (s *tokenService) IssueToken(identity *models.KeyIdentity) (string, int64, error) {
	duration := time.Minute * time.Duration(s.cfg.JWT.AccessDurationMin)
	expiry := time.Now().Add(duration)
	claims := &accessClaims{
		Name:  identity.Name,
		Admin: identity.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "aiopro",
			Subject:   identity.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, int64(duration.Seconds()), nil
}

// ValidateToken checks an access token (stateless). It verifies the
// signature and expiry, then returns the embedded key identity.
func (s *tokenService) ValidateToken(tokenString string) (*models.KeyIdentity, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err // Handles expired tokens as well
	}
	if !token.Valid {
		return nil, errors.New("invalid access token")
	}

	return &models.KeyIdentity{
		ID:    claims.Subject,
		Name:  claims.Name,
		Admin: claims.Admin,
	}, nil
}
