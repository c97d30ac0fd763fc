// filepath: internal/services/auth/interfaces.go
package auth

import "aiopro/internal/models"

// TokenService defines the contract for JWT operations. Access tokens are
// short-lived and exchanged for an API key at POST /api/token.
type TokenService interface {
	IssueToken(identity *models.KeyIdentity) (token string, expiresIn int64, err error)
	ValidateToken(tokenString string) (*models.KeyIdentity, error)
}
