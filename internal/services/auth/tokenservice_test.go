// filepath: internal/services/auth/tokenservice_test.go
package auth

import (
	"testing"

	"aiopro/internal/config"
	"aiopro/internal/models"

	"github.com/stretchr/testify/assert"
)

func testTokenConfig(secret string) *config.Config {
	return &config.Config{
		JWT:       config.JWTConfig{AccessDurationMin: 15},
		JWTSecret: secret,
	}
}

func TestIssueAndValidateToken(t *testing.T) {
	svc := NewTokenService(testTokenConfig("test-secret"))
	identity := &models.KeyIdentity{ID: "01TESTKEY", Name: "gpt-action", Admin: true}

	token, expiresIn, err := svc.IssueToken(identity)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, int64(15*60), expiresIn)

	got, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, identity.ID, got.ID)
	assert.Equal(t, identity.Name, got.Name)
	assert.True(t, got.Admin)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuer := NewTokenService(testTokenConfig("secret-one"))
	validator := NewTokenService(testTokenConfig("secret-two"))

	token, _, err := issuer.IssueToken(&models.KeyIdentity{ID: "k", Name: "n"})
	assert.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := NewTokenService(testTokenConfig("test-secret"))

	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)

	_, err = svc.ValidateToken("")
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	cfg := testTokenConfig("test-secret")
	cfg.JWT.AccessDurationMin = -1 // issue an already-expired token
	svc := NewTokenService(cfg)

	token, _, err := svc.IssueToken(&models.KeyIdentity{ID: "k", Name: "n"})
	assert.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestGenerateSecret(t *testing.T) {
	a, err := GenerateSecret()
	assert.NoError(t, err)
	b, err := GenerateSecret()
	assert.NoError(t, err)

	assert.Len(t, a, 64) // 32 random bytes, hex encoded
	assert.NotEqual(t, a, b)
}
