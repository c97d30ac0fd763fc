// filepath: internal/services/key_service.go
package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"aiopro/internal/config"
	"aiopro/internal/logging"
	"aiopro/internal/models"
	"aiopro/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// keyPrefix marks issued keys on the wire: aio_<id>_<secret>.
const keyPrefix = "aio_"

var _ KeyService = (*keyService)(nil)

type keyService struct {
	Repo    repository.Store
	Cfg     *config.Config
	Auditor Auditor
}

// NewKeyService creates a new KeyService.
func NewKeyService(repo repository.Store, cfg *config.Config, auditor Auditor) *keyService {
	return &keyService{Repo: repo, Cfg: cfg, Auditor: auditor}
}

// CreateKey issues a new API key. The plaintext is returned exactly once;
// only a bcrypt hash of the secret part is stored.
func (s *keyService) CreateKey(ctx context.Context, actor string, name string, admin bool) (*models.APIKey, string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 64 {
		return nil, "", fmt.Errorf("%w: key name must be 1-64 characters", ErrValidation)
	}

	secretBytes := make([]byte, 16)
	if _, err := rand.Read(secretBytes); err != nil {
		return nil, "", fmt.Errorf("failed to generate key secret: %w", err)
	}
	secret := hex.EncodeToString(secretBytes)

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash key secret: %w", err)
	}

	id := repository.NewID()
	plaintext := keyPrefix + id + "_" + secret
	key := &models.APIKey{
		ID:         id,
		Name:       name,
		Prefix:     plaintext[:12], // enough to recognize the key in listings
		SecretHash: string(hash),
		IsAdmin:    admin,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Repo.CreateKey(key); err != nil {
		return nil, "", fmt.Errorf("failed to store api key: %w", err)
	}

	s.Auditor.Log(ctx, "key.create", actor, key.ID, map[string]interface{}{
		"name":  key.Name,
		"admin": key.IsAdmin,
	})
	logging.Log.Infof("KeyService: issued key %s (%s)", key.ID, key.Name)
	return key, plaintext, nil
}

// Authenticate resolves a presented plaintext key to an identity.
// The configured master API_KEY authenticates as an implicit admin.
func (s *keyService) Authenticate(ctx context.Context, plaintext string) (*models.KeyIdentity, error) {
	if s.Cfg.MasterAPIKey != "" &&
		subtle.ConstantTimeCompare([]byte(plaintext), []byte(s.Cfg.MasterAPIKey)) == 1 {
		return &models.KeyIdentity{ID: "master", Name: "master", Admin: true}, nil
	}

	if !strings.HasPrefix(plaintext, keyPrefix) {
		return nil, ErrUnauthorized
	}
	parts := strings.SplitN(plaintext, "_", 3)
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return nil, ErrUnauthorized
	}
	id, secret := parts[1], parts[2]

	key, err := s.Repo.GetKey(id)
	if err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			s.Auditor.Log(ctx, "key.authenticate", id, "", map[string]interface{}{"result": "unknown key"})
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if key.Revoked {
		s.Auditor.Log(ctx, "key.authenticate", key.Name, key.ID, map[string]interface{}{"result": "revoked"})
		return nil, ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(key.SecretHash), []byte(secret)); err != nil {
		s.Auditor.Log(ctx, "key.authenticate", key.Name, key.ID, map[string]interface{}{"result": "bad secret"})
		return nil, ErrUnauthorized
	}

	// Best effort; a failed timestamp update must not block the request.
	if err := s.Repo.TouchKey(key.ID, time.Now().UTC()); err != nil {
		logging.Log.Warnf("KeyService: failed to update last_used_at for %s: %v", key.ID, err)
	}

	return &models.KeyIdentity{ID: key.ID, Name: key.Name, Admin: key.IsAdmin}, nil
}

// RevokeKey disables a key. The record is kept for audit history.
func (s *keyService) RevokeKey(ctx context.Context, actor string, id string) error {
	if err := s.Repo.RevokeKey(id); err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.Auditor.Log(ctx, "key.revoke", actor, id, nil)
	logging.Log.Infof("KeyService: key %s revoked", id)
	return nil
}

// GetKeys lists all issued keys.
func (s *keyService) GetKeys() ([]models.APIKey, error) {
	return s.Repo.GetKeys()
}
