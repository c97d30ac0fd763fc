// filepath: internal/repository/key_repo.go
package repository

import (
	"database/sql"
	"time"

	"aiopro/internal/models"
)

// ErrKeyNotFound is returned when an API key ID does not exist.
const ErrKeyNotFound = Error("api key not found")

// CreateKey stores the metadata and secret hash of a freshly issued key.
func (s *Repository) CreateKey(key *models.APIKey) error {
	query := `
		INSERT INTO api_keys (id, name, prefix, secret_hash, is_admin, revoked, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?);
	`
	_, err := s.DB.Exec(query,
		key.ID, key.Name, key.Prefix, key.SecretHash,
		key.IsAdmin, key.Revoked, key.CreatedAt.UTC(),
	)
	return err
}

// GetKey retrieves a key record by its ID.
func (s *Repository) GetKey(id string) (*models.APIKey, error) {
	query := `
		SELECT id, name, prefix, secret_hash, is_admin, revoked, created_at, last_used_at
		FROM api_keys WHERE id = ?
	`
	row := s.DB.QueryRow(query, id)
	return scanKey(row)
}

// GetKeys lists all keys, newest first.
func (s *Repository) GetKeys() ([]models.APIKey, error) {
	query := `
		SELECT id, name, prefix, secret_hash, is_admin, revoked, created_at, last_used_at
		FROM api_keys ORDER BY created_at DESC
	`
	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make([]models.APIKey, 0)
	for rows.Next() {
		key, err := scanKey(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, *key)
	}
	return keys, rows.Err()
}

// RevokeKey marks a key as revoked. Revoked keys are kept for audit history.
func (s *Repository) RevokeKey(id string) error {
	res, err := s.DB.Exec("UPDATE api_keys SET revoked = 1 WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrKeyNotFound
	}
	return nil
}

// TouchKey records the last successful authentication time.
func (s *Repository) TouchKey(id string, usedAt time.Time) error {
	_, err := s.DB.Exec("UPDATE api_keys SET last_used_at = ? WHERE id = ?", usedAt.UTC(), id)
	return err
}

// scanner abstracts sql.Row and sql.Rows for scanKey.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanKey(row scanner) (*models.APIKey, error) {
	var key models.APIKey
	var lastUsed sql.NullTime
	err := row.Scan(
		&key.ID, &key.Name, &key.Prefix, &key.SecretHash,
		&key.IsAdmin, &key.Revoked, &key.CreatedAt, &lastUsed,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	if lastUsed.Valid {
		t := lastUsed.Time
		key.LastUsedAt = &t
	}
	return &key, nil
}
