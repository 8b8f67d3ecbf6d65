// Package credentials implements the durable client-side credential store.
// Tokens and the cached user profile live in a small SQLite key-value table,
// so the session survives process restarts.
package credentials

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/client/models"
	"github.com/dmitrijs2005/authkeeper/internal/dbx"
)

// Storage keys. Each field lives under its own key, but writes that must be
// observed together go through one transaction.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyUser         = "user"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func get(ctx context.Context, db dbx.DBTX, key string) ([]byte, error) {
	var value []byte
	err := db.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credentials[%s]: %w", key, err)
	}
	return value, nil
}

func set(ctx context.Context, db dbx.DBTX, key string, value []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO credentials (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set credentials[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context) (models.Credentials, error) {
	var creds models.Credentials

	access, err := get(ctx, r.db, keyAccessToken)
	if err != nil {
		return creds, err
	}
	refresh, err := get(ctx, r.db, keyRefreshToken)
	if err != nil {
		return creds, err
	}
	userData, err := get(ctx, r.db, keyUser)
	if err != nil {
		return creds, err
	}

	creds.AccessToken = string(access)
	creds.RefreshToken = string(refresh)

	if len(userData) > 0 {
		if err := json.Unmarshal(userData, &creds.User); err != nil {
			return models.Credentials{}, fmt.Errorf("failed to decode cached user: %w", err)
		}
	}

	return creds, nil
}

func (r *SQLiteRepository) SetTokens(ctx context.Context, access, refresh string) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := set(ctx, tx, keyAccessToken, []byte(access)); err != nil {
			return err
		}
		return set(ctx, tx, keyRefreshToken, []byte(refresh))
	})
}

func (r *SQLiteRepository) SetSession(ctx context.Context, access, refresh string, user models.UserProfile) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := set(ctx, tx, keyAccessToken, []byte(access)); err != nil {
			return err
		}
		if err := set(ctx, tx, keyRefreshToken, []byte(refresh)); err != nil {
			return err
		}
		return set(ctx, tx, keyUser, data)
	})
}

func (r *SQLiteRepository) SetUser(ctx context.Context, user models.UserProfile) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	return set(ctx, r.db, keyUser, data)
}

// Clear removes every stored key in one statement, so a reader can never
// observe tokens gone but a stale user retained.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM credentials`)
	if err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}
