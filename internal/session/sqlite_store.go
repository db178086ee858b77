package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/chantier/internal/db"
	"github.com/alexanderramin/chantier/internal/domain"
)

// SQLiteStore persists one State row per profile.
type SQLiteStore struct {
	db      db.DBTX
	profile string
}

// NewSQLiteStore creates a SQLiteStore for the given profile.
func NewSQLiteStore(conn db.DBTX, profile string) *SQLiteStore {
	if profile == "" {
		profile = "default"
	}
	return &SQLiteStore{db: conn, profile: profile}
}

func (s *SQLiteStore) Load(ctx context.Context) (State, error) {
	query := `SELECT access_token, refresh_token, user_json, api_base_url FROM sessions WHERE profile = ?`
	var (
		st       State
		userJSON sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, s.profile).Scan(&st.AccessToken, &st.RefreshToken, &userJSON, &st.APIBaseURL)
	if errors.Is(err, sql.ErrNoRows) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("scanning session: %w", err)
	}
	if userJSON.Valid && userJSON.String != "" {
		var u domain.User
		if err := json.Unmarshal([]byte(userJSON.String), &u); err != nil {
			return State{}, fmt.Errorf("decoding session user: %w", err)
		}
		st.User = &u
	}
	return st, nil
}

func (s *SQLiteStore) Save(ctx context.Context, st State) error {
	var userJSON any
	if st.User != nil {
		data, err := json.Marshal(st.User)
		if err != nil {
			return fmt.Errorf("encoding session user: %w", err)
		}
		userJSON = string(data)
	}
	query := `INSERT INTO sessions (profile, access_token, refresh_token, user_json, api_base_url, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(profile) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			user_json = excluded.user_json,
			api_base_url = excluded.api_base_url,
			updated_at = excluded.updated_at`
	_, err := s.db.ExecContext(ctx, query,
		s.profile,
		st.AccessToken,
		st.RefreshToken,
		userJSON,
		st.APIBaseURL,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE profile = ?`, s.profile)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
