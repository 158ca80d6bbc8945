package service

import (
	"database/sql"
	"fmt"
	"strings"
)

func SetSessionValue(db *sql.DB, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: session key is required", ErrInvalidInput)
	}
	_, err := db.Exec(`
INSERT INTO app_session(key, value, updated_at)
VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
`, key, value)
	if err != nil {
		return fmt.Errorf("set session %q: %w", key, err)
	}
	return nil
}

func GetSessionValue(db *sql.DB, key string) (string, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false, fmt.Errorf("%w: session key is required", ErrInvalidInput)
	}
	var value string
	err := db.QueryRow(`SELECT value FROM app_session WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get session %q: %w", key, err)
	}
	return value, true, nil
}

func DeleteSessionValue(db *sql.DB, key string) error {
	if _, err := db.Exec(`DELETE FROM app_session WHERE key = ?`, strings.TrimSpace(key)); err != nil {
		return fmt.Errorf("delete session %q: %w", key, err)
	}
	return nil
}

func ListSession(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query(`SELECT key, value FROM app_session ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("list session: %w", err)
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session: %w", err)
	}
	return out, nil
}
