package session

import (
	"database/sql"

	"github.com/prikhi/bodyweight-client/internal/service"
)

type SQLiteKV struct {
	DB *sql.DB
}

func (s SQLiteKV) Get(key string) (string, bool, error) {
	return service.GetSessionValue(s.DB, key)
}

func (s SQLiteKV) Set(key, value string) error {
	return service.SetSessionValue(s.DB, key, value)
}

func (s SQLiteKV) Delete(key string) error {
	return service.DeleteSessionValue(s.DB, key)
}
