package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrTimeout  = errors.New("operation timed out")
)

type Adapter interface {
	FindAll(ctx context.Context, kind string) (map[string]any, error)
	FindRecord(ctx context.Context, kind string, id int64) (map[string]any, error)
	CreateRecord(ctx context.Context, kind string, payload map[string]any) (map[string]any, error)
	UpdateRecord(ctx context.Context, kind string, id int64, payload map[string]any) (map[string]any, error)
	DeleteRecord(ctx context.Context, kind string, id int64) error
}

type HTTPError struct {
	Method  string
	URL     string
	Status  int
	Code    string
	Message string
}

func (e *HTTPError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.Status, msg)
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}
