package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/prikhi/bodyweight-client/internal/serializer"
)

const defaultBaseURL = "http://localhost:8080"

// RESTAdapter talks to the bodyweight API: one path per model kind
// (/exercises, /sectionExercises, ...) with standard CRUD verbs.
type RESTAdapter struct {
	BaseURL    string
	Namespace  string
	Token      string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	Logger     *zap.Logger
}

func (a *RESTAdapter) PathForType(kind string) string {
	return serializer.PluralKey(kind)
}

func (a *RESTAdapter) URLFor(kind string, id int64) string {
	base := strings.TrimRight(strings.TrimSpace(a.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	parts := []string{base}
	if ns := strings.Trim(strings.TrimSpace(a.Namespace), "/"); ns != "" {
		parts = append(parts, ns)
	}
	parts = append(parts, a.PathForType(kind))
	if id > 0 {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, "/")
}

func (a *RESTAdapter) FindAll(ctx context.Context, kind string) (map[string]any, error) {
	return a.do(ctx, http.MethodGet, a.URLFor(kind, 0), nil)
}

func (a *RESTAdapter) FindRecord(ctx context.Context, kind string, id int64) (map[string]any, error) {
	return a.do(ctx, http.MethodGet, a.URLFor(kind, id), nil)
}

func (a *RESTAdapter) CreateRecord(ctx context.Context, kind string, payload map[string]any) (map[string]any, error) {
	return a.do(ctx, http.MethodPost, a.URLFor(kind, 0), payload)
}

func (a *RESTAdapter) UpdateRecord(ctx context.Context, kind string, id int64, payload map[string]any) (map[string]any, error) {
	return a.do(ctx, http.MethodPut, a.URLFor(kind, id), payload)
}

func (a *RESTAdapter) DeleteRecord(ctx context.Context, kind string, id int64) error {
	_, err := a.do(ctx, http.MethodDelete, a.URLFor(kind, id), nil)
	return err
}

func (a *RESTAdapter) do(ctx context.Context, method, url string, payload map[string]any) (map[string]any, error) {
	logger := a.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if a.Limiter != nil {
		if err := a.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for request slot: %w", err)
		}
	}
	httpClient := a.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.Token != "" {
		req.Header.Set("Authorization", "Token "+a.Token)
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	logger.Debug("api request",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		herr := &HTTPError{Method: method, URL: url, Status: resp.StatusCode}
		var apiErr struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.Unmarshal(raw, &apiErr) == nil {
			herr.Message = apiErr.Error
			herr.Code = apiErr.Code
		}
		return nil, herr
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}
