// Package session persists the auth token pair the client is started with.
package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const (
	KeyAuthToken  = "authToken"
	KeyAuthUserID = "authUserId"
)

var ErrBadUserID = errors.New("auth user id is not an integer")

type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Flags are read once at process start and handed to the client.
type Flags struct {
	AuthToken  string
	AuthUserID int64
}

func (f Flags) Authenticated() bool {
	return f.AuthToken != "" && f.AuthUserID > 0
}

type Bridge struct {
	kv     KV
	logger *zap.Logger
}

func NewBridge(kv KV, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{kv: kv, logger: logger}
}

// Login stores both keys. A failure writing the user id removes the token
// again so the pair is never half set.
func (b *Bridge) Login(token string, userID int64) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("login: token is required")
	}
	if userID <= 0 {
		return fmt.Errorf("login: user id must be > 0")
	}
	if err := b.kv.Set(KeyAuthToken, token); err != nil {
		return fmt.Errorf("store %s: %w", KeyAuthToken, err)
	}
	if err := b.kv.Set(KeyAuthUserID, strconv.FormatInt(userID, 10)); err != nil {
		_ = b.kv.Delete(KeyAuthToken)
		return fmt.Errorf("store %s: %w", KeyAuthUserID, err)
	}
	b.logger.Info("session stored", zap.Int64("user_id", userID))
	return nil
}

func (b *Bridge) Logout() error {
	var errs []error
	for _, key := range []string{KeyAuthToken, KeyAuthUserID} {
		if err := b.kv.Delete(key); err != nil {
			errs = append(errs, fmt.Errorf("clear %s: %w", key, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	b.logger.Info("session cleared")
	return nil
}

// Load reads the pair. Missing keys produce zero flags; a user id that does
// not parse as an integer is reported and treated as logged out.
func (b *Bridge) Load() (Flags, error) {
	token, _, err := b.kv.Get(KeyAuthToken)
	if err != nil {
		return Flags{}, fmt.Errorf("read %s: %w", KeyAuthToken, err)
	}
	rawID, ok, err := b.kv.Get(KeyAuthUserID)
	if err != nil {
		return Flags{}, fmt.Errorf("read %s: %w", KeyAuthUserID, err)
	}
	flags := Flags{AuthToken: token}
	if !ok || strings.TrimSpace(rawID) == "" {
		return flags, nil
	}
	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil {
		return Flags{}, fmt.Errorf("%w: %q", ErrBadUserID, rawID)
	}
	flags.AuthUserID = id
	return flags, nil
}

func Init(kv KV, logger *zap.Logger) (Flags, error) {
	b := NewBridge(kv, logger)
	flags, err := b.Load()
	if err != nil {
		b.logger.Warn("ignoring stored session", zap.Error(err))
		return Flags{}, err
	}
	b.logger.Debug("session loaded", zap.Bool("authenticated", flags.Authenticated()))
	return flags, nil
}

type MemoryKV struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: map[string]string{}}
}

func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
