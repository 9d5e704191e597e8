package cache

import (
	"encoding/json"
	"fmt"

	"github.com/llehouerou/calliope/internal/logging"
)

// Store is the part of a cache Memo needs.
type Store interface {
	Lookup(key string) (bool, any, error)
	Store(key string, value any) error
}

// Memo returns the value stored under key, or calls fetch and stores its
// result. A nil result is stored too and means "not found".
func Memo[T any](s Store, key string, fetch func() (*T, error)) (*T, error) {
	found, raw, err := s.Lookup(key)
	if err != nil {
		return nil, err
	}
	if found {
		logging.Debug("cache: found %s", key)
		if raw == nil {
			return nil, nil
		}
		return decode[T](raw)
	}

	logging.Debug("cache: didn't find %s, running remote query", key)
	value, err := fetch()
	if err != nil {
		return nil, err
	}
	var stored any
	if value != nil {
		stored = *value
	}
	if err := s.Store(key, stored); err != nil {
		return nil, err
	}
	return value, nil
}

// decode converts a JSON value read back from a cache into T.
func decode[T any](raw any) (*T, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode cached value: %w", err)
	}
	return &v, nil
}
