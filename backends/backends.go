package backends

import (
	"errors"

	"github.com/botirk38/rankturbulence/backends/inmemory"
	"github.com/botirk38/rankturbulence/backends/remote"
	"github.com/botirk38/rankturbulence/types"
)

var ErrUnsupportedBackend = errors.New("unsupported backend type")

// BackendFactory creates snapshot backends based on type and configuration
type BackendFactory[E comparable] struct{}

// NewBackend creates a new snapshot backend of the specified type
func (f *BackendFactory[E]) NewBackend(backendType types.BackendType, config types.BackendConfig) (types.SnapshotBackend[E], error) {
	switch backendType {
	case types.BackendLRU:
		return NewLRUBackend[E](config)
	case types.BackendRedis:
		return NewRedisBackend[E](config)
	default:
		return nil, ErrUnsupportedBackend
	}
}

// NewLRUBackend creates a new LRU backend
func NewLRUBackend[E comparable](config types.BackendConfig) (types.SnapshotBackend[E], error) {
	return inmemory.NewLRUBackend[E](config.Capacity)
}

// NewRedisBackend creates a new Redis backend
func NewRedisBackend[E comparable](config types.BackendConfig) (types.SnapshotBackend[E], error) {
	return remote.NewRedisBackend[E](config)
}
