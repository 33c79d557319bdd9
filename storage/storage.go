// Package storage provides the durable key-value collaborator shared by all
// monitoring contexts. The storage layer serializes concurrent writers
// itself; callers must tolerate last-write-wins semantics.
package storage

import (
	"context"
	"errors"
)

// Well-known keys in the shared store.
const (
	// KeyConfig holds the runtime monitoring configuration.
	KeyConfig = "config"
	// KeyPromptLogs holds the bounded scan log collection.
	KeyPromptLogs = "prompt-logs-v1"
	// KeyAuthUser holds the authentication token record.
	KeyAuthUser = "authUser"
)

// ErrNotFound is returned by Get when no value exists for a key.
var ErrNotFound = errors.New("storage: key not found")

// Store is the key-value storage collaborator. Values are opaque byte
// sequences, typically JSON.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes the value for key, replacing any existing value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the value for key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns all keys currently present.
	Keys(ctx context.Context) ([]string, error)

	// Close releases the underlying resources.
	Close() error
}

// AuthUser is the externally owned authentication record stored under
// KeyAuthUser. Only its gating effect is consumed here.
type AuthUser struct {
	Token string `json:"token"`
}
