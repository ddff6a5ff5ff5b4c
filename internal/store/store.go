// Package store owns the mapping from user identifier to agent configuration.
package store

import (
	"context"
	"errors"

	"github.com/lexlabs/lexagent/internal/models"
)

var (
	// ErrNotFound is returned when an operation requires an existing
	// configuration and none is present.
	ErrNotFound = errors.New("configuration not found")

	// ErrAlreadyExists is returned by Create when the user already has an
	// active configuration.
	ErrAlreadyExists = errors.New("configuration already exists")
)

// Store is the exclusive owner of per-user agent configurations. Compound
// operations (GetOrCreate, Update) appear atomic to concurrent callers:
// a race on the same key never produces two creations, a lost update, or a
// resurrected record after delete. All returned configurations are
// independent value copies.
type Store interface {
	// Get returns the configuration for userID, or ErrNotFound.
	Get(ctx context.Context, userID string) (models.AgentConfig, error)

	// Create stores a new configuration. It forces cfg.UserID to userID and
	// stamps both timestamps. Returns ErrAlreadyExists on a duplicate key.
	Create(ctx context.Context, userID string, cfg models.AgentConfig) (models.AgentConfig, error)

	// Update merges only the set fields of upd into the existing record and
	// advances UpdatedAt even when no value changed. Returns ErrNotFound if
	// the user has no configuration.
	Update(ctx context.Context, userID string, upd models.AgentConfigUpdate) (models.AgentConfig, error)

	// Delete removes the configuration and reports whether one existed.
	Delete(ctx context.Context, userID string) (bool, error)

	// GetOrCreate returns the existing configuration or atomically creates
	// one populated with defaults. Exactly one creation is observable by
	// callers racing on the same key.
	GetOrCreate(ctx context.Context, userID string) (models.AgentConfig, error)

	// List returns an independent snapshot of all configurations.
	List(ctx context.Context) ([]models.AgentConfig, error)

	// Count returns the number of stored configurations.
	Count(ctx context.Context) (int, error)

	// Stats returns the derived summary for userID, or ErrNotFound.
	Stats(ctx context.Context, userID string) (models.ConfigStats, error)

	// LogUsage records a chat exchange for operator visibility.
	LogUsage(ctx context.Context, entry models.UsageLog) error

	// RecentUsage returns up to limit usage entries, newest first.
	RecentUsage(ctx context.Context, limit int) ([]models.UsageLog, error)

	Close() error
}
