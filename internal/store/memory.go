package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lexlabs/lexagent/internal/models"
)

// maxUsageEntries bounds the in-memory usage log.
const maxUsageEntries = 1000

// MemoryStore keeps configurations in a mutex-guarded map. Contents do not
// survive a process restart. Compound operations run under the write lock so
// check-then-act steps are atomic; plain reads take the read lock and return
// value copies.
type MemoryStore struct {
	mu      sync.RWMutex
	configs map[string]models.AgentConfig
	usage   []models.UsageLog
	nextID  int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		configs: make(map[string]models.AgentConfig),
		nextID:  1,
	}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (models.AgentConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, ok := s.configs[userID]
	if !ok {
		return models.AgentConfig{}, ErrNotFound
	}
	return cfg, nil
}

func (s *MemoryStore) Create(_ context.Context, userID string, cfg models.AgentConfig) (models.AgentConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(userID, cfg)
}

// createLocked inserts a record. Callers must hold the write lock.
func (s *MemoryStore) createLocked(userID string, cfg models.AgentConfig) (models.AgentConfig, error) {
	if _, ok := s.configs[userID]; ok {
		return models.AgentConfig{}, ErrAlreadyExists
	}

	now := time.Now().UTC()
	cfg.UserID = userID
	cfg.CreatedAt = now
	cfg.UpdatedAt = now
	s.configs[userID] = cfg
	return cfg, nil
}

func (s *MemoryStore) Update(_ context.Context, userID string, upd models.AgentConfigUpdate) (models.AgentConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, ok := s.configs[userID]
	if !ok {
		return models.AgentConfig{}, ErrNotFound
	}

	upd.Apply(&cfg)

	// UpdatedAt must advance even when the wall clock has not ticked
	// between two mutations of the same record.
	now := time.Now().UTC()
	if !now.After(cfg.UpdatedAt) {
		now = cfg.UpdatedAt.Add(time.Nanosecond)
	}
	cfg.UpdatedAt = now

	s.configs[userID] = cfg
	return cfg, nil
}

func (s *MemoryStore) Delete(_ context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.configs[userID]; !ok {
		return false, nil
	}
	delete(s.configs, userID)
	return true, nil
}

func (s *MemoryStore) GetOrCreate(_ context.Context, userID string) (models.AgentConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cfg, ok := s.configs[userID]; ok {
		return cfg, nil
	}
	return s.createLocked(userID, models.NewDefaultConfig(userID))
}

func (s *MemoryStore) List(_ context.Context) ([]models.AgentConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.AgentConfig, 0, len(s.configs))
	for _, cfg := range s.configs {
		out = append(out, cfg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.configs), nil
}

func (s *MemoryStore) Stats(ctx context.Context, userID string) (models.ConfigStats, error) {
	cfg, err := s.Get(ctx, userID)
	if err != nil {
		return models.ConfigStats{}, err
	}
	return cfg.Stats(), nil
}

func (s *MemoryStore) LogUsage(_ context.Context, entry models.UsageLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ID = s.nextID
	s.nextID++
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	s.usage = append(s.usage, entry)
	if len(s.usage) > maxUsageEntries {
		s.usage = s.usage[len(s.usage)-maxUsageEntries:]
	}
	return nil
}

func (s *MemoryStore) RecentUsage(_ context.Context, limit int) ([]models.UsageLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.usage) {
		limit = len(s.usage)
	}

	out := make([]models.UsageLog, 0, limit)
	for i := len(s.usage) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.usage[i])
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
