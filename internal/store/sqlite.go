package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lexlabs/lexagent/internal/models"
)

// timeFormat keeps nanosecond precision so UpdatedAt advances between two
// mutations inside the same second.
const timeFormat = time.RFC3339Nano

// SQLiteStore persists configurations in a SQLite database. The mutex
// serializes compound read-then-write operations so they appear atomic to
// concurrent callers, matching the memory backend's guarantees.
type SQLiteStore struct {
	mu   sync.Mutex
	conn *sql.DB
}

// NewSQLite opens (or creates) the database at path and runs migrations.
func NewSQLite(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	conn.SetMaxOpenConns(2)

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{conn: conn}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS agent_configs (
			user_id             TEXT    PRIMARY KEY,
			specialization      TEXT    NOT NULL,
			tone                TEXT    NOT NULL,
			temperature         REAL    NOT NULL,
			model               TEXT    NOT NULL,
			max_tokens          INTEGER NOT NULL,
			custom_instructions TEXT    NOT NULL DEFAULT '',
			created_at          TEXT    NOT NULL,
			updated_at          TEXT    NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS usage_log (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id       TEXT    NOT NULL,
			model         TEXT    NOT NULL,
			tokens_used   INTEGER NOT NULL DEFAULT 0,
			duration_ms   INTEGER NOT NULL DEFAULT 0,
			error_message TEXT    NOT NULL DEFAULT '',
			created_at    TEXT    NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_usage_log_user_id ON usage_log(user_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.conn.Exec(stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, userID string) (models.AgentConfig, error) {
	row := s.conn.QueryRowContext(ctx, `
		SELECT user_id, specialization, tone, temperature, model, max_tokens,
		       custom_instructions, created_at, updated_at
		FROM agent_configs WHERE user_id = ?`, userID)
	return scanConfig(row)
}

func (s *SQLiteStore) Create(ctx context.Context, userID string, cfg models.AgentConfig) (models.AgentConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(ctx, userID, cfg)
}

func (s *SQLiteStore) createLocked(ctx context.Context, userID string, cfg models.AgentConfig) (models.AgentConfig, error) {
	if _, err := s.Get(ctx, userID); err == nil {
		return models.AgentConfig{}, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return models.AgentConfig{}, err
	}

	now := time.Now().UTC()
	cfg.UserID = userID
	cfg.CreatedAt = now
	cfg.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO agent_configs
			(user_id, specialization, tone, temperature, model, max_tokens,
			 custom_instructions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cfg.UserID, string(cfg.Specialization), string(cfg.Tone), cfg.Temperature,
		cfg.Model, cfg.MaxTokens, cfg.CustomInstructions,
		now.Format(timeFormat), now.Format(timeFormat))
	if err != nil {
		return models.AgentConfig{}, fmt.Errorf("insert config: %w", err)
	}
	return cfg, nil
}

func (s *SQLiteStore) Update(ctx context.Context, userID string, upd models.AgentConfigUpdate) (models.AgentConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.Get(ctx, userID)
	if err != nil {
		return models.AgentConfig{}, err
	}

	upd.Apply(&cfg)

	now := time.Now().UTC()
	if !now.After(cfg.UpdatedAt) {
		now = cfg.UpdatedAt.Add(time.Nanosecond)
	}
	cfg.UpdatedAt = now

	_, err = s.conn.ExecContext(ctx, `
		UPDATE agent_configs
		SET specialization = ?, tone = ?, temperature = ?, model = ?,
		    max_tokens = ?, custom_instructions = ?, updated_at = ?
		WHERE user_id = ?`,
		string(cfg.Specialization), string(cfg.Tone), cfg.Temperature, cfg.Model,
		cfg.MaxTokens, cfg.CustomInstructions, now.Format(timeFormat), userID)
	if err != nil {
		return models.AgentConfig{}, fmt.Errorf("update config: %w", err)
	}
	return cfg, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.conn.ExecContext(ctx, `DELETE FROM agent_configs WHERE user_id = ?`, userID)
	if err != nil {
		return false, fmt.Errorf("delete config: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLiteStore) GetOrCreate(ctx context.Context, userID string) (models.AgentConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.Get(ctx, userID)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return models.AgentConfig{}, err
	}
	return s.createLocked(ctx, userID, models.NewDefaultConfig(userID))
}

func (s *SQLiteStore) List(ctx context.Context) ([]models.AgentConfig, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT user_id, specialization, tone, temperature, model, max_tokens,
		       custom_instructions, created_at, updated_at
		FROM agent_configs ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list configs: %w", err)
	}
	defer rows.Close()

	var out []models.AgentConfig
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cfg)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM agent_configs`).Scan(&count)
	return count, err
}

func (s *SQLiteStore) Stats(ctx context.Context, userID string) (models.ConfigStats, error) {
	cfg, err := s.Get(ctx, userID)
	if err != nil {
		return models.ConfigStats{}, err
	}
	return cfg.Stats(), nil
}

func (s *SQLiteStore) LogUsage(ctx context.Context, entry models.UsageLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO usage_log (user_id, model, tokens_used, duration_ms, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.UserID, entry.Model, entry.TokensUsed, entry.DurationMs,
		entry.ErrorMessage, entry.CreatedAt.Format(timeFormat))
	return err
}

func (s *SQLiteStore) RecentUsage(ctx context.Context, limit int) ([]models.UsageLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, user_id, model, tokens_used, duration_ms, error_message, created_at
		FROM usage_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list usage: %w", err)
	}
	defer rows.Close()

	var out []models.UsageLog
	for rows.Next() {
		var entry models.UsageLog
		var createdAt string
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Model, &entry.TokensUsed,
			&entry.DurationMs, &entry.ErrorMessage, &createdAt); err != nil {
			return nil, err
		}
		if entry.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConfig(row rowScanner) (models.AgentConfig, error) {
	var cfg models.AgentConfig
	var spec, tone, createdAt, updatedAt string
	err := row.Scan(&cfg.UserID, &spec, &tone, &cfg.Temperature, &cfg.Model,
		&cfg.MaxTokens, &cfg.CustomInstructions, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.AgentConfig{}, ErrNotFound
	}
	if err != nil {
		return models.AgentConfig{}, fmt.Errorf("scan config: %w", err)
	}
	cfg.Specialization = models.Specialization(spec)
	cfg.Tone = models.Tone(tone)
	if cfg.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return models.AgentConfig{}, fmt.Errorf("parse created_at: %w", err)
	}
	if cfg.UpdatedAt, err = time.Parse(timeFormat, updatedAt); err != nil {
		return models.AgentConfig{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return cfg, nil
}
