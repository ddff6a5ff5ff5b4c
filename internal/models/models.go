package models

import "time"

// Defaults applied when a configuration is provisioned lazily or a create
// request leaves fields unset.
const (
	DefaultModel       = "openai-gpt-oss-120b"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 32000

	// MaxTokensLimit is the upper bound accepted for max_tokens.
	MaxTokensLimit = 32000
)

// AgentConfig is the per-user agent configuration. It is passed and stored by
// value so that snapshots embedded in responses are immune to later mutation
// of the store.
type AgentConfig struct {
	UserID             string         `json:"user_id"`
	Specialization     Specialization `json:"specialization"`
	Tone               Tone           `json:"tone"`
	Temperature        float64        `json:"temperature"`
	Model              string         `json:"model"`
	MaxTokens          int            `json:"max_tokens"`
	CustomInstructions string         `json:"custom_instructions,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// AgentConfigUpdate is a partial update. Nil fields are left untouched.
type AgentConfigUpdate struct {
	Specialization     *Specialization `json:"specialization,omitempty"`
	Tone               *Tone           `json:"tone,omitempty"`
	Temperature        *float64        `json:"temperature,omitempty"`
	Model              *string         `json:"model,omitempty"`
	MaxTokens          *int            `json:"max_tokens,omitempty"`
	CustomInstructions *string         `json:"custom_instructions,omitempty"`
}

// AgentResponse is the caller-facing result of one chat exchange. UserConfig
// is a value copy of the configuration at the moment the call was served.
type AgentResponse struct {
	Response       string      `json:"response"`
	ModelUsed      string      `json:"model_used"`
	TokensUsed     int         `json:"tokens_used"`
	ProcessingTime float64     `json:"processing_time"`
	UserConfig     AgentConfig `json:"user_config"`
}

// ConfigStats is a derived summary of a stored configuration.
type ConfigStats struct {
	UserID                string    `json:"user_id"`
	Specialization        string    `json:"specialization"`
	Tone                  string    `json:"tone"`
	Temperature           float64   `json:"temperature"`
	Model                 string    `json:"model"`
	MaxTokens             int       `json:"max_tokens"`
	HasCustomInstructions bool      `json:"has_custom_instructions"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// UsageLog records one chat exchange for operator visibility.
type UsageLog struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"user_id"`
	Model        string    `json:"model"`
	TokensUsed   int       `json:"tokens_used"`
	DurationMs   int64     `json:"duration_ms"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// SearchResult is one entry returned by the mocked document search.
type SearchResult struct {
	Title          string  `json:"title"`
	Content        string  `json:"content"`
	RelevanceScore float64 `json:"relevance_score"`
	Source         string  `json:"source"`
}

// SearchResponse is the result of a mocked document search.
type SearchResponse struct {
	Results        []SearchResult `json:"results"`
	TotalResults   int            `json:"total_results"`
	Query          string         `json:"query"`
	ProcessingTime float64        `json:"processing_time"`
	UserConfig     AgentConfig    `json:"user_config"`
}

// NewDefaultConfig returns a configuration populated with all default values.
// Timestamps are stamped by the store on creation.
func NewDefaultConfig(userID string) AgentConfig {
	return AgentConfig{
		UserID:         userID,
		Specialization: SpecializationGeneral,
		Tone:           ToneFormal,
		Temperature:    DefaultTemperature,
		Model:          DefaultModel,
		MaxTokens:      DefaultMaxTokens,
	}
}

// Stats derives the summary view of a configuration.
func (c AgentConfig) Stats() ConfigStats {
	return ConfigStats{
		UserID:                c.UserID,
		Specialization:        string(c.Specialization),
		Tone:                  string(c.Tone),
		Temperature:           c.Temperature,
		Model:                 c.Model,
		MaxTokens:             c.MaxTokens,
		HasCustomInstructions: c.CustomInstructions != "",
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
	}
}
