package models

import "fmt"

// ValidationError describes a field rejected before it reaches the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks enum membership and numeric bounds. It is called at the
// boundary so invalid values never reach the store or the gateway.
func (c AgentConfig) Validate() error {
	if !c.Specialization.Valid() {
		return &ValidationError{Field: "specialization", Reason: fmt.Sprintf("unknown value %q", c.Specialization)}
	}
	if !c.Tone.Valid() {
		return &ValidationError{Field: "tone", Reason: fmt.Sprintf("unknown value %q", c.Tone)}
	}
	if c.Temperature < 0.0 || c.Temperature > 1.0 {
		return &ValidationError{Field: "temperature", Reason: fmt.Sprintf("%g is outside [0.0, 1.0]", c.Temperature)}
	}
	if c.MaxTokens < 1 || c.MaxTokens > MaxTokensLimit {
		return &ValidationError{Field: "max_tokens", Reason: fmt.Sprintf("%d is outside [1, %d]", c.MaxTokens, MaxTokensLimit)}
	}
	return nil
}

// Validate checks only the fields present in the partial update.
func (u AgentConfigUpdate) Validate() error {
	if u.Specialization != nil && !u.Specialization.Valid() {
		return &ValidationError{Field: "specialization", Reason: fmt.Sprintf("unknown value %q", *u.Specialization)}
	}
	if u.Tone != nil && !u.Tone.Valid() {
		return &ValidationError{Field: "tone", Reason: fmt.Sprintf("unknown value %q", *u.Tone)}
	}
	if u.Temperature != nil && (*u.Temperature < 0.0 || *u.Temperature > 1.0) {
		return &ValidationError{Field: "temperature", Reason: fmt.Sprintf("%g is outside [0.0, 1.0]", *u.Temperature)}
	}
	if u.MaxTokens != nil && (*u.MaxTokens < 1 || *u.MaxTokens > MaxTokensLimit) {
		return &ValidationError{Field: "max_tokens", Reason: fmt.Sprintf("%d is outside [1, %d]", *u.MaxTokens, MaxTokensLimit)}
	}
	if u.Model != nil && *u.Model == "" {
		return &ValidationError{Field: "model", Reason: "must not be empty"}
	}
	return nil
}

// Apply merges the set fields of the update into the configuration.
func (u AgentConfigUpdate) Apply(c *AgentConfig) {
	if u.Specialization != nil {
		c.Specialization = *u.Specialization
	}
	if u.Tone != nil {
		c.Tone = *u.Tone
	}
	if u.Temperature != nil {
		c.Temperature = *u.Temperature
	}
	if u.Model != nil {
		c.Model = *u.Model
	}
	if u.MaxTokens != nil {
		c.MaxTokens = *u.MaxTokens
	}
	if u.CustomInstructions != nil {
		c.CustomInstructions = *u.CustomInstructions
	}
}
