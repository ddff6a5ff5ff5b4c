// Package agent drives the chat pipeline: resolve the caller's
// configuration, compose the prompts, exchange with the inference gateway,
// and assemble the response around a configuration snapshot.
package agent

import (
	"context"
	"log/slog"
	"time"

	"github.com/lexlabs/lexagent/internal/gateway"
	"github.com/lexlabs/lexagent/internal/models"
	"github.com/lexlabs/lexagent/internal/prompt"
	"github.com/lexlabs/lexagent/internal/store"
)

// Gateway is the minimal inference surface the service needs, so tests can
// substitute a fake without a network.
type Gateway interface {
	Chat(ctx context.Context, req gateway.ChatRequest) (*gateway.ChatResult, error)
	Probe(ctx context.Context) gateway.ProbeResult
	Model() string
}

// HealthReport describes service liveness. Failures are captured in the
// report rather than returned as errors.
type HealthReport struct {
	Status       string              `json:"status"`
	Gateway      gateway.ProbeResult `json:"gateway"`
	ConfigsCount int                 `json:"user_configs_count"`
	Error        string              `json:"error,omitempty"`
}

// Service runs chat exchanges against the gateway using per-user
// configuration from the store.
type Service struct {
	store store.Store
	gw    Gateway
}

// New creates the chat service.
func New(st store.Store, gw Gateway) *Service {
	return &Service{store: st, gw: gw}
}

// Chat runs the full pipeline for one query. The configuration is resolved
// (or default-provisioned) before the network exchange, and the store lock is
// never held while the request is in flight. The returned response embeds a
// value copy of the configuration taken at call time, so later updates to the
// same user never alter it. No retries: a failed exchange is reported as-is.
func (s *Service) Chat(ctx context.Context, userID, query, queryContext string) (*models.AgentResponse, error) {
	cfg, err := s.store.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	systemPrompt := prompt.BuildSystemPrompt(cfg)
	userMessage := prompt.BuildUserMessage(query, queryContext)

	// The timing window brackets only the network exchange.
	start := time.Now()
	result, err := s.gw.Chat(ctx, gateway.ChatRequest{
		Model:        cfg.Model,
		SystemPrompt: systemPrompt,
		UserMessage:  userMessage,
		Temperature:  cfg.Temperature,
		MaxTokens:    cfg.MaxTokens,
	})
	elapsed := time.Since(start)

	if err != nil {
		s.recordUsage(ctx, models.UsageLog{
			UserID:       userID,
			Model:        cfg.Model,
			DurationMs:   elapsed.Milliseconds(),
			ErrorMessage: err.Error(),
		})
		return nil, err
	}

	s.recordUsage(ctx, models.UsageLog{
		UserID:     userID,
		Model:      cfg.Model,
		TokensUsed: result.TotalTokens,
		DurationMs: elapsed.Milliseconds(),
	})

	return assembleResponse(result, cfg, elapsed), nil
}

// assembleResponse combines the gateway result, the measured latency, and the
// configuration snapshot into the caller-facing record.
func assembleResponse(result *gateway.ChatResult, cfg models.AgentConfig, elapsed time.Duration) *models.AgentResponse {
	return &models.AgentResponse{
		Response:       result.Text,
		ModelUsed:      cfg.Model,
		TokensUsed:     result.TotalTokens,
		ProcessingTime: elapsed.Seconds(),
		UserConfig:     cfg,
	}
}

// recordUsage logs the exchange for operators. Failures are logged, not
// surfaced: usage accounting never breaks the chat path.
func (s *Service) recordUsage(ctx context.Context, entry models.UsageLog) {
	if err := s.store.LogUsage(ctx, entry); err != nil {
		slog.Warn("failed to record usage", "user_id", entry.UserID, "error", err)
	}
}

// Health probes the gateway and counts stored configurations. It never
// returns an error; failures are folded into the report.
func (s *Service) Health(ctx context.Context) HealthReport {
	report := HealthReport{Status: "healthy"}

	report.Gateway = s.gw.Probe(ctx)
	if !report.Gateway.Reachable {
		report.Status = "unhealthy"
	}

	count, err := s.store.Count(ctx)
	if err != nil {
		report.Status = "unhealthy"
		report.Error = err.Error()
		return report
	}
	report.ConfigsCount = count

	return report
}
