package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexlabs/lexagent/internal/gateway"
	"github.com/lexlabs/lexagent/internal/models"
	"github.com/lexlabs/lexagent/internal/store"
)

// fakeGateway records the last request and returns a canned result or error.
type fakeGateway struct {
	lastReq gateway.ChatRequest
	result  *gateway.ChatResult
	err     error
	probe   gateway.ProbeResult
}

func (f *fakeGateway) Chat(_ context.Context, req gateway.ChatRequest) (*gateway.ChatResult, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeGateway) Probe(context.Context) gateway.ProbeResult { return f.probe }
func (f *fakeGateway) Model() string                             { return "test-model" }

func TestChatProvisionsDefaultsAndForwardsConfig(t *testing.T) {
	st := store.NewMemoryStore()
	defer st.Close()
	gw := &fakeGateway{result: &gateway.ChatResult{Text: "respuesta", TotalTokens: 42}}
	svc := New(st, gw)

	resp, err := svc.Chat(context.Background(), "u1", "¿Qué es dolo?", "")
	require.NoError(t, err)

	assert.Equal(t, "respuesta", resp.Response)
	assert.Equal(t, 42, resp.TokensUsed)
	assert.Equal(t, models.DefaultModel, resp.ModelUsed)
	assert.GreaterOrEqual(t, resp.ProcessingTime, 0.0)

	// The first chat lazily provisioned a default configuration.
	cfg, err := st.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.SpecializationGeneral, cfg.Specialization)

	// The gateway saw the stored sampling parameters and a composed prompt.
	assert.Equal(t, models.DefaultModel, gw.lastReq.Model)
	assert.Equal(t, models.DefaultTemperature, gw.lastReq.Temperature)
	assert.Equal(t, models.DefaultMaxTokens, gw.lastReq.MaxTokens)
	assert.Contains(t, gw.lastReq.SystemPrompt, "asistente legal")
	assert.Equal(t, "¿Qué es dolo?", gw.lastReq.UserMessage)
}

func TestChatUsesStoredConfiguration(t *testing.T) {
	st := store.NewMemoryStore()
	defer st.Close()
	gw := &fakeGateway{result: &gateway.ChatResult{Text: "ok", TotalTokens: 10}}
	svc := New(st, gw)

	cfg := models.NewDefaultConfig("u1")
	cfg.Specialization = models.SpecializationPenal
	cfg.Tone = models.ToneTecnico
	cfg.Temperature = 0.8
	cfg.MaxTokens = 1500
	cfg.CustomInstructions = "Cita siempre el artículo aplicable."
	_, err := st.Create(context.Background(), "u1", cfg)
	require.NoError(t, err)

	resp, err := svc.Chat(context.Background(), "u1", "¿Qué plazo aplica?", "contrato firmado en 2023")
	require.NoError(t, err)

	assert.Equal(t, 0.8, gw.lastReq.Temperature)
	assert.Equal(t, 1500, gw.lastReq.MaxTokens)
	assert.Contains(t, gw.lastReq.SystemPrompt, "penal")
	assert.Contains(t, gw.lastReq.SystemPrompt, "Cita siempre el artículo aplicable.")
	assert.True(t, strings.HasPrefix(gw.lastReq.UserMessage, "Contexto: contrato firmado en 2023"))

	assert.Equal(t, models.SpecializationPenal, resp.UserConfig.Specialization)
	assert.Equal(t, 1500, resp.UserConfig.MaxTokens)
}

func TestChatResponseSnapshotImmuneToLaterUpdate(t *testing.T) {
	st := store.NewMemoryStore()
	defer st.Close()
	gw := &fakeGateway{result: &gateway.ChatResult{Text: "ok", TotalTokens: 1}}
	svc := New(st, gw)

	resp, err := svc.Chat(context.Background(), "u1", "hola", "")
	require.NoError(t, err)
	assert.Equal(t, 0.7, resp.UserConfig.Temperature)

	newTemp := 0.2
	_, err = st.Update(context.Background(), "u1", models.AgentConfigUpdate{Temperature: &newTemp})
	require.NoError(t, err)

	// The embedded snapshot keeps the values in effect at call time.
	assert.Equal(t, 0.7, resp.UserConfig.Temperature)
}

func TestChatGatewayFailure(t *testing.T) {
	st := store.NewMemoryStore()
	defer st.Close()
	gw := &fakeGateway{err: &gateway.Error{Status: 503, Message: "upstream unavailable"}}
	svc := New(st, gw)

	_, err := svc.Chat(context.Background(), "u1", "hola", "")
	var gwErr *gateway.Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, 503, gwErr.Status)

	// The failed exchange still provisioned the configuration and left it intact.
	cfg, err := st.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultModel, cfg.Model)

	// And the failure was recorded in the usage log.
	entries, err := st.RecentUsage(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ErrorMessage, "upstream unavailable")
}

func TestChatRecordsUsage(t *testing.T) {
	st := store.NewMemoryStore()
	defer st.Close()
	gw := &fakeGateway{result: &gateway.ChatResult{Text: "ok", TotalTokens: 123}}
	svc := New(st, gw)

	_, err := svc.Chat(context.Background(), "u1", "hola", "")
	require.NoError(t, err)

	entries, err := st.RecentUsage(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "u1", entries[0].UserID)
	assert.Equal(t, 123, entries[0].TokensUsed)
	assert.Empty(t, entries[0].ErrorMessage)
}

func TestHealth(t *testing.T) {
	st := store.NewMemoryStore()
	defer st.Close()
	gw := &fakeGateway{
		result: &gateway.ChatResult{Text: "ok", TotalTokens: 1},
		probe:  gateway.ProbeResult{Reachable: true, StatusCode: 200, Model: "test-model"},
	}
	svc := New(st, gw)

	_, err := svc.Chat(context.Background(), "u1", "hola", "")
	require.NoError(t, err)

	report := svc.Health(context.Background())
	assert.Equal(t, "healthy", report.Status)
	assert.True(t, report.Gateway.Reachable)
	assert.Equal(t, 1, report.ConfigsCount)
}

func TestHealthGatewayDown(t *testing.T) {
	st := store.NewMemoryStore()
	defer st.Close()
	gw := &fakeGateway{probe: gateway.ProbeResult{Reachable: false, Detail: "connection refused"}}
	svc := New(st, gw)

	report := svc.Health(context.Background())
	assert.Equal(t, "unhealthy", report.Status)
	assert.False(t, report.Gateway.Reachable)
}
