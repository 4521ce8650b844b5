package wellness

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.Endpoint = srv.URL
	cfg.TimeoutMs = 500
	return NewHTTPClient(cfg, nil)
}

func TestContext_ParsesResponse(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/context", r.URL.Path)
		assert.Equal(t, "2026-04-02", r.URL.Query().Get("date"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"energy_percentage": 60, "cycle_phase": "luteal", "recommended_buffer_min": 45}`))
	})

	energy, err := client.Context(context.Background(), time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 60, energy.EnergyPercentage)
	assert.Equal(t, "luteal", energy.CyclePhase)
	assert.Equal(t, 45, energy.RecommendedBufferMin)
}

func TestContext_ServerError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.Context(context.Background(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestContext_Unreachable(t *testing.T) {
	cfg := DefaultConfig()
	// Reserved port with nothing listening.
	cfg.Endpoint = "http://127.0.0.1:1"
	cfg.TimeoutMs = 500
	client := NewHTTPClient(cfg, nil)

	_, err := client.Context(context.Background(), time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestContext_Timeout(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	})

	_, err := client.Context(context.Background(), time.Now())
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestAvailable(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	})

	assert.True(t, client.Available(context.Background()))
}

func TestLoadConfig_ReadsEnv(t *testing.T) {
	t.Setenv("TEMPO_WELLNESS_ENABLED", "true")
	t.Setenv("TEMPO_WELLNESS_ENDPOINT", "http://wellness.local:9000")
	t.Setenv("TEMPO_WELLNESS_TIMEOUT_MS", "1500")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "http://wellness.local:9000", cfg.Endpoint)
	assert.Equal(t, 1500, cfg.TimeoutMs)
}

func TestStaticClient(t *testing.T) {
	c := StaticClient{}
	energy, err := c.Context(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, energy.EnergyPercentage)
	assert.True(t, c.Available(context.Background()))
}
