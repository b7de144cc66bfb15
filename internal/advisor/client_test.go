package advisor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/servicedesk/internal/config"
)

func testConfig() config.AdvisorConfig {
	return config.AdvisorConfig{APIKey: "k", Model: "test-model", TimeoutSeconds: 2}
}

func TestSuggestParsesCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/models/test-model:generateContent")
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"- restart the printer\n"},{"text":"- check the cable"}]}}]}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig()).WithBaseURL(srv.URL)
	got, err := c.Suggest(context.Background(), "printer does not print")
	require.NoError(t, err)
	assert.Equal(t, "- restart the printer\n- check the cable", got)
}

func TestSuggestQuotaExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(testConfig()).WithBaseURL(srv.URL)
	_, err := c.Suggest(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrQuotaExhausted)
}

func TestSuggestGenericFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(testConfig()).WithBaseURL(srv.URL)
	_, err := c.Suggest(context.Background(), "anything")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrQuotaExhausted)
}

func TestSuggestDisabled(t *testing.T) {
	c := NewClient(config.AdvisorConfig{})
	_, err := c.Suggest(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestSuggestEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig()).WithBaseURL(srv.URL)
	_, err := c.Suggest(context.Background(), "anything")
	assert.Error(t, err)
}
