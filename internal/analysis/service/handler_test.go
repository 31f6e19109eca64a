// internal/analysis/service/handler_test.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"provider-visibility/internal/analysis/transport"
	"provider-visibility/internal/common/config"
	apperrors "provider-visibility/internal/common/errors"
	"provider-visibility/internal/common/logger"
	"provider-visibility/internal/common/metrics"
)

// ==========================
// Test Doubles
// ==========================

type fakeAnalyzer struct {
	raw      interface{}
	err      error
	calls    int
	lastReq  *transport.Request
	deadline bool
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, req *transport.Request) (interface{}, error) {
	f.calls++
	f.lastReq = req
	_, f.deadline = ctx.Deadline()
	return f.raw, f.err
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		DefaultProviderName:    "OpenAI",
		DefaultProviderAliases: []string{"OpenAI", "ChatGPT"},
		Timeout:                5 * time.Second,
	}
}

func decodePayload(t *testing.T, raw string) interface{} {
	t.Helper()
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func observedLogger() (logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.NewZapAdapter(zap.New(core)), logs
}

func requireCode(t *testing.T, err error, code apperrors.ErrorCode) *apperrors.StandardError {
	t.Helper()
	require.Error(t, err)
	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr), "expected StandardError, got %T", err)
	assert.Equal(t, code, stdErr.Code)
	return stdErr
}

const validPayload = `{
	"data": {
		"storyId": "story-9",
		"summary": {"totalQuestions": "2", "aiProviderRecognizedIn": 1},
		"sellingPoints": [{"title": "Trust", "questions": [
			{"prompt": "p", "category": "c", "kind": "k", "responses": [
				{"model": "gpt-4o", "answer": "a", "inferred": true},
				{"model": "claude", "answer": "b", "aiProviderInferred": false, "inferred": true}
			]}
		]}],
		"metadata": {"providerName": "OpenAI", "modelsRun": ["gpt-4o", "claude"], "mode": "live"}
	}
}`

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	analyzer := &fakeAnalyzer{raw: decodePayload(t, validPayload)}
	handler := NewHandler(createTestConfig(), analyzer, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Text:            "Transcript mentioning the provider",
		ProviderName:    " Anthropic ",
		ProviderAliases: []string{"Anthropic", "Claude"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, analyzer.calls)
	assert.True(t, analyzer.deadline)
	assert.Equal(t, &transport.Request{
		Text:            "Transcript mentioning the provider",
		ProviderName:    "Anthropic",
		ProviderAliases: []string{"Anthropic", "Claude"},
	}, analyzer.lastReq)

	require.NotNil(t, output.Result)
	assert.Equal(t, "story-9", output.Result.StoryID)
	assert.Equal(t, 2, output.Result.Summary.TotalQuestions)
	require.Len(t, output.Result.Pillars, 1)
	responses := output.Result.Pillars[0].Questions[0].Responses
	assert.True(t, responses[0].Inferred)
	assert.False(t, responses[1].Inferred)

	require.NotNil(t, output.Comparison)
	require.Len(t, output.Comparison.Models, 2)
	assert.Equal(t, float64(100), output.Comparison.Models[0].Rate)
	assert.Equal(t, float64(0), output.Comparison.Models[1].Rate)
}

func TestHandler_Execute_UsesMaskingDefaults(t *testing.T) {
	analyzer := &fakeAnalyzer{raw: decodePayload(t, validPayload)}
	handler := NewHandler(createTestConfig(), analyzer, logger.NewNoOpLogger())

	_, err := handler.Execute(context.Background(), &Input{Text: "t"})
	require.NoError(t, err)

	assert.Equal(t, "OpenAI", analyzer.lastReq.ProviderName)
	assert.Equal(t, []string{"OpenAI", "ChatGPT"}, analyzer.lastReq.ProviderAliases)
}

func TestHandler_Execute_NoTimeoutConfigured(t *testing.T) {
	cfg := createTestConfig()
	cfg.Timeout = 0
	analyzer := &fakeAnalyzer{raw: decodePayload(t, validPayload)}

	_, err := NewHandler(cfg, analyzer, logger.NewNoOpLogger()).Execute(context.Background(), &Input{Text: "t"})
	require.NoError(t, err)
	assert.False(t, analyzer.deadline)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_InputErrors(t *testing.T) {
	tests := []struct {
		name  string
		input *Input
		code  apperrors.ErrorCode
	}{
		{name: "nil input", input: nil, code: apperrors.ErrCodeInvalidRequest},
		{name: "empty transcript", input: &Input{Text: ""}, code: apperrors.ErrCodeEmptyTranscript},
		{name: "whitespace transcript", input: &Input{Text: "   "}, code: apperrors.ErrCodeEmptyTranscript},
		{
			name:  "provider name too long",
			input: &Input{Text: "t", ProviderName: string(make([]byte, 201))},
			code:  apperrors.ErrCodeInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := &fakeAnalyzer{}
			handler := NewHandler(createTestConfig(), analyzer, logger.NewNoOpLogger())

			output, err := handler.Execute(context.Background(), tt.input)

			requireCode(t, err, tt.code)
			assert.Nil(t, output)
			assert.Equal(t, 0, analyzer.calls)
		})
	}
}

func TestHandler_Execute_TransportErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      apperrors.ErrorCode
		message   string
		retryable bool
	}{
		{
			name:    "not configured",
			err:     transport.ErrNotConfigured,
			code:    apperrors.ErrCodeAPINotConfigured,
			message: "API base URL is not configured",
		},
		{
			name:      "timeout",
			err:       fmt.Errorf("%w: upstream returned 504", transport.ErrAnalysisTimeout),
			code:      apperrors.ErrCodeAnalysisTimeout,
			message:   "Request timed out while waiting for analysis to complete. Please try again.",
			retryable: true,
		},
		{
			name:      "status error",
			err:       &transport.StatusError{StatusCode: 500, Detail: "model backend unavailable"},
			code:      apperrors.ErrCodeAnalysisFailed,
			message:   "Analysis failed (500): model backend unavailable",
			retryable: true,
		},
		{
			name:    "invalid body",
			err:     fmt.Errorf("%w: unexpected EOF", transport.ErrInvalidResponseBody),
			code:    apperrors.ErrCodeMalformedPayload,
			message: "Received unexpected response format from API",
		},
		{
			name:      "connection failure",
			err:       fmt.Errorf("%w: connection refused", transport.ErrAnalysisFailed),
			code:      apperrors.ErrCodeAnalysisFailed,
			message:   "Analysis failed: the analysis service could not be reached",
			retryable: true,
		},
		{
			name:    "unknown",
			err:     errors.New("boom"),
			code:    apperrors.ErrCodeInternal,
			message: "Unexpected error while analyzing transcript",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(createTestConfig(), &fakeAnalyzer{err: tt.err}, logger.NewNoOpLogger())

			output, err := handler.Execute(context.Background(), &Input{Text: "t"})

			stdErr := requireCode(t, err, tt.code)
			assert.Nil(t, output)
			assert.Equal(t, tt.message, stdErr.Message)
			assert.Equal(t, tt.retryable, stdErr.Retryable)
		})
	}
}

func TestHandler_Execute_MalformedPayload(t *testing.T) {
	log, logs := observedLogger()
	raw := decodePayload(t, `{
		"story_id": "s",
		"summary": {"total_questions": "several", "ai_provider_recognized_in": 0},
		"metadata": {"provider_name": "OpenAI", "models_run": [], "mode": "live"}
	}`)
	handler := NewHandler(createTestConfig(), &fakeAnalyzer{raw: raw}, log)

	before := testutil.ToFloat64(metrics.NormalizationFailures.WithLabelValues("summary.total_questions"))

	output, err := handler.Execute(context.Background(), &Input{Text: "t"})

	stdErr := requireCode(t, err, apperrors.ErrCodeMalformedPayload)
	assert.Nil(t, output)
	assert.Equal(t, "Received unexpected response format from API", stdErr.Message)
	assert.NotContains(t, stdErr.Message, "total_questions")
	assert.Equal(t, "summary.total_questions", stdErr.Metadata["path"])

	after := testutil.ToFloat64(metrics.NormalizationFailures.WithLabelValues("summary.total_questions"))
	assert.Equal(t, before+1, after)

	entries := logs.FilterMessage("response payload could not be normalized").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "summary.total_questions", fields["path"])
	assert.Equal(t, "non-negative integer", fields["expected"])
	assert.Equal(t, `"several"`, fields["actual"])
	assert.Equal(t, "MalformedPayload", fields["kind"])
	assert.Equal(t, TaskType, fields["taskType"])
}

func TestHandler_Execute_MalformedPayloadSharesSeriesAcrossIndices(t *testing.T) {
	log, logs := observedLogger()
	handler := NewHandler(createTestConfig(), &fakeAnalyzer{}, log)
	series := metrics.NormalizationFailures.WithLabelValues("selling_points[]")
	beforeSeries := testutil.CollectAndCount(metrics.NormalizationFailures)
	beforeCount := testutil.ToFloat64(series)

	const payload = `{
		"story_id": "s",
		"summary": {"total_questions": 1, "ai_provider_recognized_in": 0},
		"selling_points": [%s],
		"metadata": {"provider_name": "OpenAI", "models_run": [], "mode": "live"}
	}`
	for _, pillars := range []string{`"bad"`, `{}, {}, 7`} {
		handler.client = &fakeAnalyzer{raw: decodePayload(t, fmt.Sprintf(payload, pillars))}
		_, err := handler.Execute(context.Background(), &Input{Text: "t"})
		requireCode(t, err, apperrors.ErrCodeMalformedPayload)
	}

	assert.Equal(t, beforeSeries, testutil.CollectAndCount(metrics.NormalizationFailures))
	assert.Equal(t, beforeCount+2, testutil.ToFloat64(series))

	entries := logs.FilterMessage("response payload could not be normalized").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "selling_points[0]", entries[0].ContextMap()["path"])
	assert.Equal(t, "selling_points[2]", entries[1].ContextMap()["path"])
}

func TestHandler_Execute_RecordsOutcomeMetrics(t *testing.T) {
	handler := NewHandler(createTestConfig(), &fakeAnalyzer{err: transport.ErrNotConfigured}, logger.NewNoOpLogger())

	failures := metrics.AnalysisFailures.WithLabelValues(string(apperrors.ErrCodeAPINotConfigured))
	requests := metrics.AnalysisRequests.WithLabelValues(metrics.StatusFailure)
	beforeFailures := testutil.ToFloat64(failures)
	beforeRequests := testutil.ToFloat64(requests)

	_, err := handler.Execute(context.Background(), &Input{Text: "t"})
	require.Error(t, err)

	assert.Equal(t, beforeFailures+1, testutil.ToFloat64(failures))
	assert.Equal(t, beforeRequests+1, testutil.ToFloat64(requests))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.AnalysisActive))
}

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig()
	assert.Equal(t, "OpenAI", cfg.DefaultProviderName)
	assert.Contains(t, cfg.DefaultProviderAliases, "ChatGPT")
	assert.Equal(t, 60*time.Second, cfg.Timeout)
}

func TestFromAppConfig(t *testing.T) {
	app := &config.Config{
		API:     config.APIConfig{BaseURL: "http://localhost:8000", Timeout: 1500},
		Masking: config.MaskingConfig{DefaultProviderName: "Anthropic", DefaultProviderAliases: []string{"Claude"}},
	}

	cfg := FromAppConfig(app)
	app.Masking.DefaultProviderAliases[0] = "changed"

	assert.Equal(t, "Anthropic", cfg.DefaultProviderName)
	assert.Equal(t, []string{"Claude"}, cfg.DefaultProviderAliases)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout)
}
