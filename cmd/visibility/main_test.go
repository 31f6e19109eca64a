// cmd/visibility/main_test.go
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const upstreamPayload = `{
	"story_id": "story-77",
	"summary": {"total_questions": 1, "ai_provider_recognized_in": 1},
	"selling_points": [{"title": "Trust", "questions": [
		{"prompt": "p", "category": "c", "kind": "k", "responses": [
			{"model": "gpt-4o", "answer": "a", "ai_provider_inferred": true}
		]}
	]}],
	"metadata": {"client_name": "Acme", "provider_name": "OpenAI", "models_run": ["gpt-4o"], "mode": "live"}
}`

func writeTestConfig(t *testing.T, baseURL string, sample bool) string {
	t.Helper()
	content := fmt.Sprintf(`
api:
  base_url: %s
  timeout: 5000
features:
  sample_transcript: %t
logging:
  level: error
  output: stderr
`, baseURL, sample)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func newUpstream(t *testing.T, status int, body string) (*httptest.Server, *map[string]interface{}) {
	t.Helper()
	received := map[string]interface{}{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &received)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	return server, &received
}

func TestAnalyzeCommand_JSONOutputAndExport(t *testing.T) {
	upstream, received := newUpstream(t, http.StatusOK, upstreamPayload)
	cfgPath := writeTestConfig(t, upstream.URL, false)
	exportDir := t.TempDir()

	stdout, stderr, err := runCLI(t, "", "analyze", "--config", cfgPath,
		"--text", "A transcript", "--provider", "OpenAI", "--alias", "OpenAI, ChatGPT", "--export", exportDir)
	require.NoError(t, err)

	assert.Equal(t, "A transcript", (*received)["text"])
	assert.Equal(t, []interface{}{"OpenAI", "ChatGPT"}, (*received)["provider_aliases"])

	var output map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &output))
	result := output["result"].(map[string]interface{})
	assert.Equal(t, "story-77", result["storyId"])

	exported := filepath.Join(exportDir, "analysis-story-77.json")
	assert.Contains(t, stderr, exported)
	_, statErr := os.Stat(exported)
	assert.NoError(t, statErr)
}

func TestAnalyzeCommand_TextOutputFromStdin(t *testing.T) {
	upstream, received := newUpstream(t, http.StatusOK, upstreamPayload)
	cfgPath := writeTestConfig(t, upstream.URL, false)

	stdout, _, err := runCLI(t, "piped transcript", "analyze", "--config", cfgPath, "--file", "-", "-o", "text")
	require.NoError(t, err)

	assert.Equal(t, "piped transcript", (*received)["text"])
	assert.Equal(t, "OpenAI", (*received)["provider_name"])
	assert.Contains(t, stdout, "Story story-77 (live mode)")
	assert.Contains(t, stdout, "Client: Acme")
	assert.Contains(t, stdout, "Recognized in 1 of 1 questions")
	assert.Contains(t, stdout, "high")
}

func TestAnalyzeCommand_Sample(t *testing.T) {
	upstream, received := newUpstream(t, http.StatusOK, upstreamPayload)

	_, _, err := runCLI(t, "", "analyze", "--config", writeTestConfig(t, upstream.URL, false), "--sample")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sample transcript is disabled")

	_, _, err = runCLI(t, "", "analyze", "--config", writeTestConfig(t, upstream.URL, true), "--sample")
	require.NoError(t, err)
	assert.Equal(t, sampleTranscript, (*received)["text"])
}

func TestAnalyzeCommand_Errors(t *testing.T) {
	upstream, _ := newUpstream(t, http.StatusGatewayTimeout, `{}`)
	cfgPath := writeTestConfig(t, upstream.URL, false)

	_, _, err := runCLI(t, "", "analyze", "--config", cfgPath, "--text", "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Request timed out while waiting for analysis to complete")

	_, _, err = runCLI(t, "", "analyze", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of")

	_, _, err = runCLI(t, "", "analyze", "--config", cfgPath, "--text", "t", "-o", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestAnalyzeCommand_MalformedUpstream(t *testing.T) {
	upstream, _ := newUpstream(t, http.StatusOK, `{"story_id": 5}`)

	_, _, err := runCLI(t, "", "analyze", "--config", writeTestConfig(t, upstream.URL, false), "--text", "t")
	require.Error(t, err)
	assert.Equal(t, "Received unexpected response format from API [MALFORMED_PAYLOAD]", err.Error())
}
