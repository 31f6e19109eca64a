// internal/analysis/export/export_test.go
package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provider-visibility/internal/analysis/normalize"
)

func sampleResult() *normalize.Result {
	return &normalize.Result{
		StoryID: "story-123",
		Summary: normalize.ResultSummary{TotalQuestions: 1, AIProviderRecognizedIn: 1},
		Models:  []string{"gpt-4o"},
		Pillars: []normalize.PillarResult{{
			Title:     "Trust",
			Questions: []normalize.QuestionDetail{},
		}},
		Metadata: normalize.ResultMetadata{ProviderName: "OpenAI", Mode: normalize.ModeLive},
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "analysis-story-123.json", FileName("story-123"))
	assert.Equal(t, "analysis-a_b_c.json", FileName(`a/b\c`))
	assert.Equal(t, "analysis-unknown.json", FileName(""))
	assert.Equal(t, "analysis-unknown.json", FileName(".."))
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleResult()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "{\n  \"storyId\": \"story-123\","))
	assert.Contains(t, out, `"clientName": null`)
	assert.Contains(t, out, `"aiProviderRecognizedIn": 1`)

	var decoded normalize.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, *sampleResult(), decoded)
}

func TestToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")

	path, err := ToFile(dir, sampleResult())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "analysis-story-123.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded normalize.Result
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "story-123", decoded.StoryID)
}
