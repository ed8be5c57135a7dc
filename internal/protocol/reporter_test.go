package protocol

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporter(t *testing.T) {
	t.Run("should emit a progress line with percentage", func(t *testing.T) {
		// Arrange
		var buf bytes.Buffer
		reporter := NewReporter(&buf, nil)
		progress := 65.0

		// Act
		reporter.Progress("analysis", &progress, "Starting AI analysis...")

		// Assert
		line := strings.TrimSuffix(buf.String(), "\n")
		var parsed map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &parsed))
		assert.Equal(t, "progress", parsed["type"])
		assert.Equal(t, "analysis", parsed["phase"])
		assert.Equal(t, 65.0, parsed["progress"])
		assert.Equal(t, "Starting AI analysis...", parsed["message"])
	})

	t.Run("should emit null progress for indeterminate updates", func(t *testing.T) {
		// Arrange
		var buf bytes.Buffer
		reporter := NewReporter(&buf, nil)

		// Act
		reporter.Progress("transcription", nil, "Transcribing audio...")

		// Assert
		var parsed map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
		assert.Contains(t, buf.String(), `"progress":null`)
		assert.Nil(t, parsed["progress"])
	})

	t.Run("should emit an error line", func(t *testing.T) {
		// Arrange
		var buf bytes.Buffer
		reporter := NewReporter(&buf, nil)

		// Act
		reporter.Error("something broke")

		// Assert
		var parsed map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
		assert.Equal(t, "error", parsed["type"])
		assert.Equal(t, "something broke", parsed["message"])
	})

	t.Run("should emit a result line with nested data", func(t *testing.T) {
		// Arrange
		var buf bytes.Buffer
		reporter := NewReporter(&buf, nil)

		// Act
		reporter.Result(map[string]interface{}{"sections_count": 3})

		// Assert
		var parsed struct {
			Type string `json:"type"`
			Data struct {
				SectionsCount int `json:"sections_count"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
		assert.Equal(t, "result", parsed.Type)
		assert.Equal(t, 3, parsed.Data.SectionsCount)
	})

	t.Run("should write each line newline-terminated", func(t *testing.T) {
		// Arrange
		var buf bytes.Buffer
		reporter := NewReporter(&buf, nil)

		// Act
		reporter.Progress("analysis", nil, "one")
		reporter.Error("two")

		// Assert
		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		assert.Len(t, lines, 2)
		for _, line := range lines {
			assert.True(t, json.Valid([]byte(line)))
		}
	})
}
