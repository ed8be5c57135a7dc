package analyzer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videoanalyzer/internal/category"
	"videoanalyzer/internal/inference"
	"videoanalyzer/internal/parser"
	"videoanalyzer/internal/prompt"
	"videoanalyzer/internal/transcript"
)

// newTestAnalyzer wires an Analyzer to a stub daemon whose generate endpoint
// replays the given response
func newTestAnalyzer(t *testing.T, generateResponse string) (*Analyzer, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"response": generateResponse})
	}))

	registry := inference.NewRegistry(inference.RegistryOptions{OllamaEndpoint: server.URL})
	gateway, err := registry.Gateway(inference.ProviderOllama)
	require.NoError(t, err)

	prompts, err := prompt.NewBuilder([]category.Category{
		{Name: "medical", Description: "medical claims", Enabled: true},
	}, "", "")
	require.NoError(t, err)

	return NewAnalyzer(gateway, prompts, "llama3", 0, nil), server
}

func testSegments() []transcript.Segment {
	return []transcript.Segment{
		{Start: 0, End: 10, Text: "welcome back everyone to the show"},
		{Start: 10, End: 20, Text: "today we talk about this new supplement"},
		{Start: 20, End: 30, Text: "it cures everything according to the maker"},
		{Start: 30, End: 40, Text: "always ask your doctor before trying it"},
	}
}

func TestAnalyzer_Analyze(t *testing.T) {
	t.Run("should produce a section with parsed quotes", func(t *testing.T) {
		// Arrange
		quotesJSON := `{"quotes": [{"timestamp": "0:20", "text": "it cures everything", "significance": "Unverified claim."}]}`
		a, server := newTestAnalyzer(t, quotesJSON)
		defer server.Close()

		raw := parser.RawSection{
			StartPhrase: "talk about this new supplement",
			EndPhrase:   "ask your doctor",
			Category:    "medical",
			Description: "Supplement claims discussed.",
		}

		// Act
		section, ok := a.Analyze(context.Background(), raw, testSegments())

		// Assert
		require.True(t, ok)
		assert.Equal(t, "medical", section.Category)
		assert.Equal(t, "0:10", section.StartTime)
		require.NotNil(t, section.EndTime)
		assert.Equal(t, "0:30", *section.EndTime)
		require.Len(t, section.Quotes, 1)
		assert.Equal(t, "it cures everything", section.Quotes[0].Text)
	})

	t.Run("should skip the section when the start phrase does not correlate", func(t *testing.T) {
		// Arrange
		a, server := newTestAnalyzer(t, `{"quotes": [{"timestamp": "0:00", "text": "x"}]}`)
		defer server.Close()

		raw := parser.RawSection{
			StartPhrase: "totally absent phrase nowhere spoken",
			EndPhrase:   "ask your doctor",
			Category:    "medical",
			Description: "desc",
		}

		// Act
		section, ok := a.Analyze(context.Background(), raw, testSegments())

		// Assert
		assert.False(t, ok)
		assert.Nil(t, section)
	})

	t.Run("should extend the end time when phrase ordering resolves backwards", func(t *testing.T) {
		// Arrange
		quotesJSON := `{"quotes": [{"timestamp": "0:20", "text": "it cures everything"}]}`
		a, server := newTestAnalyzer(t, quotesJSON)
		defer server.Close()

		// End phrase correlates earlier than the start phrase
		raw := parser.RawSection{
			StartPhrase: "it cures everything",
			EndPhrase:   "welcome back everyone",
			Category:    "medical",
			Description: "desc",
		}

		// Act
		section, ok := a.Analyze(context.Background(), raw, testSegments())

		// Assert: 20s start, end pushed to 20+30=50s
		require.True(t, ok)
		assert.Equal(t, "0:20", section.StartTime)
		require.NotNil(t, section.EndTime)
		assert.Equal(t, "0:50", *section.EndTime)
	})

	t.Run("should skip the section when no quotes parse from the response", func(t *testing.T) {
		// Arrange
		a, server := newTestAnalyzer(t, "I found nothing worth quoting here.")
		defer server.Close()

		raw := parser.RawSection{
			StartPhrase: "talk about this new supplement",
			EndPhrase:   "ask your doctor",
			Category:    "medical",
			Description: "desc",
		}

		// Act
		_, ok := a.Analyze(context.Background(), raw, testSegments())

		// Assert
		assert.False(t, ok)
	})

	t.Run("should skip the section when the quote call fails", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusInternalServerError)
		}))
		defer server.Close()

		registry := inference.NewRegistry(inference.RegistryOptions{OllamaEndpoint: server.URL})
		gateway, err := registry.Gateway(inference.ProviderOllama)
		require.NoError(t, err)
		prompts, err := prompt.NewBuilder([]category.Category{
			{Name: "medical", Description: "medical claims", Enabled: true},
		}, "", "")
		require.NoError(t, err)
		a := NewAnalyzer(gateway, prompts, "llama3", 0, nil)

		raw := parser.RawSection{
			StartPhrase: "talk about this new supplement",
			EndPhrase:   "ask your doctor",
			Category:    "medical",
			Description: "desc",
		}

		// Act
		_, ok := a.Analyze(context.Background(), raw, testSegments())

		// Assert
		assert.False(t, ok)
	})

	t.Run("should send the timestamped sub-transcript in the quote request", func(t *testing.T) {
		// Arrange
		var capturedPrompt string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var payload struct {
				Prompt string `json:"prompt"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			capturedPrompt = payload.Prompt
			json.NewEncoder(w).Encode(map[string]string{
				"response": `{"quotes": [{"timestamp": "0:10", "text": "today we talk about this new supplement"}]}`,
			})
		}))
		defer server.Close()

		registry := inference.NewRegistry(inference.RegistryOptions{OllamaEndpoint: server.URL})
		gateway, err := registry.Gateway(inference.ProviderOllama)
		require.NoError(t, err)
		prompts, err := prompt.NewBuilder([]category.Category{
			{Name: "medical", Description: "medical claims", Enabled: true},
		}, "", "")
		require.NoError(t, err)
		a := NewAnalyzer(gateway, prompts, "llama3", 0, nil)

		raw := parser.RawSection{
			StartPhrase: "welcome back everyone",
			EndPhrase:   "ask your doctor",
			Category:    "medical",
			Description: "desc",
		}

		// Act
		_, ok := a.Analyze(context.Background(), raw, testSegments())

		// Assert
		require.True(t, ok)
		assert.True(t, strings.Contains(capturedPrompt, "[0:10] today we talk about this new supplement"))
	})
}

func TestSegmentsInRange(t *testing.T) {
	t.Run("should keep only fully contained segments", func(t *testing.T) {
		// Arrange
		segments := testSegments()

		// Act
		contained := segmentsInRange(segments, 10, 30)

		// Assert
		require.Len(t, contained, 2)
		assert.Equal(t, 10.0, contained[0].Start)
		assert.Equal(t, 20.0, contained[1].Start)
	})

	t.Run("should return empty for a range between segments", func(t *testing.T) {
		// Arrange
		segments := []transcript.Segment{
			{Start: 0, End: 10, Text: "a"},
			{Start: 50, End: 60, Text: "b"},
		}

		// Act
		contained := segmentsInRange(segments, 15, 45)

		// Assert
		assert.Empty(t, contained)
	})
}
