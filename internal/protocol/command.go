package protocol

import (
	"encoding/json"
	"fmt"
	"io"

	"videoanalyzer/internal/category"
	"videoanalyzer/internal/transcript"
)

// Recognized commands
const (
	CommandTranscribe        = "transcribe"
	CommandAnalyze           = "analyze"
	CommandCheckModel        = "check_model"
	CommandCheckDependencies = "check_dependencies"
)

// Command is the single JSON object read from stdin as the request.
// Fields beyond Command are populated per recognized command.
type Command struct {
	Command string `json:"command"`

	// transcribe
	AudioPath string `json:"audio_path,omitempty"`
	Language  string `json:"language,omitempty"`

	// analyze / check_model
	Provider       string               `json:"provider,omitempty"`
	Model          string               `json:"model,omitempty"`
	TranscriptText string               `json:"transcript_text,omitempty"`
	Segments       []transcript.Segment `json:"segments,omitempty"`
	OutputFile     string               `json:"output_file,omitempty"`
	CustomPrompt   string               `json:"custom_prompt,omitempty"`
	TitleContext   string               `json:"title_context,omitempty"`
	Categories     []category.Category  `json:"categories,omitempty"`
	APIKey         string               `json:"api_key,omitempty"`
	OllamaEndpoint string               `json:"ollama_endpoint,omitempty"`
}

// ReadCommand decodes the single command object from the reader
func ReadCommand(r io.Reader) (*Command, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read command: %w", err)
	}

	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return nil, fmt.Errorf("failed to parse command: %w", err)
	}

	if cmd.Command == "" {
		return nil, fmt.Errorf("command field is required")
	}

	return &cmd, nil
}
