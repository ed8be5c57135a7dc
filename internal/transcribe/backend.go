package transcribe

import (
	"context"

	"videoanalyzer/internal/transcript"
)

// Result bundles a completed transcription
type Result struct {
	Text     string               `json:"text"`
	Segments []transcript.Segment `json:"segments"`
	SRT      string               `json:"srt"`
	Language string               `json:"language"`
}

// Backend is a pluggable speech-to-text collaborator. The engine itself is
// external; this module only defines the call contract around it.
type Backend interface {
	Transcribe(ctx context.Context, audioPath, model, language string) (*Result, error)
}
