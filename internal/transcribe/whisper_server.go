package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"videoanalyzer/internal/transcript"
)

// DefaultWhisperServerURL is the conventional local whisper server address
const DefaultWhisperServerURL = "http://localhost:9000"

// WhisperServerBackend transcribes audio through a whisper HTTP server:
// multipart upload in, JSON segments out.
type WhisperServerBackend struct {
	serverURL string
	timeout   time.Duration
	client    *http.Client
	logger    *zap.Logger
}

// NewWhisperServerBackend creates a backend against the given server URL
func NewWhisperServerBackend(serverURL string, timeout time.Duration, logger *zap.Logger) *WhisperServerBackend {
	if serverURL == "" {
		serverURL = DefaultWhisperServerURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhisperServerBackend{
		serverURL: strings.TrimRight(serverURL, "/"),
		timeout:   timeout,
		client:    &http.Client{},
		logger:    logger,
	}
}

type whisperServerResponse struct {
	Language string `json:"language"`
	Duration float64 `json:"duration"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// Transcribe uploads the audio file and converts the server's segments into
// the transcript model, with text and SRT renditions
func (b *WhisperServerBackend) Transcribe(ctx context.Context, audioPath, model, language string) (*Result, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if model != "" {
		if err := mw.WriteField("model", model); err != nil {
			return nil, fmt.Errorf("failed to build transcription request: %w", err)
		}
	}
	if language != "" {
		if err := mw.WriteField("language", language); err != nil {
			return nil, fmt.Errorf("failed to build transcription request: %w", err)
		}
	}

	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("failed to build transcription request: %w", err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build transcription request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.serverURL+"/transcribe", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build transcription request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	started := time.Now()
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whisper server request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("whisper server returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed whisperServerResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode whisper server response: %w", err)
	}

	segments := make([]transcript.Segment, 0, len(parsed.Segments))
	texts := make([]string, 0, len(parsed.Segments))
	for _, s := range parsed.Segments {
		segments = append(segments, transcript.Segment{
			Start: s.Start,
			End:   s.End,
			Text:  strings.TrimSpace(s.Text),
		})
		texts = append(texts, strings.TrimSpace(s.Text))
	}

	b.logger.Info("transcription completed",
		zap.String("audio_path", audioPath),
		zap.Int("segment_count", len(segments)),
		zap.Duration("elapsed", time.Since(started)))

	return &Result{
		Text:     strings.Join(texts, " "),
		Segments: segments,
		SRT:      transcript.GenerateSRT(segments),
		Language: parsed.Language,
	}, nil
}

// Reachable reports whether the whisper server answers at all; used by the
// dependency check, never by the analysis path
func (b *WhisperServerBackend) Reachable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.serverURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode < 500
}
