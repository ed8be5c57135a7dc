package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"videoanalyzer/internal/analyzer"
	"videoanalyzer/internal/category"
	"videoanalyzer/internal/inference"
	"videoanalyzer/internal/parser"
	"videoanalyzer/internal/prompt"
	"videoanalyzer/internal/report"
	"videoanalyzer/internal/transcript"
)

const (
	// maxChunkAttempts bounds the section-identification retry loop
	maxChunkAttempts = 3
	// retryInterval separates consecutive attempts for one chunk
	retryInterval = 2 * time.Second

	// Bounds on the post-pass prompts
	tagPeopleLimit      = 20
	tagTopicsLimit      = 15
	tagExcerptChars     = 3000
	summarySectionLimit = 20
)

// ProgressFunc receives synchronous progress updates as units of work
// complete. A nil percentage reports indeterminate progress.
type ProgressFunc func(phase string, progress *float64, message string)

// Options configures one analysis run
type Options struct {
	Provider       inference.Provider
	Model          string
	TranscriptText string
	Segments       []transcript.Segment
	OutputFile     string
	CustomPrompt   string
	TitleContext   string
	Categories     []category.Category

	ChunkMinutes   int
	SectionTimeout time.Duration
	QuoteTimeout   time.Duration
	SummaryTimeout time.Duration
	TagTimeout     time.Duration
	TitleTimeout   time.Duration
	ProbeTimeout   time.Duration
}

// Pipeline drives the end-to-end analysis run: chunk iteration, retry
// policy, failure isolation, safety-net section generation, tag extraction,
// summary and title generation, and progress reporting. Chunk and section
// processing is strictly sequential.
type Pipeline struct {
	opts       Options
	gateway    *inference.Gateway
	prompts    *prompt.Builder
	responses  *parser.ResponseParser
	analyzer   *analyzer.Analyzer
	correlator *transcript.Correlator
	writer     *report.Writer
	probe      *inference.Probe
	progress   ProgressFunc
	logger     *zap.Logger
	runID      string

	failedChunks int
}

// New creates a Pipeline, failing fast on configuration errors: an invalid
// category set or an unavailable provider is missing setup, not a transient
// failure, and is never retried.
func New(registry *inference.Registry, ollamaEndpoint string, opts Options, progress ProgressFunc, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if progress == nil {
		progress = func(string, *float64, string) {}
	}

	prompts, err := prompt.NewBuilder(opts.Categories, opts.CustomPrompt, opts.TitleContext)
	if err != nil {
		return nil, err
	}

	gateway, err := registry.Gateway(opts.Provider)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	runLogger := logger.With(zap.String("run_id", runID))

	return &Pipeline{
		opts:       opts,
		gateway:    gateway,
		prompts:    prompts,
		responses:  parser.NewResponseParserWithLogger(runLogger),
		analyzer:   analyzer.NewAnalyzer(gateway, prompts, opts.Model, opts.QuoteTimeout, runLogger),
		correlator: transcript.NewCorrelatorWithLogger(transcript.DefaultMatchThreshold, runLogger),
		writer:     report.NewWriterWithLogger(opts.OutputFile, runLogger),
		probe:      inference.NewProbeWithLogger(ollamaEndpoint, opts.ProbeTimeout, runLogger),
		progress:   progress,
		logger:     runLogger,
		runID:      runID,
	}, nil
}

// Run executes the analysis and always returns a usable Result when the
// preconditions hold, even if every chunk fails
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	p.logger.Info("starting analysis run",
		zap.String("provider", string(p.opts.Provider)),
		zap.String("model", p.opts.Model),
		zap.Int("segment_count", len(p.opts.Segments)))

	p.report(pct(65), fmt.Sprintf("Starting AI analysis with %s...", p.opts.Model))

	// Backend unavailability fails the whole run before any analysis work;
	// cloud providers surface their own errors per call
	if p.opts.Provider == inference.ProviderOllama {
		if !p.probe.CheckModel(ctx, p.opts.Model) {
			return nil, fmt.Errorf("model %q is not available from the local inference server", p.opts.Model)
		}
	}

	if err := p.writer.Init(); err != nil {
		p.logger.Warn("failed to initialize output file", zap.Error(err))
	}

	chunks := transcript.ChunkSegments(p.opts.Segments, p.opts.ChunkMinutes)
	p.report(pct(70), fmt.Sprintf("Analyzing %d chunks...", len(chunks)))

	sections := p.processChunks(ctx, chunks)

	// The run must never end with an empty report
	if len(sections) == 0 {
		fallback := p.safetyNetSection()
		p.appendSection(fallback)
		sections = append(sections, fallback)
	}

	result := &Result{
		SectionsCount: len(sections),
		Sections:      sections,
	}

	p.report(pct(90), "Extracting tags and generating summary...")
	result.Tags = p.extractTags(ctx, sections)
	result.Description = p.generateOverview(ctx, sections)
	result.SuggestedTitle = p.suggestTitle(ctx, result)

	message := fmt.Sprintf("Analysis complete. Found %d sections.", len(sections))
	if p.failedChunks > 0 {
		message = fmt.Sprintf("%s (%d of %d chunks failed)", message, p.failedChunks, len(chunks))
	}
	p.report(pct(100), message)

	p.logger.Info("analysis run completed",
		zap.Int("section_count", len(sections)),
		zap.Int("failed_chunks", p.failedChunks))

	return result, nil
}

// processChunks walks the chunk list sequentially; a chunk that exhausts
// its attempts is recorded as failed and never aborts the run
func (p *Pipeline) processChunks(ctx context.Context, chunks []transcript.Chunk) []analyzer.Section {
	var sections []analyzer.Section

	for i, chunk := range chunks {
		// Single-chunk inputs report indeterminate progress
		var chunkProgress *float64
		if len(chunks) > 1 {
			chunkProgress = pct(70 + float64(i+1)/float64(len(chunks))*20)
		}
		p.report(chunkProgress, fmt.Sprintf("Analyzing chunk %d/%d...", i+1, len(chunks)))

		rawSections, err := p.identifySections(ctx, chunk)
		if err != nil {
			p.failedChunks++
			p.logger.Warn("chunk failed after exhausting attempts",
				zap.Int("chunk", chunk.Index),
				zap.Error(err))
			continue
		}

		p.report(chunkProgress, fmt.Sprintf("Found %d sections in chunk %d", len(rawSections), chunk.Index))

		for _, raw := range rawSections {
			section, ok := p.resolveSection(ctx, raw, chunk)
			if !ok {
				continue
			}
			p.appendSection(*section)
			sections = append(sections, *section)
		}
	}

	return sections
}

// identifySections runs the first inference round for one chunk with up to
// three attempts. Empty responses, refusal phrasing, and unparseable
// responses are all transient; each failure surfaces as an error so the
// retry policy treats them uniformly.
func (p *Pipeline) identifySections(ctx context.Context, chunk transcript.Chunk) ([]parser.RawSection, error) {
	var sections []parser.RawSection
	attempt := 0

	operation := func() error {
		attempt++
		p.logger.Debug("identifying sections",
			zap.Int("chunk", chunk.Index),
			zap.Int("attempt", attempt))

		response, err := p.gateway.Generate(ctx, inference.Request{
			Model:   p.opts.Model,
			Prompt:  p.prompts.SectionIdentification(chunk.Index, chunk.Text),
			Timeout: p.opts.SectionTimeout,
		})
		if err != nil {
			return fmt.Errorf("inference call failed: %w", err)
		}
		if strings.TrimSpace(response) == "" {
			return fmt.Errorf("empty response from model")
		}
		if parser.IsRefusal(response) {
			return fmt.Errorf("model refused to analyze chunk %d", chunk.Index)
		}

		parsed := p.responses.ParseSections(response)
		if len(parsed) == 0 {
			return fmt.Errorf("no sections parsed from response")
		}

		sections = parsed
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(retryInterval), maxChunkAttempts-1),
		ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	return sections, nil
}

// resolveSection turns one RawSection into an analyzed Section. Sections in
// the default category skip the second inference round and are emitted
// directly from the correlated start time and the model's representative
// quote.
func (p *Pipeline) resolveSection(ctx context.Context, raw parser.RawSection, chunk transcript.Chunk) (*analyzer.Section, bool) {
	if strings.EqualFold(raw.Category, category.DefaultName) {
		return p.routineSection(raw, chunk), true
	}
	return p.analyzer.Analyze(ctx, raw, chunk.Segments)
}

// routineSection is the default-category fast path: no quote-extraction
// call, no end time, at most the one representative quote
func (p *Pipeline) routineSection(raw parser.RawSection, chunk transcript.Chunk) *analyzer.Section {
	startTime := chunk.StartTime
	if t, ok := p.correlator.FindTimestamp(raw.StartPhrase, chunk.Segments); ok {
		startTime = t
	}

	startDisplay := transcript.FormatDisplayTime(startTime)

	var quotes []parser.Quote
	if raw.Quote != "" {
		quotes = append(quotes, parser.Quote{Timestamp: startDisplay, Text: raw.Quote})
	}

	return &analyzer.Section{
		Category:    category.DefaultName,
		Description: raw.Description,
		StartTime:   startDisplay,
		EndTime:     nil,
		Quotes:      quotes,
	}
}

// safetyNetSection synthesizes the single whole-video section emitted when
// a run yields nothing at all; unlike the routine fast path it never
// touches inference, and its description comes from inspecting the
// transcript itself
func (p *Pipeline) safetyNetSection() analyzer.Section {
	text := strings.TrimSpace(p.opts.TranscriptText)
	lower := strings.ToLower(text)

	var description string
	switch {
	case text == "":
		description = "No speech detected in this video"
	case len(text) < 80:
		description = "Very short video with minimal spoken content"
	case strings.Contains(lower, "[music]") || strings.Contains(lower, "[applause]") ||
		strings.Contains(lower, "[noise]") || strings.Contains(lower, "♪"):
		description = "Video contains mostly music or ambient audio"
	default:
		description = "General video content without notable flagged sections"
	}

	p.logger.Info("synthesizing safety-net section", zap.String("description", description))

	section := analyzer.Section{
		Category:    category.DefaultName,
		Description: description,
		StartTime:   transcript.FormatDisplayTime(0),
		Quotes:      []parser.Quote{},
	}

	if duration := transcript.TotalDuration(p.opts.Segments); duration > 0 {
		endDisplay := transcript.FormatDisplayTime(duration)
		section.EndTime = &endDisplay
	}

	return section
}

// appendSection mirrors one completed section into the report file.
// Write errors are logged and never abort the pipeline.
func (p *Pipeline) appendSection(section analyzer.Section) {
	if err := p.writer.AppendSection(section); err != nil {
		p.logger.Warn("failed to write section to output file", zap.Error(err))
	}
}

// report emits one synchronous progress update
func (p *Pipeline) report(progress *float64, message string) {
	p.progress("analysis", progress, message)
}

func pct(v float64) *float64 {
	return &v
}
