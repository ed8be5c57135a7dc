package analyzer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"videoanalyzer/internal/inference"
	"videoanalyzer/internal/parser"
	"videoanalyzer/internal/prompt"
	"videoanalyzer/internal/transcript"
)

// Section is one fully analyzed content span with display-formatted times.
// For the default category EndTime may be nil and Quotes may hold a single
// representative entry or none.
type Section struct {
	Category    string         `json:"category"`
	Description string         `json:"description"`
	StartTime   string         `json:"start_time"`
	EndTime     *string        `json:"end_time"`
	Quotes      []parser.Quote `json:"quotes"`
}

const (
	// orderingBuffer extends the end time when the model's phrase ordering
	// resolves backwards; approximate ordering is not an error
	orderingBuffer = 30.0
	// rangeWidening is the one-shot window expansion when the resolved
	// range contains no segments
	rangeWidening = 5.0
)

// Analyzer runs the two-phase per-section pipeline: correlate phrases to
// times, extract the sub-transcript, request quotes, parse quotes. A section
// that fails any step is dropped, not retried; a missing phrase match is not
// considered transient.
type Analyzer struct {
	gateway      *inference.Gateway
	responses    *parser.ResponseParser
	correlator   *transcript.Correlator
	prompts      *prompt.Builder
	model        string
	quoteTimeout time.Duration
	logger       *zap.Logger
}

// NewAnalyzer creates an Analyzer over the given gateway and prompt builder
func NewAnalyzer(gateway *inference.Gateway, prompts *prompt.Builder, model string, quoteTimeout time.Duration, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		gateway:      gateway,
		responses:    parser.NewResponseParserWithLogger(logger),
		correlator:   transcript.NewCorrelatorWithLogger(transcript.DefaultMatchThreshold, logger),
		prompts:      prompts,
		model:        model,
		quoteTimeout: quoteTimeout,
		logger:       logger,
	}
}

// Analyze resolves one RawSection into a Section, or reports false when the
// section is skipped
func (a *Analyzer) Analyze(ctx context.Context, raw parser.RawSection, segments []transcript.Segment) (*Section, bool) {
	startTime, ok := a.correlator.FindTimestamp(raw.StartPhrase, segments)
	if !ok {
		a.logger.Debug("section skipped: start phrase did not correlate",
			zap.String("start_phrase", raw.StartPhrase),
			zap.String("category", raw.Category))
		return nil, false
	}

	endTime, ok := a.correlator.FindTimestamp(raw.EndPhrase, segments)
	if !ok {
		a.logger.Debug("section skipped: end phrase did not correlate",
			zap.String("end_phrase", raw.EndPhrase),
			zap.String("category", raw.Category))
		return nil, false
	}

	// Model-provided phrase ordering can be approximate
	if endTime <= startTime {
		endTime = startTime + orderingBuffer
	}

	contained := segmentsInRange(segments, startTime, endTime)
	if len(contained) == 0 {
		contained = segmentsInRange(segments, startTime-rangeWidening, endTime+rangeWidening)
	}
	if len(contained) == 0 {
		a.logger.Debug("section skipped: no segments in resolved range",
			zap.Float64("start_time", startTime),
			zap.Float64("end_time", endTime))
		return nil, false
	}

	timestampedText := transcript.BuildTimestampedTranscript(contained)

	response, err := a.gateway.Generate(ctx, inference.Request{
		Model:   a.model,
		Prompt:  a.prompts.QuoteExtraction(raw.Category, raw.Description, timestampedText),
		Timeout: a.quoteTimeout,
	})
	if err != nil || response == "" {
		a.logger.Warn("section skipped: quote extraction returned nothing",
			zap.String("category", raw.Category),
			zap.Error(err))
		return nil, false
	}

	quotes := a.responses.ParseQuotes(response)
	if len(quotes) == 0 {
		a.logger.Debug("section skipped: no quotes parsed",
			zap.String("category", raw.Category))
		return nil, false
	}

	endDisplay := transcript.FormatDisplayTime(endTime)
	section := &Section{
		Category:    raw.Category,
		Description: raw.Description,
		StartTime:   transcript.FormatDisplayTime(startTime),
		EndTime:     &endDisplay,
		Quotes:      quotes,
	}

	a.logger.Info("section analyzed",
		zap.String("category", section.Category),
		zap.String("start_time", section.StartTime),
		zap.String("end_time", endDisplay),
		zap.Int("quote_count", len(quotes)))

	return section, true
}

// segmentsInRange collects segments fully contained in [start, end]
func segmentsInRange(segments []transcript.Segment, start, end float64) []transcript.Segment {
	var contained []transcript.Segment
	for _, seg := range segments {
		if seg.Start >= start && seg.End <= end {
			contained = append(contained, seg)
		}
	}
	return contained
}
