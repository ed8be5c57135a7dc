package transcript

import (
	"strings"

	"go.uber.org/zap"
)

// DefaultMatchThreshold is the minimum match score required for a phrase
// to resolve to a segment timestamp
const DefaultMatchThreshold = 0.5

// Correlator maps a quoted phrase back to a segment timestamp via ordered
// fuzzy word matching. It tolerates minor transcription and punctuation
// mismatches between the phrase the model echoed and the verbatim segment
// text, at the cost of being order-sensitive but not contiguity-sensitive.
type Correlator struct {
	threshold float64
	logger    *zap.Logger
}

// NewCorrelator creates a new Correlator with the default match threshold
func NewCorrelator() *Correlator {
	return &Correlator{
		threshold: DefaultMatchThreshold,
		logger:    zap.NewNop(),
	}
}

// NewCorrelatorWithLogger creates a new Correlator with the given threshold and logger
func NewCorrelatorWithLogger(threshold float64, logger *zap.Logger) *Correlator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Correlator{
		threshold: threshold,
		logger:    logger,
	}
}

// FindTimestamp returns the start time of the best-matching segment for the
// phrase, or false if no segment scores at or above the threshold.
//
// Each segment is scanned in a single greedy left-to-right pass: a phrase
// word is consumed the first time a segment word contains it or is contained
// by it, and the segment cursor never moves backwards or reuses a consumed
// word. Phrases built from repeated short words can under-match; downstream
// retry and fallback logic tolerates that imprecision.
func (c *Correlator) FindTimestamp(phrase string, segments []Segment) (float64, bool) {
	phraseWords := strings.Fields(strings.ToLower(phrase))
	if len(phraseWords) == 0 {
		return 0, false
	}

	bestScore := 0.0
	bestStart := 0.0
	found := false

	for _, seg := range segments {
		segWords := strings.Fields(strings.ToLower(seg.Text))

		matched := 0
		cursor := 0
		for _, pw := range phraseWords {
			for cursor < len(segWords) {
				sw := segWords[cursor]
				cursor++
				if strings.Contains(sw, pw) || strings.Contains(pw, sw) {
					matched++
					break
				}
			}
		}

		score := float64(matched) / float64(len(phraseWords))
		if score > bestScore {
			bestScore = score
			bestStart = seg.Start
			found = true
		}
	}

	if !found || bestScore < c.threshold {
		c.logger.Debug("phrase did not correlate to any segment",
			zap.String("phrase", phrase),
			zap.Float64("best_score", bestScore),
			zap.Float64("threshold", c.threshold))
		return 0, false
	}

	c.logger.Debug("phrase correlated to segment",
		zap.String("phrase", phrase),
		zap.Float64("timestamp", bestStart),
		zap.Float64("score", bestScore))

	return bestStart, true
}
