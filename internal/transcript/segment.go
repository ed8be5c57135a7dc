package transcript

import "fmt"

// Segment represents a single timestamped unit of transcribed speech as
// produced by the speech-to-text engine
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Validate checks if the Segment has valid values
func (s *Segment) Validate() error {
	if s.Start < 0 {
		return fmt.Errorf("start cannot be negative")
	}

	if s.End < s.Start {
		return fmt.Errorf("end cannot be before start")
	}

	return nil
}

// TotalDuration returns the end time of the last segment, or zero for an
// empty list
func TotalDuration(segments []Segment) float64 {
	if len(segments) == 0 {
		return 0
	}
	return segments[len(segments)-1].End
}
