package pipeline

import "videoanalyzer/internal/analyzer"

// Tags are the extracted people and topic labels
type Tags struct {
	People []string `json:"people"`
	Topics []string `json:"topics"`
}

// Result is the terminal analysis payload. It is always produced, even for
// degraded runs; SectionsCount is at least 1 for any non-empty transcript.
type Result struct {
	SectionsCount  int                `json:"sections_count"`
	Sections       []analyzer.Section `json:"sections"`
	Tags           Tags               `json:"tags"`
	Description    string             `json:"description"`
	SuggestedTitle *string            `json:"suggested_title"`
}
