package transcript

import (
	"fmt"
	"strings"
)

// FormatDisplayTime formats seconds for display as M:SS, or H:MM:SS for
// times of an hour or more
func FormatDisplayTime(seconds float64) string {
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := int(seconds) % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// maxSubtranscriptSegments bounds the timestamped sub-transcript so the
// second inference request stays small
const maxSubtranscriptSegments = 200

// BuildTimestampedTranscript renders segments as "[M:SS] text" lines,
// bounded to the first 200 segments
func BuildTimestampedTranscript(segments []Segment) string {
	limit := len(segments)
	if limit > maxSubtranscriptSegments {
		limit = maxSubtranscriptSegments
	}

	lines := make([]string, 0, limit)
	for _, seg := range segments[:limit] {
		lines = append(lines, fmt.Sprintf("[%s] %s", FormatDisplayTime(seg.Start), strings.TrimSpace(seg.Text)))
	}
	return strings.Join(lines, "\n")
}
