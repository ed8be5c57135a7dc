package transcript

import (
	"fmt"
	"strings"
)

// GenerateSRT renders segments as an SRT subtitle track
func GenerateSRT(segments []Segment) string {
	var b strings.Builder

	for i, seg := range segments {
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", formatSRTTimestamp(seg.Start), formatSRTTimestamp(seg.End))
		b.WriteString(strings.TrimSpace(seg.Text))
		b.WriteString("\n\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// formatSRTTimestamp formats seconds as HH:MM:SS,mmm
func formatSRTTimestamp(seconds float64) string {
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := int(seconds) % 60
	millis := int((seconds - float64(int(seconds))) * 1000)

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
