package transcript

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkSegments(t *testing.T) {
	t.Run("should split segments spanning 620s into three 5-minute chunks", func(t *testing.T) {
		// Arrange
		var segments []Segment
		for i := 0; i < 100; i++ {
			start := float64(i) * 6.2
			segments = append(segments, Segment{Start: start, End: start + 6.2, Text: fmt.Sprintf("segment %d", i)})
		}

		// Act
		chunks := ChunkSegments(segments, 5)

		// Assert
		require.Len(t, chunks, 3)
		assert.Equal(t, 1, chunks[0].Index)
		assert.Equal(t, 0.0, chunks[0].StartTime)
		assert.Equal(t, 300.0, chunks[0].EndTime)
		assert.Equal(t, 2, chunks[1].Index)
		assert.Equal(t, 300.0, chunks[1].StartTime)
		assert.Equal(t, 600.0, chunks[1].EndTime)
		assert.Equal(t, 3, chunks[2].Index)
		assert.Equal(t, 600.0, chunks[2].StartTime)
		assert.InDelta(t, 620.0, chunks[2].EndTime, 0.001)
	})

	t.Run("should reproduce full text when chunk texts are concatenated", func(t *testing.T) {
		// Arrange
		segments := []Segment{
			{Start: 0, End: 50, Text: " one "},
			{Start: 50, End: 100, Text: "two"},
			{Start: 100, End: 150, Text: "three "},
			{Start: 150, End: 200, Text: "four"},
		}

		// Act
		chunks := ChunkSegments(segments, 2)

		// Assert
		var parts []string
		for _, c := range chunks {
			parts = append(parts, c.Text)
		}
		assert.Equal(t, "one two three four", strings.Join(parts, " "))
	})

	t.Run("should assign each segment to exactly one chunk", func(t *testing.T) {
		// Arrange
		segments := []Segment{
			{Start: 0, End: 30, Text: "a"},
			{Start: 59.9, End: 65, Text: "b"},
			{Start: 60.0, End: 70, Text: "c"},
			{Start: 119, End: 125, Text: "d"},
		}

		// Act
		chunks := ChunkSegments(segments, 1)

		// Assert
		total := 0
		for _, c := range chunks {
			total += len(c.Segments)
		}
		assert.Equal(t, len(segments), total)
		// Window membership is [start, end): 59.9 stays in the first window
		assert.Equal(t, []Segment{segments[0], segments[1]}, chunks[0].Segments)
		assert.Equal(t, []Segment{segments[2]}, chunks[1].Segments)
	})

	t.Run("should drop empty windows without shifting the cursor", func(t *testing.T) {
		// Arrange: speech only in the first and fourth minute
		segments := []Segment{
			{Start: 10, End: 20, Text: "early"},
			{Start: 185, End: 195, Text: "late"},
		}

		// Act
		chunks := ChunkSegments(segments, 1)

		// Assert: dense indices, but window boundaries stay time-driven
		require.Len(t, chunks, 2)
		assert.Equal(t, 1, chunks[0].Index)
		assert.Equal(t, 0.0, chunks[0].StartTime)
		assert.Equal(t, 2, chunks[1].Index)
		assert.Equal(t, 180.0, chunks[1].StartTime)
	})

	t.Run("should return empty chunk list for empty segment list", func(t *testing.T) {
		// Act
		chunks := ChunkSegments(nil, 5)

		// Assert
		assert.Empty(t, chunks)
	})
}
