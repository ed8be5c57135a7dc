package transcript

import "strings"

// Chunk is a fixed-duration grouping of consecutive segments used to bound
// a single inference request
type Chunk struct {
	Index     int       `json:"index"`
	StartTime float64   `json:"start_time"`
	EndTime   float64   `json:"end_time"`
	Text      string    `json:"text"`
	Segments  []Segment `json:"segments"`
}

// ChunkSegments partitions the segment timeline into fixed-duration windows.
// The cursor advances by whole windows regardless of speech gaps; a window
// with no segments is dropped, so chunk indices are dense over non-empty
// windows only. A segment belongs to the window containing its start time.
func ChunkSegments(segments []Segment, chunkMinutes int) []Chunk {
	if len(segments) == 0 {
		return []Chunk{}
	}

	chunkDuration := float64(chunkMinutes) * 60
	totalDuration := TotalDuration(segments)

	var chunks []Chunk
	currentStart := 0.0
	chunkNum := 1

	for currentStart < totalDuration {
		chunkEnd := currentStart + chunkDuration

		var chunkSegments []Segment
		for _, seg := range segments {
			if seg.Start >= currentStart && seg.Start < chunkEnd {
				chunkSegments = append(chunkSegments, seg)
			}
		}

		if len(chunkSegments) > 0 {
			texts := make([]string, 0, len(chunkSegments))
			for _, seg := range chunkSegments {
				texts = append(texts, strings.TrimSpace(seg.Text))
			}

			endTime := chunkEnd
			if totalDuration < endTime {
				endTime = totalDuration
			}

			chunks = append(chunks, Chunk{
				Index:     chunkNum,
				StartTime: currentStart,
				EndTime:   endTime,
				Text:      strings.Join(texts, " "),
				Segments:  chunkSegments,
			})
			chunkNum++
		}

		currentStart = chunkEnd
	}

	return chunks
}
