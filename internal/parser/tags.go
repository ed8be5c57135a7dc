package parser

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"
)

// ParseTags extracts the people/topic tag lists from a tag-extraction
// response. Total like the other entry points: malformed input yields
// empty lists.
func (rp *ResponseParser) ParseTags(text string) (people, topics []string) {
	candidate := extractJSONObject(text, "people")
	if candidate == "" {
		candidate = extractJSONObject(text, "topics")
	}
	if candidate == "" {
		return nil, nil
	}

	var payload struct {
		People []string `json:"people"`
		Topics []string `json:"topics"`
	}
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		rp.logger.Debug("tag payload did not parse", zap.Error(err))
		return nil, nil
	}

	for _, p := range payload.People {
		if p = strings.TrimSpace(p); p != "" {
			people = append(people, p)
		}
	}
	for _, t := range payload.Topics {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}

	return people, topics
}
