package parser

import (
	"encoding/json"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// ResponseParser extracts structured sections and quotes from free-form
// model text. It prefers an embedded JSON object and falls back to the
// delimited legacy text grammar. Both entry points are total: malformed
// input yields an empty list, never an error.
type ResponseParser struct {
	logger *zap.Logger
	// Pre-compiled item marker for the legacy grammar
	sectionMarkerRegex *regexp.Regexp
}

// NewResponseParser creates a new ResponseParser
func NewResponseParser() *ResponseParser {
	return NewResponseParserWithLogger(nil)
}

// NewResponseParserWithLogger creates a new ResponseParser with the given logger
func NewResponseParserWithLogger(logger *zap.Logger) *ResponseParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponseParser{
		logger:             logger,
		sectionMarkerRegex: regexp.MustCompile(`(?i)\bsection\s+\d+\s*:`),
	}
}

// ParseSections extracts RawSections from a section-identification response
func (rp *ResponseParser) ParseSections(text string) []RawSection {
	if sections := rp.parseSectionsJSON(text); len(sections) > 0 {
		return sections
	}
	return rp.parseSectionsLegacy(text)
}

// parseSectionsJSON attempts the structured mode: find the embedded JSON
// object with a "sections" key and keep only entries carrying every
// required field, discarding malformed entries individually.
func (rp *ResponseParser) parseSectionsJSON(text string) []RawSection {
	candidate := extractJSONObject(text, "sections")
	if candidate == "" {
		return nil
	}

	var payload struct {
		Sections []RawSection `json:"sections"`
	}
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		rp.logger.Debug("structured section payload did not parse", zap.Error(err))
		return nil
	}

	sections := make([]RawSection, 0, len(payload.Sections))
	for _, s := range payload.Sections {
		s.StartPhrase = strings.TrimSpace(s.StartPhrase)
		s.EndPhrase = strings.TrimSpace(s.EndPhrase)
		s.Category = strings.TrimSpace(s.Category)
		s.Description = strings.TrimSpace(s.Description)
		s.Quote = strings.TrimSpace(s.Quote)

		if s.StartPhrase == "" || s.EndPhrase == "" || s.Category == "" || s.Description == "" {
			rp.logger.Debug("discarding section entry with missing fields",
				zap.String("category", s.Category),
				zap.String("description", s.Description))
			continue
		}
		sections = append(sections, s)
	}

	return sections
}

// parseSectionsLegacy handles the labeled-line grammar some models emit
// despite the JSON instructions:
//
//	INTERESTING SECTIONS:
//	Section 1:
//	Start: "..."
//	End: "..."
//	Category: ...
//	Description: ...
func (rp *ResponseParser) parseSectionsLegacy(text string) []RawSection {
	headerIdx := strings.Index(strings.ToLower(text), "interesting sections:")
	if headerIdx < 0 {
		return []RawSection{}
	}

	body := text[headerIdx:]
	if boringIdx := strings.Index(strings.ToLower(body), "boring sections:"); boringIdx >= 0 {
		body = body[:boringIdx]
	}

	markers := rp.sectionMarkerRegex.FindAllStringIndex(body, -1)
	sections := make([]RawSection, 0, len(markers))

	for i, marker := range markers {
		itemEnd := len(body)
		if i+1 < len(markers) {
			itemEnd = markers[i+1][0]
		}
		item := body[marker[1]:itemEnd]

		var section RawSection
		for _, line := range strings.Split(item, "\n") {
			line = strings.TrimSpace(line)
			switch {
			case hasPrefixFold(line, "Start:"):
				section.StartPhrase = stripLabelValue(line, "Start:")
			case hasPrefixFold(line, "End:"):
				section.EndPhrase = stripLabelValue(line, "End:")
			case hasPrefixFold(line, "Category:"):
				section.Category = stripLabelValue(line, "Category:")
			case hasPrefixFold(line, "Description:"):
				section.Description = stripLabelValue(line, "Description:")
			}
		}

		if section.StartPhrase == "" || section.EndPhrase == "" || section.Category == "" || section.Description == "" {
			continue
		}
		sections = append(sections, section)
	}

	return sections
}

// hasPrefixFold reports whether the line starts with the label, ignoring case
func hasPrefixFold(line, label string) bool {
	return len(line) >= len(label) && strings.EqualFold(line[:len(label)], label)
}

// stripLabelValue removes the label prefix and surrounding quotes/whitespace
func stripLabelValue(line, label string) string {
	return strings.Trim(strings.TrimSpace(line[len(label):]), `"'`)
}
