package parser

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"
)

// ParseQuotes extracts Quotes from a quote-extraction response
func (rp *ResponseParser) ParseQuotes(text string) []Quote {
	if quotes := rp.parseQuotesJSON(text); len(quotes) > 0 {
		return quotes
	}
	return rp.parseQuotesLegacy(text)
}

// parseQuotesJSON attempts the structured mode for the "quotes" payload
func (rp *ResponseParser) parseQuotesJSON(text string) []Quote {
	candidate := extractJSONObject(text, "quotes")
	if candidate == "" {
		return nil
	}

	var payload struct {
		Quotes []Quote `json:"quotes"`
	}
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		rp.logger.Debug("structured quote payload did not parse", zap.Error(err))
		return nil
	}

	quotes := make([]Quote, 0, len(payload.Quotes))
	for _, q := range payload.Quotes {
		q.Timestamp = strings.Trim(strings.TrimSpace(q.Timestamp), "[]")
		q.Text = strings.TrimSpace(q.Text)
		q.Significance = strings.TrimSpace(q.Significance)

		if q.Timestamp == "" || q.Text == "" {
			rp.logger.Debug("discarding quote entry with missing fields",
				zap.String("timestamp", q.Timestamp))
			continue
		}
		quotes = append(quotes, q)
	}

	return quotes
}

// parseQuotesLegacy handles the labeled-line grammar:
//
//	Key quotes:
//	1. Timestamp: [MM:SS]
//	   Quote: "..."
//	   Significance: ...
//
// A Timestamp label starts a new item; an item is kept only when both its
// timestamp and text were found.
func (rp *ResponseParser) parseQuotesLegacy(text string) []Quote {
	headerIdx := strings.Index(strings.ToLower(text), "key quotes:")
	if headerIdx < 0 {
		return []Quote{}
	}

	quotes := []Quote{}
	var current Quote
	inItem := false

	flush := func() {
		if inItem && current.Timestamp != "" && current.Text != "" {
			quotes = append(quotes, current)
		}
		current = Quote{}
	}

	for _, line := range strings.Split(text[headerIdx:], "\n") {
		line = strings.TrimSpace(line)
		// Tolerate "1. Timestamp:" style numbering before the label
		line = strings.TrimLeft(line, "0123456789. ")

		switch {
		case hasPrefixFold(line, "Timestamp:"):
			flush()
			inItem = true
			current.Timestamp = strings.Trim(stripLabelValue(line, "Timestamp:"), "[]")
		case hasPrefixFold(line, "Quote:"):
			current.Text = stripLabelValue(line, "Quote:")
		case hasPrefixFold(line, "Significance:"):
			current.Significance = stripLabelValue(line, "Significance:")
		}
	}
	flush()

	return quotes
}
