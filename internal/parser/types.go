package parser

// RawSection is the model's first-pass judgment about one content span,
// identified by phrases rather than timestamps
type RawSection struct {
	StartPhrase string `json:"start_phrase"`
	EndPhrase   string `json:"end_phrase"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Quote       string `json:"quote,omitempty"`
}

// Quote is one extracted quote with its transcript timestamp
type Quote struct {
	Timestamp    string `json:"timestamp"`
	Text         string `json:"text"`
	Significance string `json:"significance,omitempty"`
}
