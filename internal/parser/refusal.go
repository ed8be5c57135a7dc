package parser

import "strings"

// refusalWindow bounds the scan to the opening of the response; refusals
// lead with the declination even when valid-looking content follows.
const refusalWindow = 200

// refusalPhrases are opening markers of a model declining to analyze
var refusalPhrases = []string{
	"i can't",
	"i cannot",
	"i won't",
	"i will not",
	"i'm not able",
	"i am not able",
	"i'm unable",
	"i am unable",
	"i must decline",
	"i'm sorry, but",
	"i apologize, but",
	"as an ai",
	"can't assist",
	"cannot assist",
	"can't help with",
	"cannot help with",
	"unable to assist",
	"not able to assist",
	"against my guidelines",
	"i don't feel comfortable",
}

// IsRefusal reports whether the response opens with known refusal phrasing.
// A refusal is treated as a transient failure and retried, even if the same
// text happens to contain parseable content later on.
func IsRefusal(text string) bool {
	window := strings.ToLower(text)
	if len(window) > refusalWindow {
		window = window[:refusalWindow]
	}

	for _, phrase := range refusalPhrases {
		if strings.Contains(window, phrase) {
			return true
		}
	}
	return false
}
