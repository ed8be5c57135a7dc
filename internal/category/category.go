package category

import "fmt"

// DefaultName is the implicit fallback category for content that does not
// match any configured specific category. It is always available and never
// needs to appear in the supplied set.
const DefaultName = "routine"

// Category is one externally configured classification for flagged content
type Category struct {
	Name        string `json:"name" mapstructure:"name"`
	Description string `json:"description" mapstructure:"description"`
	Enabled     bool   `json:"enabled" mapstructure:"enabled"`
}

// Enabled returns the enabled categories from the set, excluding the
// implicit default
func Enabled(categories []Category) []Category {
	var enabled []Category
	for _, c := range categories {
		if c.Enabled && c.Name != DefaultName {
			enabled = append(enabled, c)
		}
	}
	return enabled
}

// Validate checks that the category set contains at least one enabled entry
// besides the implicit default. An absent or entirely-disabled set is a
// configuration error, never silently defaulted.
func Validate(categories []Category) error {
	if len(categories) == 0 {
		return fmt.Errorf("no analysis categories configured")
	}

	if len(Enabled(categories)) == 0 {
		return fmt.Errorf("no analysis categories enabled")
	}

	return nil
}
