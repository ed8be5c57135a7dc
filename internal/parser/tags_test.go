package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseParser_ParseTags(t *testing.T) {
	t.Run("should parse people and topics from a JSON response", func(t *testing.T) {
		// Arrange
		rp := NewResponseParser()
		response := `{"people": ["Jane Doe", "John Smith"], "topics": ["health", "supplements", "nutrition"]}`

		// Act
		people, topics := rp.ParseTags(response)

		// Assert
		assert.Equal(t, []string{"Jane Doe", "John Smith"}, people)
		assert.Equal(t, []string{"health", "supplements", "nutrition"}, topics)
	})

	t.Run("should parse JSON wrapped in prose", func(t *testing.T) {
		// Arrange
		rp := NewResponseParser()
		response := `Here are the tags:
{"people": ["Jane Doe"], "topics": ["politics"]}
Hope that helps!`

		// Act
		people, topics := rp.ParseTags(response)

		// Assert
		assert.Equal(t, []string{"Jane Doe"}, people)
		assert.Equal(t, []string{"politics"}, topics)
	})

	t.Run("should drop blank entries", func(t *testing.T) {
		// Arrange
		rp := NewResponseParser()
		response := `{"people": ["", "  ", "Jane Doe"], "topics": ["health", ""]}`

		// Act
		people, topics := rp.ParseTags(response)

		// Assert
		assert.Equal(t, []string{"Jane Doe"}, people)
		assert.Equal(t, []string{"health"}, topics)
	})

	t.Run("should handle a topics-only payload", func(t *testing.T) {
		// Arrange
		rp := NewResponseParser()
		response := `{"topics": ["music"]}`

		// Act
		people, topics := rp.ParseTags(response)

		// Assert
		assert.Nil(t, people)
		assert.Equal(t, []string{"music"}, topics)
	})

	t.Run("should return empty lists for arbitrary prose", func(t *testing.T) {
		// Arrange
		rp := NewResponseParser()

		// Act
		people, topics := rp.ParseTags("no structured tags here")

		// Assert
		assert.Nil(t, people)
		assert.Nil(t, topics)
	})
}
