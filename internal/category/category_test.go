package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnabled(t *testing.T) {
	t.Run("should filter out disabled categories", func(t *testing.T) {
		// Arrange
		categories := []Category{
			{Name: "profanity", Description: "strong language", Enabled: true},
			{Name: "politics", Description: "political content", Enabled: false},
			{Name: "violence", Description: "violent content", Enabled: true},
		}

		// Act
		enabled := Enabled(categories)

		// Assert
		assert.Len(t, enabled, 2)
		assert.Equal(t, "profanity", enabled[0].Name)
		assert.Equal(t, "violence", enabled[1].Name)
	})

	t.Run("should exclude the implicit default category even when enabled", func(t *testing.T) {
		// Arrange
		categories := []Category{
			{Name: DefaultName, Description: "everything else", Enabled: true},
			{Name: "profanity", Description: "strong language", Enabled: true},
		}

		// Act
		enabled := Enabled(categories)

		// Assert
		assert.Len(t, enabled, 1)
		assert.Equal(t, "profanity", enabled[0].Name)
	})

	t.Run("should return empty for nil input", func(t *testing.T) {
		// Act
		enabled := Enabled(nil)

		// Assert
		assert.Empty(t, enabled)
	})
}

func TestValidate(t *testing.T) {
	t.Run("should accept a set with an enabled specific category", func(t *testing.T) {
		// Arrange
		categories := []Category{
			{Name: "profanity", Description: "strong language", Enabled: true},
		}

		// Act
		err := Validate(categories)

		// Assert
		assert.NoError(t, err)
	})

	t.Run("should reject an empty set", func(t *testing.T) {
		// Act
		err := Validate(nil)

		// Assert
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no analysis categories configured")
	})

	t.Run("should reject a set with only disabled categories", func(t *testing.T) {
		// Arrange
		categories := []Category{
			{Name: "profanity", Description: "strong language", Enabled: false},
		}

		// Act
		err := Validate(categories)

		// Assert
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no analysis categories enabled")
	})

	t.Run("should reject a set containing only the default category", func(t *testing.T) {
		// Arrange
		categories := []Category{
			{Name: DefaultName, Description: "everything else", Enabled: true},
		}

		// Act
		err := Validate(categories)

		// Assert
		assert.Error(t, err)
	})
}
