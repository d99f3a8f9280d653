package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCategoryName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "Programming", "programming"},
		{"trims whitespace", "  fiction  ", "fiction"},
		{"collapses hyphens", "Sci-Fi", "sci fi"},
		{"collapses underscores", "science_fiction", "science fiction"},
		{"collapses mixed separator runs", "web -_ development", "web development"},
		{"hyphen and surrounding spaces", "  Sci-Fi  ", "sci fi"},
		{"inner whitespace run", "open\t\nsource", "open source"},
		{"empty", "", ""},
		{"separators only", " -_- ", ""},
		{"cyrillic", "НОВИНКИ", "новинки"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeCategoryName(tt.input))
		})
	}
}

func TestNormalizeCategoryName_Idempotent(t *testing.T) {
	inputs := []string{"  Sci-Fi  ", "science_fiction", "Open  Source", "новинки"}

	for _, input := range inputs {
		once := NormalizeCategoryName(input)
		assert.Equal(t, once, NormalizeCategoryName(once))
	}
}

func TestNormalizeCategoryName_VariantsCollide(t *testing.T) {
	variants := []string{"Sci-Fi", "sci_fi", "SCI FI", "  sci-fi  "}

	first := NormalizeCategoryName(variants[0])
	for _, v := range variants[1:] {
		assert.Equal(t, first, NormalizeCategoryName(v))
	}
}

func TestTitleCaseName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"java", "Java"},
		{"jAvA", "Java"},
		{"open source", "Open Source"},
		{"WEB DEVELOPMENT", "Web Development"},
		{"sci-fi", "Sci-fi"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, TitleCaseName(tt.input))
	}
}
