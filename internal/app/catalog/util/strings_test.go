package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapitalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single word", "electronics", "Electronics"},
		{"two words", "electronics gadgets", "Electronics Gadgets"},
		{"leading and trailing spaces", "  electronics gadgets  ", "Electronics Gadgets"},
		{"mixed case", "eLECTRONICS gADGETS", "Electronics Gadgets"},
		{"double spaces collapse", "home  appliances", "Home Appliances"},
		{"already normalized", "Home Appliances", "Home Appliances"},
		{"single letter words", "a b c", "A B C"},
		{"empty string", "", ""},
		{"only spaces", "   ", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Capitalize(tt.input))
		})
	}
}
