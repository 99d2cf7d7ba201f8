package lib

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Laptops", "laptops"},
		{"spaces", "Gaming Laptops", "gaming-laptops"},
		{"punctuation", "Books & Magazines!", "books-and-magazines"},
		{"diacritics", "Café Équipement", "cafe-equipement"},
		{"already slugged", "usb-c-cables", "usb-c-cables"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugWithSuffix(t *testing.T) {
	first, err := SlugWithSuffix("Gaming Laptops")
	require.NoError(t, err)
	second, err := SlugWithSuffix("Gaming Laptops")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first, "gaming-laptops-"))
	assert.True(t, strings.HasPrefix(second, "gaming-laptops-"))
	assert.NotEqual(t, first, second)
}

func TestGenerateSKU(t *testing.T) {
	sku, err := GenerateSKU("Mechanical Keyboard", 6)
	require.NoError(t, err)

	parts := strings.SplitN(sku, "-", 2)
	require.Len(t, parts, 2)
	assert.Equal(t, "MEC", parts[0])
	assert.Len(t, parts[1], 6)
	for _, r := range parts[1] {
		assert.True(t, (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'), "unexpected SKU character %q", r)
	}
}

func TestGenerateSKUShortName(t *testing.T) {
	sku, err := GenerateSKU("Go", 4)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sku, "GO-"))
}

func TestGenerateRandomTokenUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		token, err := GenerateRandomToken()
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.False(t, seen[token], "duplicate token generated")
		seen[token] = true
	}
}
