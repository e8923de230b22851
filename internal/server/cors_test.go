package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrigins(t *testing.T) {
	p, err := ParseOrigins("http://localhost:8000, https://shop.example.com/ ,/vercel\\.app$/")
	require.NoError(t, err)

	assert.True(t, p.Allows("http://localhost:8000"))
	assert.True(t, p.Allows("https://shop.example.com"))
	assert.True(t, p.Allows("https://preview-123.vercel.app"))
	assert.False(t, p.Allows("http://localhost:7001"))
	assert.False(t, p.Allows("https://vercel.app.evil.com"))
	assert.False(t, p.Empty())
}

func TestParseOrigins_Wildcard(t *testing.T) {
	p, err := ParseOrigins("*")
	require.NoError(t, err)
	assert.True(t, p.Allows("https://anything.example.org"))
}

func TestParseOrigins_Empty(t *testing.T) {
	for _, list := range []string{"", " , ,"} {
		p, err := ParseOrigins(list)
		require.NoError(t, err)
		assert.True(t, p.Empty())
		assert.False(t, p.Allows("http://localhost:8000"))
	}
}

func TestParseOrigins_InvalidPattern(t *testing.T) {
	_, err := ParseOrigins("/[a-/")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid origin pattern")
}
