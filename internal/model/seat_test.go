package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeatCode(t *testing.T) {
	row, col, err := ParseSeatCode("D10")
	require.NoError(t, err)
	assert.Equal(t, "D", row)
	assert.Equal(t, 10, col)

	for _, code := range []string{"", "A", "A0", "A01", "A+1", "A-1", "A 1", "a1", "1A", "A1.0", "A١"} {
		_, _, err := ParseSeatCode(code)
		assert.Error(t, err, code)
	}
}

func TestLayoutContains(t *testing.T) {
	l := DefaultLayout
	assert.True(t, l.Contains("A1"))
	assert.True(t, l.Contains("E10"))
	assert.False(t, l.Contains("F1"))
	assert.False(t, l.Contains("A11"))
	assert.False(t, l.Contains("A+1"))
	assert.Len(t, l.Codes(), 50)
}
