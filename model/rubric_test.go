package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceSymbol(t *testing.T) {
	testCases := []struct {
		name     string
		symbol   byte
		expected byte
	}{
		{name: "letter", symbol: 'A', expected: 'B'},
		{name: "space", symbol: ' ', expected: '!'},
		{name: "below top", symbol: '}', expected: '~'},
		{name: "top wraps", symbol: '~', expected: ' '},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual := AdvanceSymbol(tc.symbol)
			assert.Equal(t, tc.expected, actual)
			assert.True(t, IsPrintable(actual))
		})
	}
}

func TestAdvanceSymbol_StaysPrintable(t *testing.T) {
	for c := MinSymbol; ; c++ {
		next := AdvanceSymbol(c)
		assert.True(t, IsPrintable(next), "symbol %d", c)
		assert.True(t, IsAdvanceOf(c, next))
		if c == MaxSymbol {
			break
		}
	}
}

func TestRubricEntry_String(t *testing.T) {
	entry := RubricEntry{ExerciseID: 3, Symbol: 'C'}
	assert.Equal(t, "3,C", entry.String())
	assert.Equal(t, "3,D", entry.Advance().String())
}
