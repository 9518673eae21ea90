package model

import "fmt"

const (
	// MaxRubricEntries caps the number of rubric entries held in shared memory.
	MaxRubricEntries = 50

	// MinSymbol is the lowest symbol a rubric entry can hold.
	MinSymbol byte = 32
	// MaxSymbol is the highest symbol a rubric entry can hold.
	MaxSymbol byte = 126
	// WrapSymbol is the symbol assigned when advancing past MaxSymbol.
	WrapSymbol byte = ' '
)

// RubricEntry pairs an exercise with its expected answer symbol.
type RubricEntry struct {
	ExerciseID int  `json:"exerciseId" yaml:"exerciseId"`
	Symbol     byte `json:"symbol" yaml:"symbol"`
}

// String returns the entry in its persisted "id,symbol" form.
func (e RubricEntry) String() string {
	return fmt.Sprintf("%d,%c", e.ExerciseID, e.Symbol)
}

// Advance returns a copy of the entry with its symbol moved one position.
func (e RubricEntry) Advance() RubricEntry {
	e.Symbol = AdvanceSymbol(e.Symbol)
	return e
}

// IsPrintable reports whether c is inside the rubric symbol range.
func IsPrintable(c byte) bool {
	return c >= MinSymbol && c <= MaxSymbol
}

// AdvanceSymbol moves c one position forward in the printable range,
// wrapping to WrapSymbol after MaxSymbol.
func AdvanceSymbol(c byte) byte {
	if c >= MaxSymbol || c < MinSymbol {
		return WrapSymbol
	}
	return c + 1
}

// IsAdvanceOf reports whether next is either prev or AdvanceSymbol(prev).
func IsAdvanceOf(prev, next byte) bool {
	return next == prev || next == AdvanceSymbol(prev)
}
