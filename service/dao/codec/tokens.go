package codec

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes
const (
	whitespaceCode = iota
	blankCode
	integerCode
	commaCode
	symbolCode
)

// Token definitions
var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	blankToken      = parsly.NewToken(blankCode, "Blank", &blankMatcher{})
	integerToken    = parsly.NewToken(integerCode, "Integer", &integerMatcher{})
	commaToken      = parsly.NewToken(commaCode, ",", matcher.NewByte(','))
	symbolToken     = parsly.NewToken(symbolCode, "Symbol", &symbolMatcher{})
)

// integerMatcher matches an optionally signed decimal integer
type integerMatcher struct{}

func (m *integerMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize
	if pos >= size {
		return 0
	}
	matched := 0
	if input[pos] == '-' || input[pos] == '+' {
		matched++
	}
	digits := 0
	for i := pos + matched; i < size && isDigit(input[i]); i++ {
		digits++
	}
	if digits == 0 {
		return 0
	}
	return matched + digits
}

// symbolMatcher matches exactly one printable byte
type symbolMatcher struct{}

func (m *symbolMatcher) Match(cursor *parsly.Cursor) int {
	if cursor.Pos >= cursor.InputSize {
		return 0
	}
	c := cursor.Input[cursor.Pos]
	if c < 32 || c > 126 {
		return 0
	}
	return 1
}

// blankMatcher matches any run of spaces, tabs and line breaks
type blankMatcher struct{}

func (m *blankMatcher) Match(cursor *parsly.Cursor) int {
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize; i++ {
		switch cursor.Input[i] {
		case ' ', '\t', '\r', '\n', '\v', '\f':
			matched++
			continue
		}
		break
	}
	return matched
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
