package codec

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/viant/grader/model"
	"github.com/viant/parsly"
)

// DecodeRubric reads `exercise,symbol` lines. Blank lines are skipped;
// decoding stops at the first malformed line or after MaxRubricEntries
// entries.
func DecodeRubric(data []byte) []model.RubricEntry {
	var result []model.RubricEntry
	lines := bytes.Split(data, []byte{'\n'})
	for _, line := range lines {
		if len(result) == model.MaxRubricEntries {
			break
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		entry, err := DecodeRubricLine(bytes.TrimSuffix(line, []byte{'\r'}))
		if err != nil {
			break
		}
		result = append(result, *entry)
	}
	return result
}

// DecodeRubricLine parses a single `exercise,symbol` line. Whitespace is
// tolerated around the comma; a single byte after the comma is taken as the
// symbol even when it is a space.
func DecodeRubricLine(line []byte) (*model.RubricEntry, error) {
	cursor := parsly.NewCursor("", line, 0)
	matched := cursor.MatchAfterOptional(whitespaceToken, integerToken)
	if matched.Code != integerToken.Code {
		return nil, cursor.NewError(integerToken)
	}
	exercise, err := strconv.Atoi(matched.Text(cursor))
	if err != nil {
		return nil, fmt.Errorf("invalid exercise id %q: %w", matched.Text(cursor), err)
	}
	matched = cursor.MatchAfterOptional(whitespaceToken, commaToken)
	if matched.Code != commaToken.Code {
		return nil, cursor.NewError(commaToken)
	}
	if cursor.InputSize-cursor.Pos != 1 {
		cursor.MatchOne(whitespaceToken)
	}
	matched = cursor.MatchOne(symbolToken)
	if matched.Code != symbolToken.Code {
		return nil, cursor.NewError(symbolToken)
	}
	entry := &model.RubricEntry{ExerciseID: exercise, Symbol: matched.Text(cursor)[0]}
	cursor.MatchOne(whitespaceToken)
	if cursor.Pos < cursor.InputSize {
		return nil, fmt.Errorf("unexpected trailing %q", line[cursor.Pos:])
	}
	return entry, nil
}

// EncodeRubric writes one `%d,%c` line per entry.
func EncodeRubric(entries []model.RubricEntry) []byte {
	var buf bytes.Buffer
	for _, entry := range entries {
		buf.WriteString(entry.String())
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
