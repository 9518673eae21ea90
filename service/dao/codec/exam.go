package codec

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/viant/grader/model"
	"github.com/viant/parsly"
)

const examFields = 1 + model.QuestionCount

// DecodeExam reads the student id followed by five 0/1 statuses separated by
// whitespace.
func DecodeExam(id string, data []byte) (*model.ExamRecord, error) {
	cursor := parsly.NewCursor(id, data, 0)
	var values [examFields]int
	for i := range values {
		matched := cursor.MatchAfterOptional(blankToken, integerToken)
		if matched.Code != integerToken.Code {
			return nil, cursor.NewError(integerToken)
		}
		value, err := strconv.Atoi(matched.Text(cursor))
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", matched.Text(cursor), err)
		}
		if value < math.MinInt32 || value > math.MaxInt32 {
			return nil, fmt.Errorf("value %d out of range", value)
		}
		values[i] = value
	}
	record := &model.ExamRecord{ID: id, StudentID: values[0], Loaded: true}
	for q := 0; q < model.QuestionCount; q++ {
		switch values[q+1] {
		case 0:
		case 1:
			record.Questions[q] = true
		default:
			return nil, fmt.Errorf("question %d has status %d", q+1, values[q+1])
		}
	}
	return record, nil
}

// EncodeExam writes the record as six lines.
func EncodeExam(record *model.ExamRecord) []byte {
	var buf bytes.Buffer
	buf.WriteString(strconv.Itoa(record.StudentID))
	buf.WriteByte('\n')
	for _, marked := range record.Questions {
		buf.WriteString(status(marked))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// SetQuestion rewrites the status line of question q in data encoded by
// EncodeExam. Records in any other layout are decoded and encoded anew.
func SetQuestion(id string, data []byte, q int, marked bool) ([]byte, error) {
	if !model.ValidQuestion(q) {
		return nil, fmt.Errorf("invalid question %d", q)
	}
	record, err := DecodeExam(id, data)
	if err != nil {
		return nil, err
	}
	lines := bytes.Split(data, []byte{'\n'})
	if len(lines) < examFields || !isLineLayout(lines) {
		record.Questions[q] = marked
		return EncodeExam(record), nil
	}
	lines[q+1] = []byte(status(marked))
	return bytes.Join(lines, []byte{'\n'}), nil
}

func isLineLayout(lines [][]byte) bool {
	for i := 0; i < examFields; i++ {
		if len(bytes.Fields(lines[i])) != 1 {
			return false
		}
	}
	for _, line := range lines[examFields:] {
		if len(bytes.TrimSpace(line)) != 0 {
			return false
		}
	}
	return true
}

func status(marked bool) string {
	if marked {
		return "1"
	}
	return "0"
}
