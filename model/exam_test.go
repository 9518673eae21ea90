package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExamRecord_IsFullyMarked(t *testing.T) {
	record := &ExamRecord{StudentID: 1}
	assert.False(t, record.IsFullyMarked())
	for i := 0; i < QuestionCount-1; i++ {
		record.Questions[i] = true
	}
	assert.False(t, record.IsFullyMarked())
	assert.Equal(t, 4, record.Marked())
	record.Questions[QuestionCount-1] = true
	assert.True(t, record.IsFullyMarked())

	var empty *ExamRecord
	assert.False(t, empty.IsFullyMarked())
}

func TestExamRecord_String(t *testing.T) {
	record := &ExamRecord{StudentID: 42, Questions: [QuestionCount]bool{true, false, true, false, false}}
	assert.Equal(t, "0042 [1 0 1 0 0]", record.String())
	assert.True(t, (&ExamRecord{StudentID: SentinelStudentID}).IsSentinel())
}
