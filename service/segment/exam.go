package segment

import (
	"context"
	"fmt"

	"github.com/viant/grader/internal/shm"
	"github.com/viant/grader/model"
)

// ExamSource supplies exam records by identifier.
type ExamSource interface {
	Load(ctx context.Context, id string) (*model.ExamRecord, error)
}

// ExamSlot holds one exam record at a time together with the 1-based
// ordinal of that exam in the run's exam list.
type ExamSlot struct {
	region *shm.Region
}

// CreateExamSlot allocates an empty exam slot.
func CreateExamSlot(factory shm.Factory, name string) (*ExamSlot, error) {
	region, err := create(factory, name, examWords, examMagic)
	if err != nil {
		return nil, err
	}
	return &ExamSlot{region: region}, nil
}

// AttachExamSlot maps an existing exam slot.
func AttachExamSlot(factory shm.Factory, name string) (*ExamSlot, error) {
	region, err := attach(factory, name, examWords, examMagic)
	if err != nil {
		return nil, err
	}
	return &ExamSlot{region: region}, nil
}

// Name returns the segment name.
func (s *ExamSlot) Name() string { return s.region.Name() }

// Load replaces the slot content with examID read from source. It returns 1
// on success; on failure it returns 0 with the cause and leaves the slot
// untouched.
func (s *ExamSlot) Load(ctx context.Context, source ExamSource, ordinal int, examID string) (int, error) {
	record, err := source.Load(ctx, examID)
	if err != nil {
		return 0, fmt.Errorf("failed to load exam %s: %w", examID, err)
	}
	s.Put(ordinal, record)
	return 1, nil
}

// Put writes record into the slot under ordinal.
func (s *ExamSlot) Put(ordinal int, record *model.ExamRecord) {
	s.region.Store(examOrdinal, 0)
	s.region.Store(examStudent, uint32(record.StudentID))
	for q, marked := range record.Questions {
		s.region.Store(examStatus+q, boolWord(marked))
	}
	s.region.Store(examLoaded, 1)
	s.region.Store(examOrdinal, uint32(ordinal))
}

// Holds reports whether the slot currently contains the exam with ordinal.
func (s *ExamSlot) Holds(ordinal int) bool {
	return ordinal > 0 && int(s.region.Load(examOrdinal)) == ordinal
}

// Ordinal returns the ordinal of the resident exam, 0 when empty.
func (s *ExamSlot) Ordinal() int {
	return int(s.region.Load(examOrdinal))
}

// StudentID returns the resident student id.
func (s *ExamSlot) StudentID() int {
	return int(int32(s.region.Load(examStudent)))
}

// IsSentinel reports whether the resident record is the termination sentinel.
func (s *ExamSlot) IsSentinel() bool {
	return s.region.Load(examLoaded) == 1 && s.StudentID() == model.SentinelStudentID
}

// IsMarked reports whether question q of the resident exam is marked.
func (s *ExamSlot) IsMarked(q int) bool {
	if !model.ValidQuestion(q) {
		return false
	}
	return s.region.Load(examStatus+q) == 1
}

// IsFullyMarked reports whether every question of the resident exam is marked.
func (s *ExamSlot) IsFullyMarked() bool {
	if s.region.Load(examLoaded) != 1 {
		return false
	}
	for q := 0; q < model.QuestionCount; q++ {
		if s.region.Load(examStatus+q) != 1 {
			return false
		}
	}
	return true
}

// Mark sets question q as marked. It refuses with ErrSentinel when the
// resident student is the sentinel.
func (s *ExamSlot) Mark(q int) error {
	if !model.ValidQuestion(q) {
		return fmt.Errorf("%w: %d", ErrQuestion, q)
	}
	if s.StudentID() == model.SentinelStudentID {
		return ErrSentinel
	}
	s.region.Store(examStatus+q, 1)
	return nil
}

// Record returns a snapshot of the resident exam.
func (s *ExamSlot) Record() *model.ExamRecord {
	record := &model.ExamRecord{
		StudentID: s.StudentID(),
		Loaded:    s.region.Load(examLoaded) == 1,
	}
	for q := range record.Questions {
		record.Questions[q] = s.region.Load(examStatus+q) == 1
	}
	return record
}

// Close unmaps the segment.
func (s *ExamSlot) Close() error {
	return s.region.Close()
}
