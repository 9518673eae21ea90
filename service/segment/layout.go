package segment

import (
	"fmt"

	"github.com/viant/grader/internal/shm"
	"github.com/viant/grader/model"
)

// Default segment names.
const (
	RubricName  = "rubric_shm_obj"
	ExamName    = "exam_shm_object"
	ControlName = "control_shm_obj"
)

const (
	rubricMagic  uint32 = 0x52554252 // RUBR
	examMagic    uint32 = 0x4558414d // EXAM
	controlMagic uint32 = 0x4354524c // CTRL

	magicWord = 0
)

const (
	rubricCount = 1 + iota
	rubricCorrectedBy
	rubricReserved
	rubricEntries
)

const rubricWords = rubricEntries + 2*model.MaxRubricEntries

const (
	examOrdinal = 1 + iota
	examStudent
	examLoaded
	examStatus
)

const examWords = examStatus + model.QuestionCount

const (
	controlTerminated = 1 + iota
	controlTerminatedBy
)

const controlWords = controlTerminatedBy + 1

func create(factory shm.Factory, name string, words int, magic uint32) (*shm.Region, error) {
	region, err := factory.Create(name, words)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAllocation, err)
	}
	region.Store(magicWord, magic)
	return region, nil
}

func attach(factory shm.Factory, name string, words int, magic uint32) (*shm.Region, error) {
	region, err := factory.Attach(name, words)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAttach, err)
	}
	if actual := region.Load(magicWord); actual != magic {
		_ = region.Close()
		return nil, fmt.Errorf("%w: %s has magic %#x, expected %#x", ErrAttach, name, actual, magic)
	}
	return region, nil
}

func boolWord(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}
