package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/viant/grader/model"
	"github.com/viant/grader/service/dao"
)

// Write describes one persisted change.
type Write struct {
	ExamID   string
	Question int
	Marked   bool
}

// Service implements an in-memory, thread-safe exam store. All API methods
// work with copies; every write is appended to a log.
type Service struct {
	exams map[string]*model.ExamRecord
	log   []Write
	mux   sync.RWMutex
}

var _ dao.ExamStore = (*Service)(nil)

func (s *Service) List(_ context.Context) ([]string, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	ids := make([]string, 0, len(s.exams))
	for id := range s.exams {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Service) Load(_ context.Context, id string) (*model.ExamRecord, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mux.RLock()
	defer s.mux.RUnlock()
	record, ok := s.exams[id]
	if !ok {
		return nil, fmt.Errorf("exam %s: %w", id, dao.ErrNotFound)
	}
	if record == nil {
		return nil, fmt.Errorf("exam %s: %w", id, dao.ErrMalformed)
	}
	ret := record.Clone()
	ret.Loaded = true
	return ret, nil
}

func (s *Service) SaveQuestion(_ context.Context, id string, question int, marked bool) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	if !model.ValidQuestion(question) {
		return fmt.Errorf("exam %s: invalid question %d", id, question)
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	record, ok := s.exams[id]
	if !ok {
		return fmt.Errorf("exam %s: %w", id, dao.ErrNotFound)
	}
	if record == nil {
		return fmt.Errorf("exam %s: %w", id, dao.ErrMalformed)
	}
	record.Questions[question] = marked
	s.log = append(s.log, Write{ExamID: id, Question: question, Marked: marked})
	return nil
}

// Corrupt registers id as an exam whose record cannot be decoded.
func (s *Service) Corrupt(id string) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.exams[id] = nil
}

// Writes returns a copy of the write log.
func (s *Service) Writes() []Write {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return append([]Write(nil), s.log...)
}

// New returns a store seeded with records; seeding is not logged.
func New(records ...*model.ExamRecord) *Service {
	ret := &Service{exams: map[string]*model.ExamRecord{}}
	for _, record := range records {
		ret.exams[record.ID] = record.Clone()
	}
	return ret
}
