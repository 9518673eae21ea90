package fs

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/grader/model"
	"github.com/viant/grader/service/dao"
	"github.com/viant/grader/service/dao/codec"
)

// Service stores the rubric as a text file.
type Service struct {
	URL string
	fs  afs.Service
	mu  sync.Mutex
}

// Ensure Service implements dao.RubricStore
var _ dao.RubricStore = (*Service)(nil)

// Load reads at most MaxRubricEntries well-formed entries.
func (s *Service) Load(ctx context.Context) ([]model.RubricEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exists, err := s.fs.Exists(ctx, s.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check if rubric exists: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("rubric %s: %w", s.URL, dao.ErrNotFound)
	}
	data, err := s.fs.DownloadWithURL(ctx, s.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read rubric file %s: %w", s.URL, err)
	}
	return codec.DecodeRubric(data), nil
}

// Save rewrites the rubric file sequentially.
func (s *Service) Save(ctx context.Context, entries []model.RubricEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := codec.EncodeRubric(entries)
	if err := s.fs.Upload(ctx, s.URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save rubric to file %s: %w", s.URL, err)
	}
	return nil
}

// New creates a rubric store for location.
func New(location string) (*Service, error) {
	if location == "" {
		return nil, fmt.Errorf("rubric location cannot be empty")
	}
	return &Service{
		URL: url.Normalize(location, file.Scheme),
		fs:  afs.New(),
	}, nil
}
