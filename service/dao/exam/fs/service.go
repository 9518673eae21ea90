package fs

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/grader/model"
	"github.com/viant/grader/service/dao"
	"github.com/viant/grader/service/dao/codec"
)

const ext = ".txt"

// Service implements a filesystem-based exam storage, one text file per exam
type Service struct {
	baseURL string
	fs      afs.Service
	mu      sync.RWMutex
}

// Ensure Service implements dao.ExamStore
var _ dao.ExamStore = (*Service)(nil)

// List returns ids of every regular file under the base location, sorted
func (s *Service) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	objects, err := s.fs.List(ctx, s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to list exam files: %w", err)
	}
	var ids []string
	for _, object := range objects {
		if object.IsDir() {
			continue
		}
		ids = append(ids, strings.TrimSuffix(object.Name(), ext))
	}
	sort.Strings(ids)
	return ids, nil
}

// Load retrieves an exam from the filesystem
func (s *Service) Load(ctx context.Context, id string) (*model.ExamRecord, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := s.download(ctx, id)
	if err != nil {
		return nil, err
	}
	record, err := codec.DecodeExam(id, data)
	if err != nil {
		return nil, fmt.Errorf("exam %s: %w: %v", id, dao.ErrMalformed, err)
	}
	return record, nil
}

// SaveQuestion rewrites the status line of a single question
func (s *Service) SaveQuestion(ctx context.Context, id string, question int, marked bool) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.download(ctx, id)
	if err != nil {
		return err
	}
	if data, err = codec.SetQuestion(id, data, question, marked); err != nil {
		return fmt.Errorf("exam %s: %w: %v", id, dao.ErrMalformed, err)
	}
	return s.upload(ctx, id, data)
}

func (s *Service) download(ctx context.Context, id string) ([]byte, error) {
	URL := s.examURL(id)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check if exam exists: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("exam %s: %w", id, dao.ErrNotFound)
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read exam file %s: %w", URL, err)
	}
	return data, nil
}

func (s *Service) upload(ctx context.Context, id string, data []byte) error {
	URL := s.examURL(id)
	if err := s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save exam to file %s: %w", URL, err)
	}
	return nil
}

func (s *Service) examURL(id string) string {
	return url.Join(s.baseURL, id+ext)
}

// New creates a filesystem exam store rooted at baseURL
func New(baseURL string) (*Service, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	fs := afs.New()
	ctx := context.Background()
	exists, _ := fs.Exists(ctx, baseURL)
	if !exists {
		if err := fs.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}
	return &Service{
		baseURL: url.Normalize(baseURL, file.Scheme),
		fs:      fs,
	}, nil
}
