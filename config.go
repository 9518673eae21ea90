package grader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/viant/grader/internal/clock"
	"github.com/viant/grader/service/worker"
	"gopkg.in/yaml.v3"
)

// MinWorkers is the smallest pool size; lower requests fall back to it.
const MinWorkers = 2

// Config is a serialisable representation of the run configuration. It can
// be populated from YAML or TOML, environment variables and flags.
type Config struct {
	Workers         int          `yaml:"workers" toml:"workers"`
	Rubric          string       `yaml:"rubric" toml:"rubric"`
	Exams           string       `yaml:"exams" toml:"exams"`
	ShmDir          string       `yaml:"shmDir,omitempty" toml:"shmDir,omitempty"`
	Segments        worker.Names `yaml:"segments" toml:"segments"`
	ThinkDelay      clock.Delay  `yaml:"thinkDelay" toml:"thinkDelay"`
	CorrectionDelay clock.Delay  `yaml:"correctionDelay" toml:"correctionDelay"`
	InProcess       bool         `yaml:"inProcess" toml:"inProcess"`
	TraceFile       string       `yaml:"traceFile,omitempty" toml:"traceFile,omitempty"`
	Progress        bool         `yaml:"progress" toml:"progress"`
}

// DefaultConfig returns a Config populated with the default rubric and exam
// locations and the default simulated delays.
func DefaultConfig() *Config {
	return &Config{
		Workers:  MinWorkers,
		Rubric:   filepath.Join("rubric", "rubric.txt"),
		Exams:    "exams",
		Segments: worker.DefaultNames(),
		ThinkDelay: clock.Delay{
			Min:  500 * time.Millisecond,
			Max:  time.Second,
			Step: 100 * time.Millisecond,
		},
		CorrectionDelay: clock.Delay{
			Min:  time.Second,
			Max:  2 * time.Second,
			Step: 100 * time.Millisecond,
		},
		Progress: true,
	}
}

// Validate returns an error describing the first invalid setting or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Workers < MinWorkers {
		return fmt.Errorf("workers must be >= %d, got %d", MinWorkers, c.Workers)
	}
	if c.Rubric == "" {
		return fmt.Errorf("rubric location is required")
	}
	if c.Exams == "" {
		return fmt.Errorf("exams location is required")
	}
	if c.Segments.Rubric == "" || c.Segments.Exam == "" || c.Segments.Control == "" {
		return fmt.Errorf("segment names are required: %+v", c.Segments)
	}
	if err := c.ThinkDelay.Validate(); err != nil {
		return fmt.Errorf("thinkDelay: %w", err)
	}
	if err := c.CorrectionDelay.Validate(); err != nil {
		return fmt.Errorf("correctionDelay: %w", err)
	}
	return nil
}

// WorkerCount parses a worker count argument; missing, non-numeric or too
// small values fall back to MinWorkers.
func WorkerCount(arg string) int {
	var count int
	if _, err := fmt.Sscanf(strings.TrimSpace(arg), "%d", &count); err != nil || count < MinWorkers {
		return MinWorkers
	}
	return count
}

// LoadConfig reads a YAML (.yaml, .yml) or TOML (.toml) file on top of
// DefaultConfig.
func LoadConfig(location string) (*Config, error) {
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", location, err)
	}
	ret := DefaultConfig()
	switch ext := strings.ToLower(filepath.Ext(location)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, ret)
	case ".toml":
		err = toml.Unmarshal(data, ret)
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", location, err)
	}
	return ret, nil
}
