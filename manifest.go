package grader

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"gopkg.in/yaml.v3"
)

// ManifestName is the manifest file name inside the shared directory.
const ManifestName = "manifest.yaml"

// GateName is the lock file name of the cross-process gate.
const GateName = "gate.lock"

// Manifest is what the launcher hands to worker processes.
type Manifest struct {
	RunID  string   `yaml:"runId"`
	Dir    string   `yaml:"dir"`
	Config *Config  `yaml:"config"`
	Exams  []string `yaml:"exams"`
}

// Path returns the manifest location.
func (m *Manifest) Path() string {
	return filepath.Join(m.Dir, ManifestName)
}

// GatePath returns the lock file of the cross-process gate.
func (m *Manifest) GatePath() string {
	return filepath.Join(m.Dir, GateName)
}

// Save writes the manifest into its directory.
func (m *Manifest) Save(ctx context.Context, fs afs.Service) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err = fs.Upload(ctx, m.Path(), file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save manifest %s: %w", m.Path(), err)
	}
	return nil
}

// LoadManifest reads a manifest written by Save.
func LoadManifest(ctx context.Context, fs afs.Service, location string) (*Manifest, error) {
	data, err := fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", location, err)
	}
	ret := &Manifest{Config: DefaultConfig()}
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", location, err)
	}
	if ret.Dir == "" {
		ret.Dir = filepath.Dir(location)
	}
	return ret, nil
}
