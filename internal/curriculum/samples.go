package curriculum

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Sample is a built-in curriculum users can pick instead of uploading.
type Sample struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Subject     string `yaml:"subject" json:"subject"`
	Description string `yaml:"description" json:"description"`
	Content     string `yaml:"content" json:"content"`
}

// SampleSet loads and caches sample curricula from the filesystem.
type SampleSet struct {
	samples map[string]Sample
	mu      sync.RWMutex
}

// NewSampleSet returns an empty set, used when no samples directory exists.
func NewSampleSet() *SampleSet {
	return &SampleSet{samples: make(map[string]Sample)}
}

// LoadSamples walks rootDir and loads every sample YAML file found.
// Files that fail to parse are skipped with a warning.
func LoadSamples(rootDir string) (*SampleSet, error) {
	s := NewSampleSet()

	err := filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
			return nil
		}
		return s.loadSample(path)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("sample curricula loaded", "count", len(s.samples))
	return s, nil
}

// Get returns a sample by ID.
func (s *SampleSet) Get(id string) (Sample, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sample, ok := s.samples[id]
	return sample, ok
}

// All returns every loaded sample, ordered by ID.
func (s *SampleSet) All() []Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	samples := make([]Sample, 0, len(s.samples))
	for _, sample := range s.samples {
		samples = append(samples, sample)
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].ID < samples[j].ID })
	return samples
}

func (s *SampleSet) loadSample(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var sample Sample
	if err := yaml.Unmarshal(data, &sample); err != nil {
		slog.Warn("skipping invalid sample YAML", "path", path, "error", err)
		return nil
	}
	if sample.ID == "" {
		return nil // Not a sample file
	}

	s.mu.Lock()
	s.samples[sample.ID] = sample
	s.mu.Unlock()

	return nil
}
