package writer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ManifestFile describes one schedule parquet file written under output.dir.
type ManifestFile struct {
	Path      string    `json:"path"`
	RunID     string    `json:"run_id"`
	FileSize  int64     `json:"file_size_in_bytes"`
	Rows      int64     `json:"record_count"`
	Priced    int64     `json:"priced_count"`
	Failed    int64     `json:"failed_count"`
	Timestamp time.Time `json:"timestamp"`
}

// CurveManifest lists every schedule written for a curve, newest last.
type CurveManifest struct {
	FormatVersion int            `json:"format-version"`
	Curve         string         `json:"curve"`
	Current       string         `json:"current-run-id"`
	Files         []ManifestFile `json:"files"`
}

// Manifest keeps metadata/<curve>.json under a base directory in sync with
// the files the writer produces.
type Manifest struct {
	basePath string
	mu       sync.Mutex
}

func NewManifest(basePath string) *Manifest {
	return &Manifest{basePath: basePath}
}

func (m *Manifest) path(curve string) string {
	return filepath.Join(m.basePath, "metadata", fmt.Sprintf("%s.json", curvePartition(curve)))
}

// curvePartition is the form of a curve name used in object keys and
// manifest file names.
func curvePartition(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Load returns the manifest of a curve, or an empty one when none was written.
func (m *Manifest) Load(curve string) (CurveManifest, error) {
	cm := CurveManifest{FormatVersion: 1, Curve: curve}
	b, err := os.ReadFile(m.path(curve))
	if errors.Is(err, os.ErrNotExist) {
		return cm, nil
	}
	if err != nil {
		return cm, err
	}
	if err := json.Unmarshal(b, &cm); err != nil {
		return cm, fmt.Errorf("parse manifest %s: %w", curve, err)
	}
	return cm, nil
}

// Add appends f to the curve manifest and rewrites it.
func (m *Manifest) Add(curve string, f ManifestFile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cm, err := m.Load(curve)
	if err != nil {
		return err
	}
	cm.Files = append(cm.Files, f)
	cm.Current = f.RunID

	p := m.path(curve)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cm, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o644)
}
