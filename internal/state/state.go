package state

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// FileState represents the last build of a single content file
type FileState struct {
	MTime  int64  `json:"mtime"`
	Hash   string `json:"hash"`
	Output string `json:"output"`
}

// State is the manifest of the last build
type State struct {
	Files        map[string]*FileState `json:"files"`
	TemplateHash string                `json:"template_hash"`
	BasePath     string                `json:"base_path"`
	BuildID      string                `json:"build_id,omitempty"`
	BuiltAt      time.Time             `json:"built_at,omitempty"`
}

// NewState creates a new empty state
func NewState() *State {
	return &State{
		Files: make(map[string]*FileState),
	}
}

// Load reads state from the state file
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}

	if state.Files == nil {
		state.Files = make(map[string]*FileState)
	}

	return &state, nil
}

// Save writes state to the state file
func (s *State) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// ComputeHash computes SHA256 hash of a file
func ComputeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// HasChanged checks if a file has changed since the last build
// Uses hybrid mtime + hash approach
func (s *State) HasChanged(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	mtime := info.ModTime().Unix()

	fileState, exists := s.Files[path]
	if !exists {
		return true, nil
	}

	// Fast path: check mtime first
	if mtime == fileState.MTime {
		return false, nil
	}

	hash, err := ComputeHash(path)
	if err != nil {
		return false, err
	}

	return hash != fileState.Hash, nil
}

// TemplateChanged reports whether the template differs from the one used by
// the last build
func (s *State) TemplateChanged(templatePath string) (bool, string, error) {
	hash, err := ComputeHash(templatePath)
	if err != nil {
		return false, "", err
	}
	return hash != s.TemplateHash, hash, nil
}

// BasePathChanged reports whether pages were last built with another base path
func (s *State) BasePathChanged(basePath string) bool {
	return basePath != s.BasePath
}

// Update records a built file
func (s *State) Update(path string, output string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	hash, err := ComputeHash(path)
	if err != nil {
		return err
	}

	s.Files[path] = &FileState{
		MTime:  info.ModTime().Unix(),
		Hash:   hash,
		Output: output,
	}

	return nil
}

// Forget drops a file from the manifest
func (s *State) Forget(path string) {
	delete(s.Files, path)
}

// Invalidate marks a file as changed so the next build regenerates it. The
// recorded output is kept for stale output removal.
func (s *State) Invalidate(path string) {
	if fileState, exists := s.Files[path]; exists {
		fileState.MTime = 0
		fileState.Hash = ""
	}
}

// Reset clears every recorded file, forcing the next build to regenerate
// all pages
func (s *State) Reset() {
	s.Files = make(map[string]*FileState)
	s.TemplateHash = ""
	s.BasePath = ""
}

// BeginBuild assigns a fresh build id and returns it
func (s *State) BeginBuild(now time.Time) string {
	s.BuildID = uuid.New().String()
	s.BuiltAt = now
	return s.BuildID
}

// GetMTime returns the recorded modification time for a file
func (s *State) GetMTime(path string) time.Time {
	if fileState, exists := s.Files[path]; exists {
		return time.Unix(fileState.MTime, 0)
	}
	return time.Time{}
}
