package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aluiziolira/go-scrape-catalog/models"
)

// Store persists a CrawlState as one JSON file. Writes replace the file atomically; two
// processes sharing a file must coordinate outside the Store.
type Store struct {
	path string
}

// NewStore returns a store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the state file. An absent file is created empty; an empty file reads as empty
// state.
func (s *Store) Load() (CrawlState, error) {
	payload, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		st := NewCrawlState()
		slog.Info("state file not found, creating", slog.String("path", s.path))
		if err := s.Save(st); err != nil {
			return st, err
		}
		return st, nil
	}
	if err != nil {
		return CrawlState{}, fmt.Errorf("read state %s: %w", s.path, err)
	}

	st := NewCrawlState()
	if len(bytes.TrimSpace(payload)) == 0 {
		return st, nil
	}
	if err := json.Unmarshal(payload, &st); err != nil {
		return CrawlState{}, fmt.Errorf("decode state %s: %w", s.path, err)
	}
	if st.LastParsedPages == nil {
		st.LastParsedPages = make(map[string]int)
	}
	if st.PageRanges == nil {
		st.PageRanges = make(map[string]models.PageRange)
	}
	return st, nil
}

// Save writes st to a temporary sibling and renames it over the state file.
func (s *Store) Save(st CrawlState) error {
	if st.LastParsedPages == nil || st.PageRanges == nil {
		st = st.Clone()
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(st); err != nil {
		tmp.Close()
		return fmt.Errorf("encode state: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("save state %s: %w", s.path, err)
	}
	return nil
}
