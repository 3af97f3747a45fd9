package company

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Pabandres85/Proyecto-LLM-deepseek/pkg/logger"
)

var (
	ErrNotFound      = errors.New("company not found")
	ErrDuplicateName = errors.New("company already exists")
	ErrEmptyName     = errors.New("company name is empty")
)

const deletedAtLayout = "2006-01-02 15:04:05"

// Clock abstracts time for testable deletion timestamps.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Store persists company profiles in one JSON document and deletion
// history in a second one. Every mutation reads and rewrites the whole
// document; the mutex keeps concurrent handlers memory-safe but offers
// no cross-process guarantees (single-operator assumption).
type Store struct {
	mu         sync.Mutex
	dataPath   string
	backupPath string
	clock      Clock
}

func NewStore(dataPath, backupPath string) *Store {
	return NewStoreWithClock(dataPath, backupPath, realClock{})
}

func NewStoreWithClock(dataPath, backupPath string, clock Clock) *Store {
	return &Store{
		dataPath:   dataPath,
		backupPath: backupPath,
		clock:      clock,
	}
}

// Add creates a new company. Names must be non-empty and unique; adding
// an existing name fails with ErrDuplicateName rather than silently
// replacing the stored profile.
func (s *Store) Add(name string, profile Profile) error {
	if name == "" {
		return ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	companies, err := s.load()
	if err != nil {
		return err
	}

	if _, exists := companies[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}

	companies[name] = normalized(profile)
	if err := s.save(companies); err != nil {
		return err
	}

	logger.Info("Company added", zap.String("company", name))
	return nil
}

// Get returns the stored profile for a company.
func (s *Store) Get(name string) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	companies, err := s.load()
	if err != nil {
		return Profile{}, err
	}

	profile, exists := companies[name]
	if !exists {
		return Profile{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return profile, nil
}

// Update replaces every field of an existing profile. This is a full
// replace, not a merge: a profile submitted with no services clears the
// stored list.
func (s *Store) Update(name string, profile Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	companies, err := s.load()
	if err != nil {
		return err
	}

	if _, exists := companies[name]; !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	companies[name] = normalized(profile)
	if err := s.save(companies); err != nil {
		return err
	}

	logger.Info("Company updated", zap.String("company", name))
	return nil
}

// Delete archives the profile in the backup document and then removes
// it from the primary one. The backup write completes and reaches disk
// before the primary removal is attempted, so a crash between the two
// phases leaves the company present with a spare backup entry, never
// removed without backup. Deleting the same name again later appends a
// second history entry.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	companies, err := s.load()
	if err != nil {
		return err
	}

	profile, exists := companies[name]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	backup, err := s.loadBackup()
	if err != nil {
		return err
	}

	backup[name] = append(backup[name], DeletionEvent{
		DeletedAt: s.clock.Now().Format(deletedAtLayout),
		Data:      profile,
	})

	if err := writeJSONFile(s.backupPath, backup); err != nil {
		return fmt.Errorf("writing backup document: %w", err)
	}

	delete(companies, name)
	if err := s.save(companies); err != nil {
		return err
	}

	logger.Info("Company deleted",
		zap.String("company", name),
		zap.Int("backup_entries", len(backup[name])),
	)
	return nil
}

// Names lists all company names, sorted.
func (s *Store) Names() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	companies, err := s.load()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(companies))
	for name := range companies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Count returns the number of stored companies.
func (s *Store) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	companies, err := s.load()
	if err != nil {
		return 0, err
	}
	return len(companies), nil
}

// DeletionHistory returns the ordered deletion events recorded for a
// name. A name with no history fails with ErrNotFound.
func (s *Store) DeletionHistory(name string) ([]DeletionEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	backup, err := s.loadBackup()
	if err != nil {
		return nil, err
	}

	events, exists := backup[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return events, nil
}

func (s *Store) load() (map[string]Profile, error) {
	companies := make(map[string]Profile)
	if err := readJSONFile(s.dataPath, &companies); err != nil {
		return nil, fmt.Errorf("reading profile document: %w", err)
	}
	return companies, nil
}

func (s *Store) save(companies map[string]Profile) error {
	if err := writeJSONFile(s.dataPath, companies); err != nil {
		return fmt.Errorf("writing profile document: %w", err)
	}
	return nil
}

func (s *Store) loadBackup() (map[string][]DeletionEvent, error) {
	backup := make(map[string][]DeletionEvent)
	if err := readJSONFile(s.backupPath, &backup); err != nil {
		return nil, fmt.Errorf("reading backup document: %w", err)
	}
	return backup, nil
}

// normalized replaces nil collections so stored documents always carry
// explicit empty arrays/objects.
func normalized(p Profile) Profile {
	if p.Services == nil {
		p.Services = []string{}
	}
	if p.FAQ == nil {
		p.FAQ = map[string]string{}
	}
	return p
}

// readJSONFile unmarshals path into target; a missing file leaves the
// target untouched (empty store).
func readJSONFile(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, target)
}

// writeJSONFile writes the document to a temp file, syncs it and
// renames it into place so readers never observe a partial document and
// the write is durable once the function returns.
func writeJSONFile(path string, doc interface{}) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
