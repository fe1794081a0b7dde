// Package queue persists the FIFO list of manifests awaiting rendering.
//
// The backing store is a newline-delimited text file, one manifest
// reference per line, in arrival order. Every operation reads the file in
// full; mutations rewrite it through an atomic replace so an interrupted
// write never leaves a truncated store. Removed entries vanish permanently.
package queue

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/gofrs/flock"

	"sceneforge/internal/fileutil"
)

// Store provides FIFO queue operations over a file of manifest references.
type Store struct {
	path string
	lock *flock.Flock
}

// NewStore creates a store over the given file path. The file does not need
// to exist yet; an absent or unreadable file reads as an empty queue.
func NewStore(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("queue store path required")
	}
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Add appends a manifest reference unless it is already queued. It returns
// true when the entry was added, false when it was already present.
func (s *Store) Add(ref string) (bool, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return false, errors.New("queue add: empty reference")
	}
	unlock, err := s.acquire()
	if err != nil {
		return false, err
	}
	defer unlock()

	entries := s.read()
	for _, existing := range entries {
		if existing == ref {
			return false, nil
		}
	}
	entries = append(entries, ref)
	if err := s.write(entries); err != nil {
		return false, err
	}
	return true, nil
}

// PeekNext returns the earliest-added surviving reference. The second
// return value is false when the queue is empty.
func (s *Store) PeekNext() (string, bool) {
	entries := s.read()
	if len(entries) == 0 {
		return "", false
	}
	return entries[0], true
}

// Complete removes one matching reference. It returns true when a removal
// occurred; completing an absent reference is a no-op returning false and
// leaves the stored file untouched.
func (s *Store) Complete(ref string) (bool, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return false, errors.New("queue complete: empty reference")
	}
	unlock, err := s.acquire()
	if err != nil {
		return false, err
	}
	defer unlock()

	entries := s.read()
	index := -1
	for i, existing := range entries {
		if existing == ref {
			index = i
			break
		}
	}
	if index < 0 {
		return false, nil
	}
	entries = append(entries[:index], entries[index+1:]...)
	if err := s.write(entries); err != nil {
		return false, err
	}
	return true, nil
}

// Entries returns every queued reference in FIFO order.
func (s *Store) Entries() []string {
	return s.read()
}

// Len reports the number of queued references.
func (s *Store) Len() int {
	return len(s.read())
}

// read loads the backing file. Read failures degrade to an empty queue;
// queue operations are advisory, not critical-path.
func (s *Store) read() []string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			// Unreadable store behaves as empty rather than failing the caller.
			return nil
		}
		return nil
	}
	lines := strings.Split(string(data), "\n")
	entries := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		entries = append(entries, line)
	}
	return entries
}

func (s *Store) write(entries []string) error {
	var b strings.Builder
	for _, entry := range entries {
		b.WriteString(entry)
		b.WriteByte('\n')
	}
	if err := fileutil.WriteFileAtomic(s.path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("rewrite queue store: %w", err)
	}
	return nil
}

func (s *Store) acquire() (func(), error) {
	if err := s.lock.Lock(); err != nil {
		return nil, fmt.Errorf("acquire queue lock: %w", err)
	}
	return func() {
		_ = s.lock.Unlock()
	}, nil
}
