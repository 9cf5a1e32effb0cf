package history

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const boardSuffix = ".board.xml"

// Store owns the history document for the lifetime of the process. All
// mutations are serialized and persisted before they return.
type Store struct {
	mu           sync.RWMutex
	fs           afero.Fs
	log          *zap.SugaredLogger
	writeEnabled bool
	path         string
	doc          Document
	maxHistory   int
}

type Option func(*Store)

// WithMaxHistory caps every list at n entries. Zero keeps the lists unbounded.
func WithMaxHistory(n int) Option {
	return func(s *Store) { s.maxHistory = n }
}

// Open resolves the config location under base (or the platform default
// when base is empty) and loads it. When no location can be found the
// store works in memory only.
func Open(fs afero.Fs, log *zap.SugaredLogger, base string, opts ...Option) *Store {
	path, err := Resolve(fs, base)
	if err != nil {
		log.Warnw("config location unavailable, history will not be saved", "err", err)
		s := &Store{fs: fs, log: log, path: ".", doc: NewDocument()}
		for _, o := range opts {
			o(s)
		}
		return s
	}
	log.Infow("using config file", "path", path)
	return Load(fs, log, path, opts...)
}

// Load reads path into a new Store. It never fails: an unreadable file
// yields an empty read-only store and a corrupt one an empty writable store.
func Load(fs afero.Fs, log *zap.SugaredLogger, path string, opts ...Option) *Store {
	s := &Store{fs: fs, log: log, path: path, doc: NewDocument()}
	for _, o := range opts {
		o(s)
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		log.Warnw("read config failed, starting with empty history", "path", path, "err", err)
		return s
	}
	s.writeEnabled = true

	doc, err := parseDocument(data)
	if err != nil {
		log.Warnw("parse config failed, starting with empty history", "path", path, "err", err)
	}
	s.doc = doc
	return s
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) WriteEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writeEnabled
}

// Snapshot returns a copy of the current document.
func (s *Store) Snapshot() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyDocument(s.doc)
}

// Get returns the stored list for k without any filtering.
func (s *Store) Get(k Kind) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l := s.doc.list(k)
	if l == nil {
		return []string{}
	}
	out := make([]string, len(*l))
	copy(out, *l)
	return out
}

// Existing returns the entries of k that still exist on disk: directories
// for WorkingFolder, regular files for the other kinds.
func (s *Store) Existing(k Kind) []string {
	out := []string{}
	for _, p := range s.Get(k) {
		if p == "" {
			continue
		}
		var ok bool
		if k == WorkingFolder {
			ok, _ = afero.DirExists(s.fs, p)
		} else {
			ok, _ = isRegular(s.fs, p)
		}
		if ok {
			out = append(out, p)
		}
	}
	return out
}

// Add moves path to the front of list k and saves.
func (s *Store) Add(k Kind, path string) error {
	if !k.Valid() {
		return errors.Wrapf(ErrUnknownKind, "add %s", path)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.doc.list(k)
	*l = prepend(*l, path, s.maxHistory)
	s.save()
	return nil
}

// Reset discards all history and saves the empty document.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = NewDocument()
	s.save()
}

// Reload re-reads the config file, typically after another process wrote
// it. An unreadable file leaves the current document in place.
func (s *Store) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.writeEnabled {
		return
	}
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		s.log.Warnw("reload config failed", "path", s.path, "err", err)
		return
	}
	doc, err := parseDocument(data)
	if err != nil {
		s.log.Warnw("parse config failed on reload, using empty history", "path", s.path, "err", err)
	}
	s.doc = doc
}

// save writes to a temp file then renames it over the config file.
// Failures are logged only. Caller must hold s.mu.
func (s *Store) save() {
	if !s.writeEnabled {
		return
	}
	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, s.doc.Marshal(), 0o644); err != nil {
		s.log.Warnw("write config failed", "path", s.path, "err", err)
		return
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		s.log.Warnw("write config failed", "path", s.path, "err", err)
		_ = s.fs.Remove(tmp)
	}
}

// WriteBoard removes every *.board.xml (any case) directly under folder and
// writes xml to folder/<name>.board.xml. Removal stops at the first failure;
// files removed before it stay removed.
func WriteBoard(fs afero.Fs, folder, name, xml string) error {
	if folder == "" {
		return ErrNoWorkingFolder
	}

	entries, err := afero.ReadDir(fs, folder)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !isBoardFile(e.Name()) {
			continue
		}
		p := filepath.Join(folder, e.Name())
		if err := fs.Remove(p); err != nil {
			return fmt.Errorf("Can not delete file:%s error: %w", p, err)
		}
	}

	return afero.WriteFile(fs, filepath.Join(folder, name+boardSuffix), []byte(xml), 0o644)
}

func isBoardFile(name string) bool {
	ok, _ := filepath.Match("*"+boardSuffix, strings.ToLower(name))
	return ok
}
