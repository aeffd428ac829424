package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
)

var (
	// ErrNoState is returned by Load when no snapshot has been captured yet.
	ErrNoState = errors.New("no session state has been captured")
	// ErrUnsupportedVersion is returned for snapshots written by a newer format.
	ErrUnsupportedVersion = errors.New("unsupported session state version")
	// ErrMalformedState is returned when the file is not a state document.
	ErrMalformedState = errors.New("malformed session state")
)

// Header is the part of a snapshot that can be read without decoding it.
type Header struct {
	Version    int
	CapturedAt time.Time
	Stale      bool
	Cookies    int
	Origins    int
}

// Peek reads the snapshot header. Files without a version field are raw
// Playwright storage-state files and report version 0.
func Peek(data []byte) (Header, error) {
	if !gjson.ValidBytes(data) {
		return Header{}, ErrMalformedState
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() || !doc.Get("cookies").IsArray() {
		return Header{}, fmt.Errorf("%w: missing cookies array", ErrMalformedState)
	}

	h := Header{
		Version: int(doc.Get("version").Int()),
		Stale:   doc.Get("stale").Bool(),
		Cookies: len(doc.Get("cookies").Array()),
		Origins: len(doc.Get("origins").Array()),
	}
	if at := doc.Get("capturedAt"); at.Exists() {
		h.CapturedAt = at.Time()
	}
	return h, nil
}

// Store persists one snapshot at a fixed path. The zero MaxAge disables the
// age-based staleness check.
type Store struct {
	fs     afero.Fs
	path   string
	MaxAge time.Duration
	now    func() time.Time
}

// NewStore creates a store over the given filesystem.
func NewStore(fs afero.Fs, path string) *Store {
	return &Store{
		fs:   fs,
		path: path,
		now:  time.Now,
	}
}

// NewOSStore creates a store on the host filesystem.
func NewOSStore(path string) *Store {
	return NewStore(afero.NewOsFs(), path)
}

// Path returns the snapshot location.
func (s *Store) Path() string {
	return s.path
}

// Save writes the snapshot atomically. A zero CapturedAt is stamped with the
// current time and the version is set to StateVersion.
func (s *Store) Save(state *State) error {
	if state == nil {
		return errors.New("cannot save nil session state")
	}

	out := state.Clone()
	out.Version = StateVersion
	if out.CapturedAt.IsZero() {
		out.CapturedAt = s.now().UTC()
	}
	if out.Cookies == nil {
		out.Cookies = []Cookie{}
	}
	if out.Origins == nil {
		out.Origins = []Origin{}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session state: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create session state directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session state: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("failed to replace session state: %w", err)
	}

	*state = *out
	return nil
}

// Load reads the snapshot. The Stale flag of the result reflects both the
// stored flag and the store's staleness policy.
func (s *Store) Load() (*State, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoState
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session state: %w", err)
	}

	header, err := Peek(data)
	if err != nil {
		return nil, err
	}
	if header.Version > StateVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, header.Version)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	if state.Origins == nil {
		state.Origins = []Origin{}
	}

	if stale, _ := state.CheckStaleness(s.now(), s.MaxAge); stale {
		state.Stale = true
	}
	return &state, nil
}

// LoadOrEmpty is Load, except that a missing snapshot yields Empty so the
// caller gets an unauthenticated context instead of an error.
func (s *Store) LoadOrEmpty() (*State, error) {
	state, err := s.Load()
	if errors.Is(err, ErrNoState) {
		return Empty(), nil
	}
	return state, err
}

// Invalidate marks the stored snapshot stale without deleting it.
func (s *Store) Invalidate() error {
	state, err := s.Load()
	if err != nil {
		return err
	}
	state.Stale = true
	return s.Save(state)
}

// Remove deletes the snapshot. Removing a missing snapshot is not an error.
func (s *Store) Remove() error {
	if err := s.fs.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session state: %w", err)
	}
	return nil
}
