package settings

import (
	"context"
	"sync"
	"time"

	"bible-reader/internal/navigator"
)

// LocalProfile keeps the last-read position and preferences in the settings
// file, for reading without a server. Every read-modify-write of the file
// goes through it so concurrent saves do not drop each other's fields.
type LocalProfile struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

var _ navigator.Profile = (*LocalProfile)(nil)

func NewLocalProfile(path string) *LocalProfile {
	return &LocalProfile{path: path, now: time.Now}
}

func (p *LocalProfile) LastRead(ctx context.Context) (*navigator.LastRead, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, err := Load(p.path)
	if err != nil {
		return nil, err
	}
	return s.LastRead, nil
}

func (p *LocalProfile) SaveLastRead(ctx context.Context, rec navigator.LastRead) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, err := Load(p.path)
	if err != nil {
		return err
	}
	rec.UpdatedAt = p.now().UTC()
	s.LastRead = &rec
	return Save(p.path, s)
}

func (p *LocalProfile) Preferences(ctx context.Context) (*navigator.Preference, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, err := Load(p.path)
	if err != nil {
		return nil, err
	}
	return s.Preferences, nil
}

func (p *LocalProfile) SavePreferences(ctx context.Context, pref navigator.Preference) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, err := Load(p.path)
	if err != nil {
		return err
	}
	s.Preferences = &pref
	return Save(p.path, s)
}

// SaveTheme remembers the theme by its display name.
func (p *LocalProfile) SaveTheme(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, err := Load(p.path)
	if err != nil {
		return err
	}
	s.Theme = name
	return Save(p.path, s)
}
