// Package catalog loads the externally maintained key→text mapping used
// for all static bot replies, and supports swapping it at runtime.
package catalog

import (
	"fmt"
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// Broadcast holds the promotional-content section of the catalog. Entry
// keys follow the e<N> scheme; le<N>_* companion entries carry link
// buttons in "url | label" form.
type Broadcast struct {
	Prefix    string            `yaml:"prefix"`
	Suffix    string            `yaml:"suffix"`
	Separator string            `yaml:"separator"`
	Entries   map[string]string `yaml:"entries"`
}

// Catalog is an immutable snapshot of the message file. Handlers read a
// snapshot and never observe partial updates.
type Catalog struct {
	Messages  map[string]string `yaml:"messages"`
	Broadcast Broadcast         `yaml:"broadcast"`
}

// Load reads and parses the catalog file from the given path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}

	if len(c.Messages) == 0 {
		return nil, fmt.Errorf("catalog has no messages")
	}

	return &c, nil
}

// Message returns the text for a key, or an empty string and false when
// the key is absent.
func (c *Catalog) Message(key string) (string, bool) {
	text, ok := c.Messages[key]
	return text, ok
}

// Store is the live catalog reference shared by all handlers. Reload
// replaces the whole snapshot in one atomic swap.
type Store struct {
	path    string
	current atomic.Pointer[Catalog]
}

// NewStore loads the catalog from path and returns a store serving it.
func NewStore(path string) (*Store, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	s := &Store{path: path}
	s.current.Store(c)
	return s, nil
}

// Current returns the live snapshot.
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Message looks a key up in the live snapshot.
func (s *Store) Message(key string) (string, bool) {
	return s.Current().Message(key)
}

// Reload re-reads the catalog file and swaps it in. On error the previous
// snapshot stays live.
func (s *Store) Reload() error {
	c, err := Load(s.path)
	if err != nil {
		return err
	}
	s.current.Store(c)
	return nil
}
