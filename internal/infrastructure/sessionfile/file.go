// Package sessionfile persists the CLI session as a YAML file.
package sessionfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fitpass-app/fitpass/internal/domain/session"
)

type document struct {
	Session       *session.Session `yaml:"session,omitempty"`
	PendingInvite string           `yaml:"pending_invite,omitempty"`
}

// File stores the session at Path with owner-only permissions.
type File struct {
	Path string
}

func New(path string) *File {
	return &File{Path: path}
}

// Load returns nil values when the file does not exist yet.
func (f *File) Load() (*session.Session, string, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("read session file: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, "", fmt.Errorf("parse session file %s: %w", f.Path, err)
	}
	return doc.Session, doc.PendingInvite, nil
}

func (f *File) Save(s *session.Session, pendingInvite string) error {
	data, err := yaml.Marshal(document{Session: s, PendingInvite: pendingInvite})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return os.Rename(tmp, f.Path)
}

func (f *File) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
