package credentials

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/peterbourgon/diskv/v3"
)

const (
	accessKey  = "access_token"
	refreshKey = "refresh_token"
)

// DiskStore keeps each token in its own file under a private directory.
type DiskStore struct {
	mu sync.Mutex
	dv *diskv.Diskv
}

// NewDiskStore opens (creating if needed) a store rooted at dir.
func NewDiskStore(dir string) (*DiskStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("credentials: disk store requires a directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("credentials: create %s: %w", dir, err)
	}
	dv := diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    func(string) []string { return []string{} },
		FilePerm:     0o600,
		PathPerm:     0o700,
		CacheSizeMax: 0,
	})
	return &DiskStore{dv: dv}, nil
}

// DefaultDir returns the per-user credentials directory for app.
func DefaultDir(app string) (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("credentials: resolve config dir: %w", err)
	}
	return filepath.Join(base, app, "credentials"), nil
}

func (s *DiskStore) Access() (string, error) { return s.read(accessKey) }

func (s *DiskStore) Refresh() (string, error) { return s.read(refreshKey) }

func (s *DiskStore) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(accessKey, access); err != nil {
		return err
	}
	if refresh == "" {
		return nil
	}
	return s.write(refreshKey, refresh)
}

func (s *DiskStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range []string{accessKey, refreshKey} {
		if !s.dv.Has(key) {
			continue
		}
		if err := s.dv.Erase(key); err != nil {
			return fmt.Errorf("credentials: erase %s: %w", key, err)
		}
	}
	return nil
}

func (s *DiskStore) read(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dv.Has(key) {
		return "", nil
	}
	b, err := s.dv.Read(key)
	if err != nil {
		return "", fmt.Errorf("credentials: read %s: %w", key, err)
	}
	return string(b), nil
}

func (s *DiskStore) write(key, value string) error {
	if value == "" {
		if s.dv.Has(key) {
			return s.dv.Erase(key)
		}
		return nil
	}
	if err := s.dv.Write(key, []byte(value)); err != nil {
		return fmt.Errorf("credentials: write %s: %w", key, err)
	}
	return nil
}
