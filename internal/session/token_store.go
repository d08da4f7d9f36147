package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// TokenStore - постоянное хранилище bearer-токена клиента.
type TokenStore interface {
	Token() string
	SetToken(token string) error
	Clear() error
}

type MemoryStore struct {
	mtx   sync.RWMutex
	token string
}

func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (s *MemoryStore) Token() string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.token
}

func (s *MemoryStore) SetToken(token string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Clear() error {
	return s.SetToken("")
}

type fileRecord struct {
	Token   string    `yaml:"token"`
	SavedAt time.Time `yaml:"saved_at"`
}

// FileStore хранит токен в YAML-файле с правами 0600.
type FileStore struct {
	mtx   sync.RWMutex
	path  string
	token string
	now   func() time.Time
}

func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, now: time.Now}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("чтение файла сессии: %w", err)
	}

	var rec fileRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("разбор файла сессии: %w", err)
	}
	s.token = rec.Token
	return s, nil
}

func (s *FileStore) Token() string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.token
}

func (s *FileStore) SetToken(token string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if token == "" {
		return s.removeLocked()
	}

	data, err := yaml.Marshal(fileRecord{Token: token, SavedAt: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("сериализация сессии: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("создание каталога сессии: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("запись файла сессии: %w", err)
	}
	s.token = token
	return nil
}

func (s *FileStore) Clear() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.removeLocked()
}

func (s *FileStore) removeLocked() error {
	s.token = ""
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("удаление файла сессии: %w", err)
	}
	return nil
}
