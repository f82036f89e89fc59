package reconcile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Ключи хранилища клиента
const (
	KeyAuth    = "auth"
	KeyCart    = "lastCheckoutCart"
	KeyAddress = "lastCheckoutAddress"
)

// Stash - долговременное хранилище клиента, переживающее уход на страницу оплаты
type Stash interface {
	Save(key string, v any) error
	// Load возвращает false, если ключа нет
	Load(key string, v any) (bool, error)
	Delete(key string) error
}

// FileStash хранит каждый ключ отдельным JSON-файлом в каталоге состояния
type FileStash struct {
	dir string
}

func NewFileStash(dir string) (*FileStash, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStash{dir: dir}, nil
}

func (s *FileStash) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Save пишет во временный файл и переименовывает, чтобы не оставить половину записи
func (s *FileStash) Save(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return os.Rename(tmp, s.path(key))
}

func (s *FileStash) Load(key string, v any) (bool, error) {
	raw, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *FileStash) Delete(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
