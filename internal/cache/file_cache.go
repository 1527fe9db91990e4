package cache

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/forest-guardian/burn-recovery-cli/internal/properties"
)

// Entry is the content of one cache file.
type Entry[T any] struct {
	Key      string    `json:"key"`
	Data     T         `json:"data"`
	StoredAt time.Time `json:"stored_at"`
	Checksum string    `json:"checksum"`
}

type CacheService[T any] interface {
	Lookup(key string) (Entry[T], bool)
	Set(key string, data T) error
	Delete(key string) error
	GenerateKey(params ...interface{}) string
}

// FileCache keeps one JSON file per key. An entry is only returned when its
// key and checksum match what was stored.
type FileCache[T any] struct {
	dir string
	now func() time.Time
}

// NewFileCache caches under ROOT_PATH/data/<subDir>.
func NewFileCache[T any](subDir string) *FileCache[T] {
	return NewFileCacheAt[T](filepath.Join(properties.RootPath(), "data", subDir))
}

func NewFileCacheAt[T any](dir string) *FileCache[T] {
	return &FileCache[T]{dir: dir, now: time.Now}
}

// GenerateKey hashes the parameters that identify a request.
func (fc *FileCache[T]) GenerateKey(params ...interface{}) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprint(p)
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

func (fc *FileCache[T]) file(key string) string {
	return filepath.Join(fc.dir, key+".json")
}

func (fc *FileCache[T]) Lookup(key string) (Entry[T], bool) {
	raw, err := os.ReadFile(fc.file(key))
	if err != nil {
		return Entry[T]{}, false
	}
	var entry Entry[T]
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry[T]{}, false
	}
	if entry.Key != key {
		return Entry[T]{}, false
	}
	if sum, err := checksum(entry.Data); err != nil || sum != entry.Checksum {
		return Entry[T]{}, false
	}
	return entry, true
}

// Set replaces the entry through a temporary file, so a reader sees either
// the old entry or the new one.
func (fc *FileCache[T]) Set(key string, data T) error {
	sum, err := checksum(data)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(Entry[T]{Key: key, Data: data, StoredAt: fc.now().UTC(), Checksum: sum})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %s: %w", key, err)
	}
	if err := os.MkdirAll(fc.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(fc.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), fc.file(key)); err != nil {
		return fmt.Errorf("failed to store cache entry %s: %w", key, err)
	}
	return nil
}

// Delete removes an entry. A missing entry is not an error.
func (fc *FileCache[T]) Delete(key string) error {
	if err := os.Remove(fc.file(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete cache entry %s: %w", key, err)
	}
	return nil
}

func checksum(data any) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to encode cache data: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
