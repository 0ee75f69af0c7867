package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/gofrs/flock"
	"github.com/valyala/bytebufferpool"
)

const (
	filePerm   = 0o644
	lockSuffix = ".lock"
)

var (
	// ErrLocked means another process holds the state file open.
	ErrLocked = crerr.New("state file is locked by another process")
	ErrClosed = crerr.New("state store is closed")
)

// KVStore is a durable string key-value store backed by one JSON object on
// disk. The whole map is rewritten on every change through a temp file and a
// rename, so a crash leaves either the old or the new document.
//
// The in-memory map is the source of truth while the store is open, so only one
// process may hold it: Open takes an exclusive lock on path+".lock" and Close
// releases it.
type KVStore struct {
	path string
	lock *flock.Flock

	mu     sync.RWMutex
	values map[string]string
	closed bool
}

// Open locks and loads path. A missing file is an empty store. ErrLocked is
// returned when another process already has it open.
func Open(path string) (*KVStore, error) {
	if path == "" {
		return nil, crerr.New("state file path is required")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, crerr.Wrapf(err, "create state dir %s", dir)
	}

	lock := flock.New(path + lockSuffix)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, crerr.Wrapf(err, "lock state file %s", path)
	}
	if !locked {
		return nil, crerr.Wrapf(ErrLocked, "open %s", path)
	}

	values, err := readDocument(path)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	return &KVStore{path: path, lock: lock, values: values}, nil
}

// Close releases the file lock. Later writes fail with ErrClosed.
func (s *KVStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.lock.Unlock(); err != nil {
		return crerr.Wrapf(err, "unlock state file %s", s.path)
	}
	return nil
}

func (s *KVStore) Path() string {
	return s.path
}

func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	return value, ok, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	prev, existed := s.values[key]
	if existed && prev == value {
		return nil
	}
	s.values[key] = value
	if err := s.flushLocked(); err != nil {
		if existed {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return err
	}

	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	prev, existed := s.values[key]
	if !existed {
		return nil
	}
	delete(s.values, key)
	if err := s.flushLocked(); err != nil {
		s.values[key] = prev
		return err
	}

	return nil
}

func (s *KVStore) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.values))
	for key := range s.values {
		out = append(out, key)
	}
	sort.Strings(out)

	return out, nil
}

func (s *KVStore) flushLocked() error {
	payload, err := sonic.ConfigStd.Marshal(s.values)
	if err != nil {
		return crerr.Wrap(err, "encode state document")
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = buf.Write(payload)
	_ = buf.WriteByte('\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return crerr.Wrapf(err, "create state dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return crerr.Wrap(err, "create temp state file")
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := buf.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return crerr.Wrap(err, "write temp state file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return crerr.Wrap(err, "sync temp state file")
	}
	if err := tmp.Close(); err != nil {
		return crerr.Wrap(err, "close temp state file")
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		return crerr.Wrap(err, "chmod temp state file")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return crerr.Wrapf(err, "replace state file %s", s.path)
	}

	return nil
}

func readDocument(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, crerr.Wrapf(err, "read state file %s", path)
	}
	if len(raw) == 0 {
		return map[string]string{}, nil
	}

	values := map[string]string{}
	if err := sonic.Unmarshal(raw, &values); err != nil {
		return nil, crerr.Wrapf(err, "decode state file %s", path)
	}
	if values == nil {
		values = map[string]string{}
	}

	return values, nil
}
