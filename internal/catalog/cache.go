package catalog

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when cachePayload format changes
const cacheSchemaVersion uint16 = 1

// DiskCache хранит перечисленные определения по Digest на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

type cachePayload struct {
	Schema  uint16
	Key     Digest
	Entries []Entry
}

// OpenDiskCache initializes a disk cache under the user cache directory
// ($XDG_CACHE_HOME or ~/.cache).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache uses dir as the cache root.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	// подкаталог "catalog", чтобы было что чистить отдельно
	return filepath.Join(c.dir, "catalog", hex.EncodeToString(key[:])+".mp")
}

// Put writes entries under key, replacing the file atomically.
func (c *DiskCache) Put(key Digest, entries []Entry) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(&cachePayload{Schema: cacheSchemaVersion, Key: key, Entries: entries}); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads the entries stored under key. A missing file, a stale schema or
// a key mismatch is a miss, not an error.
func (c *DiskCache) Get(key Digest) ([]Entry, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("decode catalog cache: %w", err)
	}
	if payload.Schema != cacheSchemaVersion || payload.Key != key {
		return nil, false, nil
	}
	return payload.Entries, true, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string { return c.dir }

// Cached serves definitions of a keyed enumerator from a disk cache and
// fills the cache on a miss. A broken cache file is re-enumerated; a failed
// store keeps the fresh definitions.
type Cached struct {
	Inner Keyed
	Cache *DiskCache

	// Hit is set after Definitions served from the cache.
	Hit bool
	// StoreErr is the last failed cache write, nil otherwise.
	StoreErr error
}

func (c *Cached) Definitions() ([]Entry, error) {
	key, err := c.Inner.Key()
	if err != nil {
		return nil, err
	}
	if entries, ok, err := c.Cache.Get(key); err == nil && ok {
		c.Hit = true
		return entries, nil
	}
	entries, err := c.Inner.Definitions()
	if err != nil {
		return nil, err
	}
	if err := c.Cache.Put(key, entries); err != nil {
		c.StoreErr = fmt.Errorf("store catalog cache: %w", err)
	}
	return entries, nil
}
