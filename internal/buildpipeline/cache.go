package buildpipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/vmihailenco/msgpack/v5"
)

// Bump when CachePayload changes shape.
const cacheSchemaVersion uint16 = 1

// DiskCache maps source digests to emitted IR text. A mutex serializes
// access within the process and a lock file does so across processes.
type DiskCache struct {
	mu   sync.Mutex
	dir  string
	lock *flock.Flock
}

type CachePayload struct {
	Schema    uint16
	Toolchain string
	Source    string
	IR        string
	CreatedAt time.Time
}

// CacheKey identifies one compilation: toolchain version, options and the
// normalized source bytes all take part.
type CacheKey [sha256.Size]byte

func NewCacheKey(toolchain string, noPrelude bool, content []byte) CacheKey {
	h := sha256.New()
	h.Write([]byte(toolchain))
	if noPrelude {
		h.Write([]byte{0})
	} else {
		h.Write([]byte{1})
	}
	h.Write(content)
	var k CacheKey
	copy(k[:], h.Sum(nil))
	return k
}

func (k CacheKey) String() string { return hex.EncodeToString(k[:]) }

// DefaultCacheDir is $XDG_CACHE_HOME/sysyc or ~/.cache/sysyc.
func DefaultCacheDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cache: %w", err)
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "sysyc"), nil
}

func OpenDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(filepath.Join(dir, "units"), 0o750); err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return &DiskCache{dir: dir, lock: flock.New(filepath.Join(dir, ".lock"))}, nil
}

func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key CacheKey) string {
	return filepath.Join(c.dir, "units", key.String()+".mp")
}

// Put writes payload atomically. A nil cache ignores writes.
func (c *DiskCache) Put(key CacheKey, payload *CachePayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.lock.Lock(); err != nil {
		return fmt.Errorf("cache: lock: %w", err)
	}
	defer func() { err = errors.Join(err, c.lock.Unlock()) }()

	payload.Schema = cacheSchemaVersion
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return fmt.Errorf("cache: encode: %w", err)
	}
	p := c.pathFor(key)
	tmp, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck
	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("cache: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return nil
}

// Get reads the payload for key. Entries written by another schema or
// toolchain count as misses.
func (c *DiskCache) Get(key CacheKey, toolchain string) (payload *CachePayload, ok bool, err error) {
	if c == nil {
		return nil, false, nil
	}
	// One Flock handle is shared by all goroutines, so readers take the
	// process mutex exclusively too.
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.lock.RLock(); err != nil {
		return nil, false, fmt.Errorf("cache: lock: %w", err)
	}
	defer func() { err = errors.Join(err, c.lock.Unlock()) }()

	data, err := os.ReadFile(c.pathFor(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: %w", err)
	}
	var out CachePayload
	if err := msgpack.Unmarshal(data, &out); err != nil {
		return nil, false, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	if out.Schema != cacheSchemaVersion || out.Toolchain != toolchain {
		return nil, false, nil
	}
	return &out, true, nil
}

// Clean removes every cached unit and returns how many were removed.
func (c *DiskCache) Clean() (removed int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.lock.Lock(); err != nil {
		return 0, fmt.Errorf("cache: lock: %w", err)
	}
	defer func() { err = errors.Join(err, c.lock.Unlock()) }()

	units := filepath.Join(c.dir, "units")
	entries, err := os.ReadDir(units)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return 0, fmt.Errorf("cache: %w", err)
	}
	for _, e := range entries {
		if err := os.Remove(filepath.Join(units, e.Name())); err != nil {
			return removed, fmt.Errorf("cache: %w", err)
		}
		removed++
	}
	return removed, nil
}
