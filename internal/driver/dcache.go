package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"druk/internal/chunk"
	"druk/internal/project"
	"druk/internal/version"
)

// diskCacheSchemaVersion changes whenever DiskPayload changes shape.
const diskCacheSchemaVersion uint16 = 1

// DiskCache stores encoded chunks keyed by source digest. It is safe for
// concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cache entry.
type DiskPayload struct {
	Schema uint16         `msgpack:"schema"`
	Path   string         `msgpack:"path"`
	Source project.Digest `msgpack:"source"`
	Entry  string         `msgpack:"entry"`
	Chunk  *chunk.Chunk   `msgpack:"chunk"`
}

// OpenDiskCache opens $XDG_CACHE_HOME/<app>, falling back to ~/.cache/<app>.
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

// NewDiskCache uses dir as the cache root, creating it if needed.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// CacheKey derives the entry key from the file content, the compiler
// version and both serialisation schemas.
func CacheKey(content []byte, entry string) project.Digest {
	return project.Combine(project.Sum(content),
		[]byte(version.Version),
		[]byte(entry),
		fmt.Appendf(nil, "%d/%d", diskCacheSchemaVersion, chunk.SchemaVersion),
	)
}

func (c *DiskCache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "chunks", key.String()+".mp")
}

// Put writes payload atomically through a temp file and rename.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				err = errors.Join(err, rmErr)
			}
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get loads the entry for key. A missing entry or one written by another
// schema is a miss, not an error.
func (c *DiskCache) Get(key project.Digest) (*DiskPayload, bool, error) {
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

	var payload DiskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("decode cache entry: %w", err)
	}
	if payload.Schema != diskCacheSchemaVersion {
		return nil, false, nil
	}
	if payload.Chunk == nil || payload.Chunk.Schema != chunk.SchemaVersion {
		return nil, false, nil
	}
	return &payload, true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "chunks"))
}
