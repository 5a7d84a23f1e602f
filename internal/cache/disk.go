package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"
)

// Disk is a Store persisting entries as files under a directory, so
// cached API responses survive restarts. Keys are hashed to form safe
// file names; entry age comes from file modification time.
type Disk struct {
	dir string
}

// NewDisk creates the cache directory if needed.
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Disk{dir: dir}, nil
}

func (d *Disk) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(d.dir, hex.EncodeToString(sum[:])+".cache")
}

func (d *Disk) Get(key string, ttl time.Duration) ([]byte, bool) {
	p := d.path(key)
	info, err := os.Stat(p)
	if err != nil {
		return nil, false
	}
	if ttl > 0 && time.Since(info.ModTime()) > ttl {
		os.Remove(p)
		return nil, false
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (d *Disk) Put(key string, data []byte) error {
	return os.WriteFile(d.path(key), data, 0o644)
}
