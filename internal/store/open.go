package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const lockRetryDelay = 50 * time.Millisecond

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend  string
	Key      string
	DBPath   string
	RedisURL string
	DataFile string
}

// Open creates the Store described by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendSQLite:
		if opts.DBPath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(opts.DBPath), 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		return NewSQLiteStore(opts.DBPath, opts.Key)
	case BackendRedis:
		return NewRedisStore(ctx, opts.RedisURL, opts.Key)
	case BackendFile:
		return NewFileStore(opts.DataFile)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
