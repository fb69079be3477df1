// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"

	"github.com/staranto/pumlcache/internal/cache"
	"github.com/staranto/pumlcache/internal/config"
)

// DefaultMaxSize is the budget used when cache.max_size is not configured.
const DefaultMaxSize int64 = 50 * 1024 * 1024

// Dir resolves the base cache directory.
// Precedence:
//  1. PUMLCACHE_CACHE_DIR, if set and non-empty
//  2. cache.dir from the config file
//  3. os.UserCacheDir()/pumlcache
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("PUMLCACHE_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if c, _ := config.GetString("cache.dir", ""); c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "pumlcache"), true
	}
	return "", false
}

// Enabled returns true unless PUMLCACHE_CACHE explicitly disables it
// ("0"/"false") or cache.enabled is false in the config file. The
// environment wins over the config file.
func Enabled() bool {
	if enabled, ok := os.LookupEnv("PUMLCACHE_CACHE"); ok && enabled != "" {
		return enabled != "0" && enabled != "false"
	}
	enabled, _ := config.GetBool("cache.enabled", true)
	return enabled
}

// MaxSize returns the cache budget in bytes from cache.max_size. The value may
// be a plain number of bytes or a size such as "50MiB" or "200 MB".
func MaxSize() int64 {
	raw, _ := config.Get("cache.max_size", nil)
	n, err := ParseSize(raw)
	if err != nil {
		log.WithError(err).Warnf("invalid cache.max_size, using %s", humanize.IBytes(uint64(DefaultMaxSize)))
		return DefaultMaxSize
	}
	return n
}

// ParseSize converts a config value into bytes. nil yields DefaultMaxSize.
func ParseSize(v any) (int64, error) {
	switch s := v.(type) {
	case nil:
		return DefaultMaxSize, nil
	case int:
		if s < 0 {
			return 0, fmt.Errorf("negative size: %d", s)
		}
		return int64(s), nil
	case float64:
		if s < 0 {
			return 0, fmt.Errorf("negative size: %v", s)
		}
		// float64(math.MaxInt64) rounds up to 2^63, which does not fit.
		if s >= float64(math.MaxInt64) {
			return 0, fmt.Errorf("size too large: %v", s)
		}
		return int64(s), nil
	case string:
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && n >= 0 {
			return n, nil
		}
		n, err := humanize.ParseBytes(s)
		if err != nil {
			return 0, fmt.Errorf("invalid size %q: %w", s, err)
		}
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("size too large: %q", s)
		}
		return int64(n), nil
	default:
		return 0, fmt.Errorf("unsupported size value %v", v)
	}
}

// CleanHours returns the age, in hours, past which entries are pruned. 0
// disables pruning.
func CleanHours() int {
	hours, _ := config.GetInt("cache.clean", 0)
	if hours < 0 {
		return 0
	}
	return hours
}

// EnsureBaseDir creates the base cache directory if caching is enabled and
// a base path can be resolved. Returns the path, whether it is usable, and an
// error if creation failed.
func EnsureBaseDir() (string, bool, error) {
	if !Enabled() {
		return "", false, nil
	}
	base, ok := Dir()
	if !ok {
		return "", false, nil
	}
	if err := os.MkdirAll(base, 0o755); err != nil { //nolint:mnd
		return base, false, fmt.Errorf("failed to create cache base directory: %w", err)
	}
	return base, true, nil
}

// Open returns a cache sized by MaxSize. When caching is enabled and the
// directory is usable the cache mirrors it; otherwise it is memory-only.
// Loading an over-budget directory evicts its oldest files.
func Open() (*cache.Cache, error) {
	return open(MaxSize())
}

// Inspect opens the cache like Open but loads the directory under an
// unbounded budget, so nothing is evicted while reading it. MaxCost still
// reports the configured budget, which the next Add enforces.
func Inspect() (*cache.Cache, error) {
	c, err := open(math.MaxInt64)
	if err != nil {
		return nil, err
	}
	c.SetMaxCost(MaxSize())
	return c, nil
}

func open(budget int64) (*cache.Cache, error) {
	c := cache.New(budget)
	if !Enabled() {
		log.Debug("cache disabled, using memory-only cache")
		return c, nil
	}
	base, ok := Dir()
	if !ok {
		log.Debug("no cache directory, using memory-only cache")
		return c, nil
	}

	if err := c.SetPath(base, cache.FileEntries); err != nil {
		if errors.Is(err, cache.ErrDirectoryUnavailable) {
			log.WithError(err).Warn("falling back to memory-only cache")
			return c, nil
		}
		return nil, err
	}
	return c, nil
}

// Purge prunes entries older than the configured number of hours. If hours is
// 0 it is a no-op.
func Purge(c *cache.Cache, hours int) (int, error) {
	if hours <= 0 {
		log.Debug("cache cleaning disabled")
		return 0, nil
	}
	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)
	n, err := c.Prune(cutoff)
	if err != nil {
		return n, fmt.Errorf("failed to purge cache: %w", err)
	}
	if n > 0 {
		log.Debugf("purged %d cache entries older than %dh", n, hours)
	}
	return n, nil
}
