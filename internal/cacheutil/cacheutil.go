// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/csvcmp/csvcmp/internal/log"
)

// digestLen is how many hex characters of the content digest name a staging
// directory.
const digestLen = 16

// Dir resolves the base cache directory.
// Precedence:
//  1. CSVCMP_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/csvcmp
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("CSVCMP_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "csvcmp"), true
	}
	return "", false
}

// Enabled returns true unless CSVCMP_CACHE explicitly disables it ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("CSVCMP_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
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

// StagePath returns where Stage would place name for the given content, and
// whether a file is already there.
func StagePath(subdirs []string, name string, data []byte) (string, bool) {
	base, ok := Dir()
	if !ok {
		return "", false
	}
	parts := append([]string{base}, subdirs...)
	parts = append(parts, digest(data), name)
	p := filepath.Join(parts...)
	if _, err := os.Stat(p); err == nil {
		return p, true
	}
	return p, false
}

// Stage keeps a copy of data as subdirs/<digest>/name under the cache base so
// the file keeps its real name. Identical content reuses the staged copy. It
// returns "" without error when caching is disabled.
func Stage(subdirs []string, name string, data []byte) (string, error) {
	if _, ok, err := EnsureBaseDir(); !ok {
		return "", err
	}

	p, exists := StagePath(subdirs, name, data)
	if exists {
		log.Debugf("stage hit: path=%s", p)
		// Refresh the mtime so Purge sees the file as recently used.
		now := time.Now()
		_ = os.Chtimes(p, now, now)
		return p, nil
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil { //nolint:mnd
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	if err := os.WriteFile(p, data, os.FileMode(0o600)); err != nil { //nolint:mnd
		return "", fmt.Errorf("failed to stage %s: %w", name, err)
	}
	log.Debugf("staged: path=%s", p)
	return p, nil
}

// Purge removes files older than the provided number of hours.
// If hours <= 0 or the cache dir cannot be resolved, it is a no-op.
func Purge(hours int) error {
	if hours <= 0 {
		log.Debug("cache cleaning disabled")
		return nil
	}

	base, ok := Dir()
	if !ok {
		return nil
	}

	maxAge := time.Duration(hours) * time.Hour
	if err := filepath.Walk(base, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}

		if info == nil {
			return nil
		}

		if !info.IsDir() && time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err == nil {
				log.Debugf("removed cache file %s", path)
			} else {
				log.WithError(err).Warnf("failed to remove cache file %s", path)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:digestLen]
}
