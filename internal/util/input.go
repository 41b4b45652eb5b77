// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ParseInputSpec parses an input file spec and returns the absolute file path
// and any optional worksheet name. A spec is a path optionally followed by
// ::Sheet, e.g. "orders.xlsx::March". It returns an error if the fs entry does
// not exist, is empty or is a directory.
func ParseInputSpec(spec string) (string, string, error) {

	if spec == "" {
		return "", "", os.ErrInvalid
	}

	var path, sheet string

	// First, split the spec to see if there is a ::sheet selector.
	parts := strings.Split(spec, "::")
	if len(parts) > 1 {
		sheet = parts[1]
	}

	// Now determine if the file (parts[0]) is absolute or relative. If it is
	// relative, make it absolute.
	if !filepath.IsAbs(parts[0]) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", "", err
		}
		path = filepath.Join(cwd, parts[0])
	} else {
		path = parts[0]
	}

	// If the path is a directory, return an error.
	if r, err := os.Stat(path); err != nil {
		return "", "", err
	} else if r.IsDir() {
		return "", "", fmt.Errorf("%s is a directory: %w", path, os.ErrInvalid)
	}

	return path, sheet, nil
}
