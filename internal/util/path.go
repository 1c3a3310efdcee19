// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SanitizeFilename keeps only the base name of an uploaded file and
// replaces anything outside [A-Za-z0-9._-] with a hyphen.
func SanitizeFilename(filename string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	if base == "." || base == ".." || base == "/" || base == "" {
		return "", fmt.Errorf("invalid filename: %q", filename)
	}

	ext := filepath.Ext(base)
	name := Slugify(strings.TrimSuffix(base, ext))
	if name == "" {
		name = "file"
	}
	ext = slugRegex.ReplaceAllString(strings.ToLower(strings.TrimPrefix(ext, ".")), "")
	if ext == "" {
		return name, nil
	}
	return name + "." + ext, nil
}

// SafeJoinPath joins components under basePath and rejects results that
// escape it.
func SafeJoinPath(basePath string, components ...string) (string, error) {
	absBase, err := filepath.Abs(filepath.Clean(basePath))
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	full, err := filepath.Abs(filepath.Join(append([]string{absBase}, components...)...))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	if full != absBase && !strings.HasPrefix(full, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected: path escapes base directory")
	}
	return full, nil
}
