// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureAbsolute - ensure the path is absolute
// if not, prepend the directory to make absolute path
func EnsureAbsolute(directory string, filePath string) string {
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(directory, filePath)
	}
	return filepath.Clean(filePath)
}

// EnsureDirectory - create a directory, and any parents, if missing
func EnsureDirectory(directory string) error {
	return os.MkdirAll(directory, 0o700)
}

// EnsureFileExists - check if file exists
func EnsureFileExists(name string) bool {
	_, err := os.Stat(name)
	return nil == err
}

// MoveToDirectory - rename a file into a directory keeping its base name
//
// an existing file of that name is never replaced, a numeric suffix is
// added before the extension instead; returns the new path
func MoveToDirectory(name string, directory string) (string, error) {
	base := filepath.Base(name)
	extension := filepath.Ext(base)
	stem := strings.TrimSuffix(base, extension)

	target := filepath.Join(directory, base)
	for n := 1; EnsureFileExists(target); n += 1 {
		target = filepath.Join(directory, fmt.Sprintf("%s.%d%s", stem, n, extension))
	}
	if err := os.Rename(name, target); nil != err {
		return "", err
	}
	return target, nil
}
