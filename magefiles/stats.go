//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// skipDirs are not counted by Stats.
var skipDirs = map[string]bool{
	"vendor":    true,
	".git":      true,
	"magefiles": true,
	"_examples": true,
	binaryDir:   true,
}

// Stats prints Go lines of code per top-level directory.
func Stats() error {
	prod := map[string]int{}
	var prodLines, testLines int

	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skipDirs[path] {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		count, err := countLines(path)
		if err != nil {
			return nil
		}
		if strings.HasSuffix(path, "_test.go") {
			testLines += count
			return nil
		}
		prodLines += count
		prod[strings.SplitN(filepath.ToSlash(path), "/", 2)[0]] += count
		return nil
	})
	if err != nil {
		return err
	}

	for _, dir := range []string{"cmd", "internal", "pkg"} {
		fmt.Printf("Lines of code (%s):%*d\n", dir, 24-len(dir), prod[dir])
	}
	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	fmt.Printf("Lines of code (Go, total):      %d\n", prodLines+testLines)
	return nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}
