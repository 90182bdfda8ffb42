package feed

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// IsYAML reports whether path names a YAML items file.
func IsYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// ReadFile returns the labels stored in the file at path. YAML files must
// hold a sequence of strings; any other file is read one label per line.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if IsYAML(path) {
		return ParseYAML(f)
	}
	return ParseLines(f)
}

// ParseLines returns the trimmed, non-empty lines read from r.
func ParseLines(r io.Reader) ([]string, error) {
	var labels []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		labels = append(labels, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	return labels, nil
}

// ParseYAML returns the labels in a YAML sequence of strings read from r. An
// empty document holds no labels.
func ParseYAML(r io.Reader) ([]string, error) {
	var labels []string
	if err := yaml.NewDecoder(r).Decode(&labels); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return labels, nil
}

// Unique returns the given items with later duplicates removed, keeping the
// order of first appearance.
func Unique[T comparable](items []T) []T {
	seen := make(map[T]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
