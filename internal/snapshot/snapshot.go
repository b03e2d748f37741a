// Package snapshot writes the catalog tree to (and reads it back from) the
// JSON file that is the primary output of a scrape.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sigahorarios/internal/assert"
	"sigahorarios/internal/catalog"
	"sort"
	"strings"
	"time"
)

const (
	DefaultDir = "json"

	filePrefix = "bdd_general-"
	fileSuffix = ".json"
	timeLayout = "2006-01-02_15-04-05"
)

// FileName returns the snapshot file name of a run that started at the given time.
func FileName(startedAt time.Time) string {
	return filePrefix + startedAt.Format(timeLayout) + fileSuffix
}

// Writer overwrites the same snapshot file every time it is called, a run
// produces exactly one file.
type Writer struct {
	path string
}

func NewWriter(path string) Writer {
	assert.NotEmptyStr(path)
	return Writer{path: path}
}

// NewRunWriter creates a Writer for a run that started at the given time.
func NewRunWriter(dir string, startedAt time.Time) Writer {
	return NewWriter(filepath.Join(dir, FileName(startedAt)))
}

func (w Writer) Path() string {
	return w.path
}

// Write atomically replaces the snapshot file with the given tree.
func (w Writer) Write(tree catalog.Catalog) error {
	serialized, err := Encode(tree)
	if err != nil {
		return err
	}
	err = os.MkdirAll(filepath.Dir(w.path), 0755)
	if err != nil {
		return err
	}
	tmp := w.path + ".tmp"
	err = os.WriteFile(tmp, serialized, 0644)
	if err != nil {
		return err
	}
	return os.Rename(tmp, w.path)
}

// Encode serializes a tree the way snapshot files are written, map keys are
// sorted so the same tree always produces the same bytes.
func Encode(tree catalog.Catalog) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	err := encoder.Encode(tree)
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// Load reads a snapshot file.
func Load(path string) (catalog.Catalog, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tree := catalog.Catalog{}
	err = json.Unmarshal(contents, &tree)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	for _, periods := range tree {
		for _, period := range periods {
			for code, sections := range period {
				for i := range sections {
					if sections[i].Professors == nil {
						sections[i].Professors = []string{}
					}
				}
				period[code] = sections
			}
		}
	}
	return tree, nil
}

// ErrNoSnapshot is returned by Latest when a directory holds no snapshot.
var ErrNoSnapshot = errors.New("no snapshot found")

// Latest returns the path of the most recent snapshot in dir.
func Latest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoSnapshot
	}
	if err != nil {
		return "", err
	}
	names := []string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return "", ErrNoSnapshot
	}
	// the timestamp layout sorts lexicographically.
	sort.Strings(names)
	return filepath.Join(dir, names[len(names)-1]), nil
}
