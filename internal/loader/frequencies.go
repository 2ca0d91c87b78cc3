// Package loader reads corpora, judgments, embeddings and stopword lists from
// their on-disk text formats.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gcbaptista/go-retrieval-engine/model"
)

const maxLineSize = 4 << 20

// ReadFrequencies parses a frequency file, one item per line:
//
//	Doc12-3 soviet-2 treati-1
//
// The optional "Doc" prefix and "-<physical>" suffix of the identifier are
// dropped. A term may itself contain '-'; the count follows the last one.
// Blank lines are skipped.
func ReadFrequencies(r io.Reader) ([]model.Document, error) {
	var docs []model.Document
	scanner := newScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		id := parseID(fields[0])
		if id == "" {
			return nil, fmt.Errorf("line %d: empty identifier", lineNo)
		}

		doc := model.Document{ID: id, Frequencies: make(map[string]int, len(fields)-1)}
		for _, pair := range fields[1:] {
			cut := strings.LastIndexByte(pair, '-')
			if cut <= 0 || cut == len(pair)-1 {
				return nil, fmt.Errorf("line %d: malformed term-count pair %q", lineNo, pair)
			}
			count, err := strconv.Atoi(pair[cut+1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid count in %q", lineNo, pair)
			}
			doc.Frequencies[pair[:cut]] += count
		}
		docs = append(docs, doc)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read frequencies: %w", err)
	}
	return docs, nil
}

// LoadFrequencies reads a frequency file from disk.
func LoadFrequencies(path string) ([]model.Document, error) {
	var docs []model.Document
	err := withFile(path, func(r io.Reader) error {
		var err error
		docs, err = ReadFrequencies(r)
		return err
	})
	return docs, err
}

func parseID(raw string) string {
	id := strings.TrimPrefix(raw, "Doc")
	if cut := strings.LastIndexByte(id, '-'); cut > 0 {
		id = id[:cut]
	}
	return id
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return scanner
}

func withFile(path string, fn func(io.Reader) error) error {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	if err := fn(file); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
