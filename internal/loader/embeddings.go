package loader

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gcbaptista/go-retrieval-engine/internal/embeddings"
)

// ReadEmbeddings parses a GloVe-style text table:
//
//	<term> <f1> <f2> ... <fD>
//
// The first row fixes D; a row of another width fails with a
// DimensionMismatchError.
func ReadEmbeddings(r io.Reader) (*embeddings.Table, error) {
	table := embeddings.NewEmptyTable(0)
	scanner := newScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) == 1 {
			return nil, fmt.Errorf("line %d: term %q has no components", lineNo, fields[0])
		}

		vec := make([]float64, len(fields)-1)
		for i, raw := range fields[1:] {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid component %q: %w", lineNo, raw, err)
			}
			vec[i] = v
		}
		if err := table.Add(fields[0], vec); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read embeddings: %w", err)
	}
	return table, nil
}

// LoadEmbeddings reads an embedding table from disk.
func LoadEmbeddings(path string) (*embeddings.Table, error) {
	var table *embeddings.Table
	err := withFile(path, func(r io.Reader) error {
		var err error
		table, err = ReadEmbeddings(r)
		return err
	})
	return table, err
}
