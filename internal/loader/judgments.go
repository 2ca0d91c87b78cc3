package loader

import (
	"fmt"
	"io"
	"strings"

	"github.com/gcbaptista/go-retrieval-engine/model"
)

// ReadJudgments parses relevance judgments, one query per line:
//
//	<query id> <doc id> <doc id> ...
//
// Repeated lines for one query are merged.
func ReadJudgments(r io.Reader) (model.Judgments, error) {
	judgments := make(model.Judgments)
	scanner := newScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		judgments[fields[0]] = append(judgments[fields[0]], fields[1:]...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read judgments: %w", err)
	}
	return judgments, nil
}

// LoadJudgments reads a judgments file from disk.
func LoadJudgments(path string) (model.Judgments, error) {
	var judgments model.Judgments
	err := withFile(path, func(r io.Reader) error {
		var err error
		judgments, err = ReadJudgments(r)
		return err
	})
	return judgments, err
}
