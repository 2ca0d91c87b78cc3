package loader

import (
	"fmt"
	"io"
	"strings"
)

// ReadStopwords parses a stopword list with any number of words per line.
// Words are lowercased; single ASCII letters are ignored.
func ReadStopwords(r io.Reader) (map[string]struct{}, error) {
	stopwords := make(map[string]struct{})
	scanner := newScanner(r)
	for scanner.Scan() {
		for _, w := range strings.Fields(scanner.Text()) {
			if len(w) == 1 && isASCIILetter(w[0]) {
				continue
			}
			stopwords[strings.ToLower(w)] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stopwords: %w", err)
	}
	return stopwords, nil
}

// LoadStopwords reads a stopword list from disk.
func LoadStopwords(path string) (map[string]struct{}, error) {
	var stopwords map[string]struct{}
	err := withFile(path, func(r io.Reader) error {
		var err error
		stopwords, err = ReadStopwords(r)
		return err
	})
	return stopwords, err
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
