package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var ErrNoWords = errors.New("word list is empty")

// LoadWords reads a word list with one word per line. Surrounding whitespace
// is trimmed and blank lines are dropped.
func LoadWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening word list: %w", err)
	}
	defer f.Close()

	words, err := ReadWords(f)
	if err != nil {
		return nil, fmt.Errorf("reading word list %s: %w", path, err)
	}
	return words, nil
}

// ReadWords parses a word list from r.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if w := strings.TrimSpace(scanner.Text()); w != "" {
			words = append(words, w)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, ErrNoWords
	}
	return words, nil
}
