package service

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/samber/oops"
)

// ReadIdentifiers parses a line-delimited identifier list, trimming
// whitespace and skipping blank lines. Input order is preserved.
func ReadIdentifiers(r io.Reader) ([]string, error) {
	identifiers := []string{}
	scanner := bufio.NewScanner(r)
	// Lines longer than the default 64KiB token limit would abort the scan.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			identifiers = append(identifiers, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, oops.With("context", "reading identifier list").Wrap(err)
	}
	return identifiers, nil
}

// ReadIdentifierFile reads an identifier list from disk.
func ReadIdentifierFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	defer f.Close()
	return ReadIdentifiers(f)
}
