package app

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hyperifyio/booklinks/internal/corpus"
	"github.com/hyperifyio/booklinks/internal/heading"
)

// LoadWhitelist reads quoted passages that must never be linked nor flagged.
// Only lines wrapped in curly quotes count; everything else is commentary.
func LoadWhitelist(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("whitelist %s: %w", path, corpus.ErrNotFound)
		}
		return nil, fmt.Errorf("open whitelist: %w", err)
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "“") || !strings.HasSuffix(line, "”") {
			continue
		}
		out = append(out, heading.Normalize(strings.Trim(line, "“”")))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read whitelist: %w", err)
	}
	return out, nil
}
