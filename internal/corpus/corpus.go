// Package corpus enumerates, reads and writes the markdown chapters of a book.
package corpus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// DocumentExt is the extension recognized as a chapter.
const DocumentExt = ".md"

var (
	// ErrNotFound is returned when an input path does not exist.
	ErrNotFound = errors.New("input path not found")
	// ErrNotDocument is returned for an explicit file without DocumentExt.
	ErrNotDocument = errors.New("not a markdown document")
)

// Source is a document on disk that has not been read yet.
type Source struct {
	ID   string
	Path string
}

// Document is one chapter. ID is the file name without extension and is what
// cross-document links point at.
type Document struct {
	ID   string
	Path string
	Text string
}

// Collect expands paths into sources. A directory contributes its regular
// DocumentExt files in name order, without recursion. An explicit file must
// carry DocumentExt unless anyExtension is set.
func Collect(paths []string, anyExtension bool) ([]Source, error) {
	out := make([]Source, 0, 64)
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%s: %w", p, ErrNotFound)
			}
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if info.IsDir() {
			srcs, err := collectDir(p)
			if err != nil {
				return nil, err
			}
			out = append(out, srcs...)
			continue
		}
		if !anyExtension && filepath.Ext(p) != DocumentExt {
			return nil, fmt.Errorf("%s: %w", p, ErrNotDocument)
		}
		out = append(out, Source{ID: documentID(p), Path: p})
	}
	return out, nil
}

func collectDir(dir string) ([]Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	out := make([]Source, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || filepath.Ext(e.Name()) != DocumentExt {
			continue
		}
		p := filepath.Join(dir, e.Name())
		out = append(out, Source{ID: documentID(p), Path: p})
	}
	log.Debug().Str("dir", dir).Int("documents", len(out)).Msg("collected directory")
	return out, nil
}

func documentID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Load reads every source. CRLF line endings are read as LF.
func Load(srcs []Source) ([]Document, error) {
	docs := make([]Document, 0, len(srcs))
	for _, s := range srcs {
		b, err := os.ReadFile(s.Path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%s: %w", s.Path, ErrNotFound)
			}
			return nil, fmt.Errorf("read %s: %w", s.Path, err)
		}
		text := strings.ReplaceAll(string(b), "\r\n", "\n")
		docs = append(docs, Document{ID: s.ID, Path: s.Path, Text: text})
	}
	return docs, nil
}

// Write replaces the document's file content, keeping its permission bits.
func Write(d Document, text string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(d.Path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(d.Path, []byte(text), mode); err != nil {
		return fmt.Errorf("write %s: %w", d.Path, err)
	}
	return nil
}
