// Package deadref collects mentions that resolved to no heading.
package deadref

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// ErrAlreadyExists is returned when an export target is already present.
var ErrAlreadyExists = errors.New("dead reference export target already exists")

// Collector is a run-wide, concurrency-safe set of dead mention keys.
type Collector struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func NewCollector() *Collector {
	return &Collector{keys: make(map[string]struct{})}
}

// Add inserts keys into the set.
func (c *Collector) Add(keys ...string) {
	if len(keys) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		c.keys[k] = struct{}{}
	}
}

func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.keys)
}

// Sorted returns the deduplicated keys in ascending order.
func (c *Collector) Sorted() []string {
	c.mu.Lock()
	out := make([]string, 0, len(c.keys))
	for k := range c.keys {
		out = append(out, k)
	}
	c.mu.Unlock()
	sort.Strings(out)
	return out
}

// CheckTarget fails with ErrAlreadyExists when path exists. Run it before any
// document is written so a refused export never leaves a half-applied run.
func CheckTarget(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s: %w", path, ErrAlreadyExists)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	return nil
}

// Export writes keys to a new file at path, one commented-out “<key>” line
// each, in the order given. Uncommenting a line yields a valid whitelist
// entry. It never overwrites an existing file.
func Export(path string, keys []string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: %w", path, ErrAlreadyExists)
		}
		return fmt.Errorf("create %s: %w", path, err)
	}
	var b strings.Builder
	for _, k := range keys {
		b.WriteString("# “")
		b.WriteString(k)
		b.WriteString("”\n")
	}
	if _, err := f.WriteString(b.String()); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
