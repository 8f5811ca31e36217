package app

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnvFiles loads dotenv files into the process environment, later files
// overriding earlier ones. Missing files are skipped. Variables already set in
// the real environment are kept, so a checked-in .env never masks what the
// caller exported.
func LoadEnvFiles(paths ...string) error {
	preset := map[string]bool{}
	for _, kv := range os.Environ() {
		if eq := strings.IndexByte(kv, '='); eq > 0 && kv[eq+1:] != "" {
			preset[kv[:eq]] = true
		}
	}
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		vars, err := godotenv.Read(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
		for k, v := range vars {
			if preset[k] {
				continue
			}
			if err := os.Setenv(k, v); err != nil {
				return fmt.Errorf("set %s: %w", k, err)
			}
		}
	}
	return nil
}
