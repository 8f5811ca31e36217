package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperifyio/booklinks/internal/corpus"
	"github.com/hyperifyio/booklinks/internal/deadref"
)

const (
	stringsChapter = "# Storing UTF-8 Encoded Text with Strings\n\n" +
		"## Concatenation with the `+` Operator or the `format!` Macro\n\n" +
		"See “Indexing into Strings” below.\n\n" +
		"## Indexing into Strings\n\n" +
		"```rust\n# fn main() {}\n```\n\n" +
		"## Summary\n"
	testsChapter = "# How to Write Tests\n\n" +
		"Discussed in the “Concatenation with the `+`\nOperator or the `format!` Macro” section.\n" +
		"Also see “A Missing Section” and “the rest of this”.\n\n" +
		"## Summary\n"
)

func writeBook(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"ch08-02-strings.md":       stringsChapter,
		"ch11-01-writing-tests.md": testsChapter,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

func runApp(t *testing.T, cfg Config) (*App, error) {
	t.Helper()
	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()
	return a, a.Run(context.Background())
}

func TestRun_RewritesAndIsIdempotent(t *testing.T) {
	dir := writeBook(t)
	var out bytes.Buffer
	a, err := runApp(t, Config{Paths: []string{dir}, Output: &out, Workers: 2})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	tests := readFile(t, filepath.Join(dir, "ch11-01-writing-tests.md"))
	wantLink := "[“Concatenation with the `+`\nOperator or the `format!` Macro”][concatenation-with-the--operator-or-the-format-macro]"
	if !strings.Contains(tests, wantLink) {
		t.Fatalf("expected cross-document link, got:\n%s", tests)
	}
	wantFooter := "\n\n[concatenation-with-the--operator-or-the-format-macro]: ch08-02-strings.html#concatenation-with-the--operator-or-the-format-macro\n"
	if !strings.HasSuffix(tests, wantFooter) {
		t.Fatalf("expected footer definition, got:\n%s", tests)
	}
	if !strings.Contains(tests, "“A Missing Section”") || !strings.Contains(tests, "“the rest of this”") {
		t.Fatalf("dead and lowercase mentions must stay as written:\n%s", tests)
	}

	chapter := readFile(t, filepath.Join(dir, "ch08-02-strings.md"))
	if !strings.Contains(chapter, "See [“Indexing into Strings”](#indexing-into-strings) below.") {
		t.Fatalf("expected same-document link, got:\n%s", chapter)
	}
	if strings.Contains(chapter, ".html#") {
		t.Fatalf("same-document link must not add a footer:\n%s", chapter)
	}

	s := a.Summary()
	if s.Documents != 2 || s.Rewritten != 2 || s.Links != 2 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no console output without flags, got %q", out.String())
	}

	// second pass changes nothing
	a2, err := runApp(t, Config{Paths: []string{dir}, Output: &out})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if got := readFile(t, filepath.Join(dir, "ch11-01-writing-tests.md")); got != tests {
		t.Fatalf("second run modified document:\n%s", got)
	}
	if a2.Summary().Rewritten != 0 {
		t.Fatalf("second run rewrote %d documents", a2.Summary().Rewritten)
	}
}

func TestRun_DryRunPreviewsWithoutWriting(t *testing.T) {
	dir := writeBook(t)
	var out bytes.Buffer
	a, err := runApp(t, Config{Paths: []string{dir}, DryRun: true, Output: &out})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := readFile(t, filepath.Join(dir, "ch11-01-writing-tests.md")); got != testsChapter {
		t.Fatalf("dry run modified document:\n%s", got)
	}
	preview := out.String()
	if !strings.Contains(preview, "ch11-01-writing-tests=#") {
		t.Fatalf("expected banner in preview, got:\n%s", preview)
	}
	if !strings.Contains(preview, " v v v") || !strings.Contains(preview, "[concatenation-with-the--operator-or-the-format-macro]") {
		t.Fatalf("expected replacement in preview, got:\n%s", preview)
	}
	if a.Summary().Links != 2 || a.Summary().Rewritten != 0 {
		t.Fatalf("unexpected summary: %+v", a.Summary())
	}

	out.Reset()
	if _, err := runApp(t, Config{Paths: []string{dir}, DryRun: true, Quiet: true, Output: &out}); err != nil {
		t.Fatalf("quiet run: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("quiet dry run printed %q", out.String())
	}
}

func TestRun_FlagDeadLinks(t *testing.T) {
	dir := writeBook(t)
	var out bytes.Buffer
	a, err := runApp(t, Config{Paths: []string{dir}, FlagDeadLinks: true, Output: &out})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "dead links:\n[“A Missing Section”] is possibly a dead link\n"
	if out.String() != want {
		t.Fatalf("dead link report = %q, want %q", out.String(), want)
	}
	if got := a.Summary().Dead; len(got) != 1 || got[0] != "A Missing Section" {
		t.Fatalf("Dead=%v", got)
	}
	// the dead mention does not block rewriting the rest of the document
	if !strings.Contains(readFile(t, filepath.Join(dir, "ch11-01-writing-tests.md")), "[concatenation-with-the--operator-or-the-format-macro]: ") {
		t.Fatalf("document with a dead mention was not rewritten")
	}
}

func TestRun_WhitelistSuppressesDead(t *testing.T) {
	dir := writeBook(t)
	wl := filepath.Join(t.TempDir(), "whitelist.txt")
	if err := os.WriteFile(wl, []byte("“A Missing Section”\n"), 0o644); err != nil {
		t.Fatalf("write whitelist: %v", err)
	}
	var out bytes.Buffer
	a, err := runApp(t, Config{Paths: []string{dir}, FlagDeadLinks: true, WhitelistPath: wl, Output: &out})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(a.Summary().Dead) != 0 || out.Len() != 0 {
		t.Fatalf("whitelisted mention reported dead: %v %q", a.Summary().Dead, out.String())
	}
}

func TestRun_ExportDeadLinks(t *testing.T) {
	dir := writeBook(t)
	flags := filepath.Join(t.TempDir(), "flags.txt")
	var out bytes.Buffer
	if _, err := runApp(t, Config{Paths: []string{dir}, SaveFlagsPath: flags, Output: &out}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := readFile(t, flags); got != "# “A Missing Section”\n" {
		t.Fatalf("export = %q", got)
	}
	if out.Len() != 0 {
		t.Fatalf("export must replace console report, got %q", out.String())
	}
}

// Uncommenting an exported line yields a whitelist entry for the same mention.
func TestExportedDeadLinksLoadAsWhitelist(t *testing.T) {
	dir := t.TempDir()
	flags := filepath.Join(dir, "flags.txt")
	if err := deadref.Export(flags, []string{"Missing Section"}); err != nil {
		t.Fatalf("export: %v", err)
	}
	var lines []string
	for _, line := range strings.Split(readFile(t, flags), "\n") {
		lines = append(lines, strings.TrimPrefix(line, "# "))
	}
	wl := filepath.Join(dir, "whitelist.txt")
	if err := os.WriteFile(wl, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write whitelist: %v", err)
	}
	got, err := LoadWhitelist(wl)
	if err != nil {
		t.Fatalf("load whitelist: %v", err)
	}
	if len(got) != 1 || got[0] != "Missing Section" {
		t.Fatalf("whitelist=%q, want [Missing Section]", got)
	}
}

func TestRun_ExistingExportTargetAbortsBeforeWriting(t *testing.T) {
	dir := writeBook(t)
	flags := filepath.Join(t.TempDir(), "flags.txt")
	if err := os.WriteFile(flags, []byte("old\n"), 0o644); err != nil {
		t.Fatalf("write flags: %v", err)
	}
	_, err := runApp(t, Config{Paths: []string{dir}, SaveFlagsPath: flags, Output: &bytes.Buffer{}})
	if !errors.Is(err, deadref.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if got := readFile(t, filepath.Join(dir, "ch11-01-writing-tests.md")); got != testsChapter {
		t.Fatalf("document modified despite fatal error")
	}
	if got := readFile(t, flags); got != "old\n" {
		t.Fatalf("export target clobbered: %q", got)
	}
}

func TestRun_MissingInputs(t *testing.T) {
	_, err := runApp(t, Config{Paths: []string{filepath.Join(t.TempDir(), "absent")}})
	if !errors.Is(err, corpus.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	dir := writeBook(t)
	_, err = runApp(t, Config{Paths: []string{dir}, WhitelistPath: filepath.Join(dir, "nope.txt")})
	if !errors.Is(err, corpus.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for whitelist, got %v", err)
	}
}

func TestRun_ReferencesDump(t *testing.T) {
	dir := writeBook(t)
	var out bytes.Buffer
	if _, err := runApp(t, Config{Paths: []string{dir}, DryRun: true, Quiet: true, References: true, Output: &out}); err != nil {
		t.Fatalf("run: %v", err)
	}
	dump := out.String()
	for _, want := range []string{
		"Indexing into Strings:",
		"document: ch08-02-strings",
		"anchor: indexing-into-strings",
		"How to Write Tests:",
	} {
		if !strings.Contains(dump, want) {
			t.Fatalf("index dump missing %q:\n%s", want, dump)
		}
	}
	if strings.Contains(dump, "Summary:") || strings.Contains(dump, "fn main") {
		t.Fatalf("reserved or fenced heading leaked into index:\n%s", dump)
	}
}

func TestRun_LastWriteWinsAcrossDocuments(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.md": "## Shared Title\n",
		"b.md": "## Shared Title\n",
		"c.md": "See “Shared Title”.\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	a, err := runApp(t, Config{Paths: []string{dir}, Output: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if a.Summary().Collisions != 1 {
		t.Fatalf("Collisions=%d, want 1", a.Summary().Collisions)
	}
	got := readFile(t, filepath.Join(dir, "c.md"))
	if !strings.HasSuffix(got, "[shared-title]: b.html#shared-title\n") {
		t.Fatalf("expected link to the later document b, got:\n%s", got)
	}
}
