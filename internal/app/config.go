package app

import (
	"io"
)

// Config holds runtime configuration for a linking run.
type Config struct {
	// Paths are chapter files or directories of chapters.
	Paths []string

	// Behavior
	DryRun        bool
	Quiet         bool
	FlagDeadLinks bool
	// SaveFlagsPath, when set, receives the sorted dead references instead of
	// the console. The file must not exist yet.
	SaveFlagsPath string
	WhitelistPath string
	AnyExtension  bool
	References    bool

	// Indexing
	ReservedTitles []string

	// Workers bounds per-document parallelism; 0 means one per CPU.
	Workers int
	Verbose bool

	// Output receives previews, dead-link reports and the index dump.
	// Defaults to os.Stdout.
	Output io.Writer
}

// detectDead reports whether unresolved mentions are collected at all.
func (c Config) detectDead() bool {
	return c.FlagDeadLinks || trim(c.SaveFlagsPath) != ""
}
