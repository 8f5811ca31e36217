package app

import (
	"os"
	"strconv"
	"strings"
)

// Environment variables read by ApplyEnvToConfig.
const (
	EnvDryRun    = "BOOKLINKS_DRY_RUN"
	EnvQuiet     = "BOOKLINKS_QUIET"
	EnvFlagDead  = "BOOKLINKS_FLAG_DEAD"
	EnvSaveFlags = "BOOKLINKS_SAVE_FLAGS"
	EnvWhitelist = "BOOKLINKS_WHITELIST"
	EnvWorkers   = "BOOKLINKS_WORKERS"
	EnvVerbose   = "BOOKLINKS_VERBOSE"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.SaveFlagsPath == "" {
		cfg.SaveFlagsPath = os.Getenv(EnvSaveFlags)
	}
	if cfg.WhitelistPath == "" {
		cfg.WhitelistPath = os.Getenv(EnvWhitelist)
	}
	if cfg.Workers == 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(EnvWorkers))); err == nil && n > 0 {
			cfg.Workers = n
		}
	}

	setBool := func(dst *bool, envKey string) {
		if *dst {
			return
		}
		switch strings.ToLower(strings.TrimSpace(os.Getenv(envKey))) {
		case "1", "true", "yes", "on":
			*dst = true
		}
	}
	setBool(&cfg.DryRun, EnvDryRun)
	setBool(&cfg.Quiet, EnvQuiet)
	setBool(&cfg.FlagDeadLinks, EnvFlagDead)
	setBool(&cfg.Verbose, EnvVerbose)
}
