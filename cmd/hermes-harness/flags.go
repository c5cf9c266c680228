package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
)

// version is injected at build time with -ldflags "-X main.version=...". Defaults to dev.
var version = "dev"

// cliConfig holds user supplied flag values prior to translation into
// config.Config and an Environment so main.go can validate and map.
type cliConfig struct {
	configPath  string
	logPath     string
	logLevel    string
	list        bool
	test        string
	verbose     bool
	role        string // "upstream" (dial out) or "downstream" (listen), overrides nothing by default
	showVersion bool
}

func parseFlags(args []string) (*cliConfig, error) {
	fs := flag.NewFlagSet("hermes-harness", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	cfg := &cliConfig{}
	fs.StringVar(&cfg.configPath, "config", "hermes-harness.conf", "Path to the bracketed key=value configuration file")
	fs.StringVar(&cfg.logPath, "log", "hermes-harness.log", "Path to the rotating log file")
	fs.StringVar(&cfg.logLevel, "log-level", "", "Log level override: debug|info|warn|error (default: config file's logging.level)")
	fs.BoolVar(&cfg.list, "list", false, "List available conformance test cases and exit")
	fs.StringVar(&cfg.test, "test", "", "Name of the conformance test case to run")
	fs.BoolVar(&cfg.verbose, "verbose", false, "Fire BEFORE_TEST_CASE/AFTER_TEST_CASE callback events")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.logLevel != "" {
		switch cfg.logLevel {
		case "debug", "info", "warn", "error":
		default:
			return nil, fmt.Errorf("invalid log-level %q", cfg.logLevel)
		}
	}

	if !cfg.list && !cfg.showVersion && cfg.test == "" {
		return nil, errors.New("one of -list, -test <name>, or -version is required")
	}

	return cfg, nil
}
