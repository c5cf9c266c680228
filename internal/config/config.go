// Package config loads the harness's bracketed key=value configuration
// file (spec §6 "Configuration file"): section headers in square brackets,
// bare key=value lines beneath them, no quoting or nesting.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	hermeserrors "github.com/hermes-org/acceptance-tests/internal/errors"
)

// Config is the harness's resolved configuration: the peer address to
// drive when playing the upstream role, the local port to listen on when
// playing the downstream role, and the default log level.
type Config struct {
	SystemUnderTestHost   string
	SystemUnderTestPort   int
	TestManagerListenPort int
	LogLevel              string
}

func defaults() Config {
	return Config{
		SystemUnderTestHost:   "127.0.0.1",
		SystemUnderTestPort:   50101,
		TestManagerListenPort: 50103,
		LogLevel:              "info",
	}
}

// Load reads path, creating it with defaults if it doesn't exist yet, and
// returns the resolved Config.
func Load(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := defaults()
		if writeErr := writeDefault(path, cfg); writeErr != nil {
			return Config{}, hermeserrors.NewConfigError("config.Load", writeErr)
		}
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, hermeserrors.NewConfigError("config.Load", err)
	}
	defer f.Close()

	cfg := defaults()
	section := ""
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(line[1 : len(line)-1])
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return Config{}, hermeserrors.NewConfigError("config.Load",
				fmt.Errorf("%s:%d: expected key=value, got %q", path, lineNo, line))
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if err := apply(&cfg, section, key, value); err != nil {
			return Config{}, hermeserrors.NewConfigError("config.Load",
				fmt.Errorf("%s:%d: %w", path, lineNo, err))
		}
	}
	if err := scanner.Err(); err != nil {
		return Config{}, hermeserrors.NewConfigError("config.Load", err)
	}
	return cfg, nil
}

func apply(cfg *Config, section, key, value string) error {
	switch section {
	case "system.under.test":
		switch key {
		case "host":
			cfg.SystemUnderTestHost = value
		case "port":
			port, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("system.under.test.port: %w", err)
			}
			cfg.SystemUnderTestPort = port
		}
	case "test.manager.listening.port":
		switch key {
		case "port":
			port, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("test.manager.listening.port.port: %w", err)
			}
			cfg.TestManagerListenPort = port
		}
	case "logging":
		switch key {
		case "level":
			cfg.LogLevel = value
		}
	}
	return nil
}

func writeDefault(path string, cfg Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "[system.under.test]")
	fmt.Fprintf(w, "host=%s\n", cfg.SystemUnderTestHost)
	fmt.Fprintf(w, "port=%d\n\n", cfg.SystemUnderTestPort)
	fmt.Fprintln(w, "[test.manager.listening.port]")
	fmt.Fprintf(w, "port=%d\n\n", cfg.TestManagerListenPort)
	fmt.Fprintln(w, "[logging]")
	fmt.Fprintf(w, "level=%s\n", cfg.LogLevel)
	return w.Flush()
}
