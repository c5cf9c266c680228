// Command hermes-harness is a thin CLI over the hermes package's exported
// API: it lists the registered IPC-Hermes-9852 conformance scenarios and
// runs one against a configured peer, printing callback events to stdout.
package main

import (
	"fmt"
	"os"
	"sort"

	hermes "github.com/hermes-org/acceptance-tests"
	"github.com/hermes-org/acceptance-tests/internal/config"
	"github.com/hermes-org/acceptance-tests/internal/hermes/scenario"
	"github.com/hermes-org/acceptance-tests/internal/logger"
)

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if cfg.showVersion {
		fmt.Println(version)
		return
	}

	appCfg, err := config.Load(cfg.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config %s: %v\n", cfg.configPath, err)
		os.Exit(1)
	}
	level := appCfg.LogLevel
	if cfg.logLevel != "" {
		level = cfg.logLevel
	}
	if err := hermes.SetupDefaultLogging(cfg.logPath, level, "cli"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	log := logger.Get().WithComponent("cli")

	harness, err := hermes.NewHarness()
	if err != nil {
		log.Error("failed to build harness", err)
		os.Exit(1)
	}
	harness.SystemUnderTestAddress(appCfg.SystemUnderTestHost, appCfg.SystemUnderTestPort)
	harness.TestManagerListeningPort(appCfg.TestManagerListenPort)

	if cfg.list {
		listTests(harness)
		return
	}

	log.Info("running test case", "name", cfg.test, "peer",
		fmt.Sprintf("%s:%d", appCfg.SystemUnderTestHost, appCfg.SystemUnderTestPort))

	ok := harness.RunTest(cfg.test, stdoutCallback, cfg.verbose)
	if !ok {
		log.Error("test case failed", nil, "name", cfg.test)
		os.Exit(1)
	}
	log.Info("test case passed", "name", cfg.test)
}

func listTests(h *hermes.Harness) {
	tests := h.AvailableTests()
	names := make([]string, 0, len(tests))
	for name := range tests {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		info := tests[name]
		fmt.Printf("%s  [%s]  %s\n", info.Tag, info.Name, info.Module)
		if info.Description != "" {
			fmt.Printf("    %s\n", info.Description)
		}
	}
}

// stdoutCallback renders every callback event to stdout, prefixed with the
// scenario function that raised it (spec §6 "Callback contract").
func stdoutCallback(text, fromFunc string, event scenario.CbEvent) {
	if text != "" {
		fmt.Printf("[%s] %s\n", fromFunc, text)
		return
	}
	fmt.Printf("[%s] %s\n", fromFunc, event.Render())
}
