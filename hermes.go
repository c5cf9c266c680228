// Package hermes exposes the IPC-Hermes-9852 conformance harness's public
// API (spec §6 "Exported API") as methods on a Harness value, the way
// slonegd-go61850/go61850.go exposes a root-level facade over its osi/
// subpackages. A Harness bundles the scenario registry and the process
// Environment a GUI, CLI, or other collaborator drives through RunTest.
//
// Unlike the original Python module's lazily-created global singleton,
// a Harness is an explicitly constructed value: spec.md §9's design notes
// call out avoiding global mutation during a scenario, so there is no
// package-level mutable state here for two collaborators to collide on.
package hermes

import (
	"github.com/hermes-org/acceptance-tests/internal/hermes/scenario"
	"github.com/hermes-org/acceptance-tests/internal/hermes/scenario/cases"
	"github.com/hermes-org/acceptance-tests/internal/logger"
)

// Harness owns the test-case registry and the Environment a run drives
// scenarios through.
type Harness struct {
	Registry *scenario.Registry
	Env      *scenario.Environment
}

// NewHarness builds a Harness with every active scenario registered and an
// Environment carrying the spec's default peer/listen addresses (spec §6
// "default peer port 50101", "listening port ... defaults to 50103").
func NewHarness() (*Harness, error) {
	reg := scenario.NewRegistry()
	if err := cases.RegisterAll(reg); err != nil {
		return nil, err
	}
	return &Harness{Registry: reg, Env: scenario.NewEnvironment()}, nil
}

// AvailableTests returns name -> {module, description, tag} for every
// registered scenario.
func (h *Harness) AvailableTests() map[string]scenario.TestInfo {
	return h.Registry.AvailableTests()
}

// RunTest runs the named scenario, wiring callback and verbose into the
// harness's Environment, and returns true on clean completion (spec §6
// "run_test(name, callback, verbose) -> bool").
func (h *Harness) RunTest(name string, callback scenario.Callback, verbose bool) bool {
	return scenario.RunTest(h.Registry, h.Env, name, callback, verbose)
}

// SystemUnderTestAddress sets the peer host and port this harness will dial
// when playing the upstream role (spec §6 "system_under_test_address").
func (h *Harness) SystemUnderTestAddress(host string, port int) {
	h.Env.Host = host
	h.Env.Port = port
}

// TestManagerListeningPort sets the local port this harness binds when
// playing the downstream role (spec §6 "testmanager_listening_port").
func (h *Harness) TestManagerListeningPort(port int) {
	h.Env.ListenPort = port
}

// SetupDefaultLogging initializes the process-wide logger against path at
// level, tagging the harness's own components plus any extras (spec §6
// "setup_default_logging(path, level, extra_loggers)").
func SetupDefaultLogging(path, level string, extraComponents ...string) error {
	_, err := logger.SetupFile(path, level, extraComponents...)
	return err
}
