package cases

import "github.com/hermes-org/acceptance-tests/internal/hermes/scenario"

// RegisterAll registers every active scenario into reg. This is the Go
// equivalent of the original's import-time registration: a single,
// explicit call made once at process startup rather than a side effect of
// importing test modules (spec §9 "Registration by import side effect").
// xtest_terminate_on_illegal_message is deliberately excluded; see
// disabled.go.
func RegisterAll(reg *scenario.Registry) error {
	for _, register := range []func(*scenario.Registry) error{
		registerDownstream,
		registerUpstream,
		registerDummy,
	} {
		if err := register(reg); err != nil {
			return err
		}
	}
	return nil
}
