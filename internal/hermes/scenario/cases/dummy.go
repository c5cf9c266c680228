package cases

import "github.com/hermes-org/acceptance-tests/internal/hermes/scenario"

// dummy.go registers a scenario requiring no peer at all, grounded on
// original_source's test_cases_dummy.py. It exercises the
// registry/runtime/callback machinery in this repo's own tests without a
// live socket (SPEC_FULL.md "Supplemented Features").

const moduleDummy = "cases.dummy"

func registerDummy(reg *scenario.Registry) error {
	return reg.Register("test_dummy_callback_roundtrip", moduleDummy, `
		Fire a PROGRESS callback and succeed; used to exercise RunTest's
		before/after hook wiring without opening a connection.`,
		testDummyCallbackRoundtrip)
}

func testDummyCallbackRoundtrip(env *scenario.Environment) error {
	return env.RunCallback(scenario.CbEvent{Kind: scenario.CbProgress, Text: "dummy scenario ran"}, "test_dummy_callback_roundtrip")
}
