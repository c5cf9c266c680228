package scenario

import (
	"errors"
	"fmt"
)

// RunTest looks up name in reg, wires callback and verbose into env, invokes
// the scenario, and returns true on clean completion (including a skip),
// false on any other error (spec §4.E "Execution").
//
// Hook firing follows the test wrapper rule (spec §4.E "Test wrapper"):
// with verbose on, BEFORE_TEST_CASE/AFTER_TEST_CASE always bracket the run;
// otherwise AFTER_TEST_CASE fires only if the scenario itself invoked the
// callback at least once.
func RunTest(reg *Registry, env *Environment, name string, callback Callback, verbose bool) bool {
	env.RegisterCallback(callback)
	env.UseHandshakeCallback = verbose
	env.UseWrapperCallback = verbose
	env.resetCallbackUsed()

	e, ok := reg.lookup(name)
	if !ok {
		env.log.Error("called unknown test case", nil, "name", name)
		return false
	}

	if env.UseWrapperCallback {
		_ = env.RunCallback(CbEvent{Kind: CbBeforeTestCase}, name)
	}

	env.log.Info("starting test", "module", e.module, "name", name)
	err := e.fn(env)

	result := true
	switch {
	case err == nil:
		env.log.Info("passed", "name", name)
	case errors.Is(err, ErrSkip):
		env.log.Info("skipped (no callback registered)", "name", name)
	default:
		env.log.Error("failed", err, "name", name)
		_ = env.RunCallback(CbEvent{Kind: CbError, Text: fmt.Sprintf("%v", err)}, name)
		result = false
	}

	if env.UseWrapperCallback || env.CallbackUsed() {
		_ = env.RunCallback(CbEvent{Kind: CbAfterTestCase}, name)
	}
	return result
}
