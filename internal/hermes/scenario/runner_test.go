package scenario

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCallbackSkipsWhenNoneRegistered(t *testing.T) {
	env := NewEnvironment()
	err := env.RunCallback(CbEvent{Kind: CbProgress, Text: "hi"}, "test_x")
	assert.ErrorIs(t, err, ErrSkip)
	assert.False(t, env.CallbackUsed())
}

func TestRunCallbackDeliversAndMarksUsed(t *testing.T) {
	env := NewEnvironment()
	var gotText, gotFrom string
	env.RegisterCallback(func(text, fromFunc string, event CbEvent) {
		gotText, gotFrom = text, fromFunc
	})
	require.NoError(t, env.RunCallback(CbEvent{Kind: CbProgress, Text: "hi"}, "test_x"))
	assert.Equal(t, "hi", gotText)
	assert.Equal(t, "test_x", gotFrom)
	assert.True(t, env.CallbackUsed())
}

func TestRunWaitForMsgSuppressedForServiceDescriptionByDefault(t *testing.T) {
	env := NewEnvironment()
	fired := false
	env.RegisterCallback(func(text, fromFunc string, event CbEvent) { fired = true })
	require.NoError(t, env.RunWaitForMsg("ServiceDescription", "test_x"))
	assert.False(t, fired)
}

func TestRunWaitForMsgFiresWhenVerbose(t *testing.T) {
	env := NewEnvironment()
	env.UseHandshakeCallback = true
	fired := false
	env.RegisterCallback(func(text, fromFunc string, event CbEvent) { fired = true })
	require.NoError(t, env.RunWaitForMsg("ServiceDescription", "test_x"))
	assert.True(t, fired)
}

func TestRunTestPassReturnsTrue(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("test_pass", "m", "d", func(env *Environment) error { return nil }))
	env := NewEnvironment()
	assert.True(t, RunTest(reg, env, "test_pass", nil, false))
}

func TestRunTestFailReturnsFalseAndFiresErrorCallback(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("test_fail", "m", "d", func(env *Environment) error { return errors.New("boom") }))
	env := NewEnvironment()
	var sawError bool
	result := RunTest(reg, env, "test_fail", func(text, fromFunc string, event CbEvent) {
		if event.Kind == CbError {
			sawError = true
		}
	}, false)
	assert.False(t, result)
	assert.True(t, sawError)
}

func TestRunTestSkipReturnsTrue(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("test_skip", "m", "d", func(env *Environment) error {
		return env.RunCallback(CbEvent{Kind: CbProgress}, "test_skip")
	}))
	env := NewEnvironment()
	assert.True(t, RunTest(reg, env, "test_skip", nil, false))
}

func TestRunTestUnknownNameReturnsFalse(t *testing.T) {
	reg := NewRegistry()
	env := NewEnvironment()
	assert.False(t, RunTest(reg, env, "does_not_exist", nil, false))
}

func TestRunTestWrapperHooksFireWhenVerbose(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("test_quiet", "m", "d", func(env *Environment) error { return nil }))
	env := NewEnvironment()
	var kinds []CbKind
	RunTest(reg, env, "test_quiet", func(text, fromFunc string, event CbEvent) {
		kinds = append(kinds, event.Kind)
	}, true)
	assert.Equal(t, []CbKind{CbBeforeTestCase, CbAfterTestCase}, kinds)
}

func TestRunTestAfterHookOmittedWhenQuietAndUnused(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("test_quiet2", "m", "d", func(env *Environment) error { return nil }))
	env := NewEnvironment()
	var kinds []CbKind
	RunTest(reg, env, "test_quiet2", func(text, fromFunc string, event CbEvent) {
		kinds = append(kinds, event.Kind)
	}, false)
	assert.Empty(t, kinds)
}
