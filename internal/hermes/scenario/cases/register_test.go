package cases

import (
	"testing"

	"github.com/hermes-org/acceptance-tests/internal/hermes/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAllHasNoDuplicatesAndOmitsDisabled(t *testing.T) {
	reg := scenario.NewRegistry()
	require.NoError(t, RegisterAll(reg))

	names := reg.Names()
	assert.NotEmpty(t, names)
	assert.NotContains(t, names, "xtest_terminate_on_illegal_message")
}

func TestRegisterDisabledAddsTheXtest(t *testing.T) {
	reg := scenario.NewRegistry()
	require.NoError(t, RegisterAll(reg))
	require.NoError(t, RegisterDisabled(reg))
	assert.Contains(t, reg.Names(), "xtest_terminate_on_illegal_message")
}

func TestDummyScenarioRunsWithoutAPeer(t *testing.T) {
	reg := scenario.NewRegistry()
	require.NoError(t, RegisterAll(reg))
	env := scenario.NewEnvironment()
	var gotText string
	ok := scenario.RunTest(reg, env, "test_dummy_callback_roundtrip", func(text, fromFunc string, event scenario.CbEvent) {
		if event.Kind == scenario.CbProgress {
			gotText = text
		}
	}, false)
	assert.True(t, ok)
	assert.Equal(t, "dummy scenario ran", gotText)
}
