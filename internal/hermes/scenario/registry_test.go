package scenario

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndAvailableTests(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("test_foo", "cases.foo", "  does a foo thing\n  across two lines", func(env *Environment) error { return nil }))

	tests := reg.AvailableTests()
	require.Contains(t, tests, "test_foo")
	info := tests["test_foo"]
	assert.Equal(t, "cases.foo", info.Module)
	assert.Equal(t, "does a foo thing\nacross two lines", info.Description)
	assert.True(t, strings.HasPrefix(info.Tag, "H"))
	assert.Len(t, info.Tag, 5)
}

func TestRegisterDuplicateNameRejected(t *testing.T) {
	reg := NewRegistry()
	fn := func(env *Environment) error { return nil }
	require.NoError(t, reg.Register("test_dup", "m", "d", fn))
	err := reg.Register("test_dup", "m", "d", fn)
	assert.Error(t, err)
}

func TestMustRegisterPanicsOnDuplicate(t *testing.T) {
	reg := NewRegistry()
	fn := func(env *Environment) error { return nil }
	reg.MustRegister("test_dup", "m", "d", fn)
	assert.Panics(t, func() { reg.MustRegister("test_dup", "m", "d", fn) })
}

func TestTagIsDeterministicPerName(t *testing.T) {
	assert.Equal(t, tagFor("test_foo"), tagFor("test_foo"))
}

func TestNamesSorted(t *testing.T) {
	reg := NewRegistry()
	fn := func(env *Environment) error { return nil }
	require.NoError(t, reg.Register("test_b", "m", "d", fn))
	require.NoError(t, reg.Register("test_a", "m", "d", fn))
	assert.Equal(t, []string{"test_a", "test_b"}, reg.Names())
}
