package cases

import (
	"testing"

	"github.com/hermes-org/acceptance-tests/internal/hermes/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMaxSizeServiceDescriptionIsExactlyMaxSize(t *testing.T) {
	raw, tag, err := buildMaxSizeServiceDescription("1")
	require.NoError(t, err)
	assert.Equal(t, message.TagServiceDescription, tag)
	assert.Len(t, raw, message.MaxMessageSize)
	assert.Contains(t, string(raw), `HermesAcceptanceTestDummyAttributeId="`)
	assert.Contains(t, string(raw), "LaneId=")

	parsed, err := message.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, message.TagServiceDescription, parsed.Tag)
}

func TestIndexOfFindsSubsliceOrMinusOne(t *testing.T) {
	assert.Equal(t, 3, indexOf([]byte("abcLaneId=1"), []byte("LaneId=")))
	assert.Equal(t, -1, indexOf([]byte("abc"), []byte("LaneId=")))
	assert.Equal(t, 0, indexOf([]byte("abc"), []byte("")))
}
