package magmavk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeString(t *testing.T) {
	assert.Equal(t, "\x00", safeString(""))
	assert.Equal(t, "abc\x00", safeString("abc"))
	assert.Equal(t, "abc\x00", safeString("abc\x00"))
}

func TestRawBytes(t *testing.T) {
	assert.Nil(t, rawBytes[uint32](nil))
	assert.Nil(t, rawBytes([]uint32{}))

	data := rawBytes([]uint32{0x01020304, 0x05060708})
	require.Len(t, data, 8)

	vertices := []VertexData{{}, {}, {}}
	assert.Len(t, rawBytes(vertices), 72)

	instances := []InstanceData{{}}
	assert.Len(t, rawBytes(instances), 140)
}

func TestSliceUint32(t *testing.T) {
	words := sliceUint32([]byte{0x04, 0x03, 0x02, 0x01, 0x08, 0x07, 0x06, 0x05})
	require.Len(t, words, 2)
	assert.Equal(t, uint32(0x01020304), words[0])
	assert.Equal(t, uint32(0x05060708), words[1])
}
