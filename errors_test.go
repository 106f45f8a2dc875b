package magmavk

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewError(t *testing.T) {
	assert.NoError(t, newError(vk.Success))

	err := newError(vk.ErrorDeviceLost)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vulkan error")

	assert.False(t, isError(vk.Success))
	assert.True(t, isError(vk.ErrorOutOfHostMemory))
}

func TestCheckErrRecovers(t *testing.T) {
	fn := func() (err error) {
		defer checkErr(&err)
		orPanic(newError(vk.ErrorInitializationFailed))
		return nil
	}
	assert.Error(t, fn())

	ok := func() (err error) {
		defer checkErr(&err)
		orPanic(newError(vk.Success))
		return nil
	}
	assert.NoError(t, ok())
}
