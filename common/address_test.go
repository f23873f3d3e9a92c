package common

import (
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressText(t *testing.T) {
	a := Address(0x1F0)
	assert.Equal(t, "0x0001F0", a.String())
	assert.Equal(t, Address(0x1EE), a.Add(-2))

	data, err := json.Marshal(map[string]Address{"pc": a})
	require.NoError(t, err)
	assert.JSONEq(t, `{"pc":"0x0001F0"}`, string(data))

	var back map[string]Address
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, a, back["pc"])

	var bad Address
	assert.Error(t, bad.UnmarshalText([]byte("zz")))
}

func TestWords(t *testing.T) {
	assert.Equal(t, []byte{0xFF, 0x00, 0x00, 0xC0}, Words16(binary.LittleEndian, 0x00FF, 0xC000))
	assert.Equal(t, []byte{0x9D, 0xE3, 0xBF, 0xA0}, Words32(binary.BigEndian, 0x9DE3BFA0))
}
