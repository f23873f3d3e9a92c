package arch

import (
	"encoding/binary"
	"testing"

	"github.com/colorfulnotion/lift/arch/pic18"
	"github.com/colorfulnotion/lift/common"
	"github.com/colorfulnotion/lift/config"
	"github.com/colorfulnotion/lift/ir"
	"github.com/colorfulnotion/lift/lifterrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		opts config.Options
		name string
	}{
		{config.Options{Arch: "pic18"}, "pic18-legacy"},
		{config.Options{Arch: "pic18", Family: "enhanced"}, "pic18-enhanced"},
		{config.Options{Arch: "mips", BigEndian: true}, "mips-be-32"},
		{config.Options{Arch: "mips64"}, "mips-le-64"},
		{config.Options{Arch: "sparc"}, "sparc"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, rw, err := New(tc.opts)
			require.NoError(t, err)
			assert.Equal(t, tc.name, a.Name())
			assert.Same(t, a, rw.Architecture())
		})
	}
	assert.Equal(t, []string{"mips", "mips64", "pic18", "sparc"}, Names())
}

func TestNewErrors(t *testing.T) {
	_, _, err := New(config.Options{Arch: "z80"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "z80")

	_, _, err = New(config.Options{Arch: "pic18", Family: "pic24"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pic24")
}

func TestLiftPic18(t *testing.T) {
	image := common.Words16(binary.LittleEndian, 0x0000, 0x00FF, 0x00FE)
	instrs, clusters, err := Lift(config.Options{Arch: "pic18"}, image, 0)
	require.NoError(t, err)
	require.Len(t, instrs, 3)
	require.Len(t, clusters, 3)

	assert.Equal(t, pic18.NOP, instrs[0].Opcode)
	assert.Equal(t, 2, instrs[0].Length)
	assert.Equal(t, pic18.RESET, instrs[1].Opcode)
	assert.False(t, instrs[2].IsValid())
	assert.ErrorIs(t, instrs[2].Err, lifterrors.ErrMalformedEncoding)
	assert.Equal(t, common.Address(4), clusters[2].Address)
	require.Len(t, clusters[2].Statements, 1)
	assert.IsType(t, &ir.InvalidStmt{}, clusters[2].Statements[0])
}

func TestLiftSparc(t *testing.T) {
	// save %sp,-96,%sp; nop
	image := common.Words32(binary.BigEndian, 0x9DE3BFA0, 0x01000000)
	instrs, clusters, err := Lift(config.Options{Arch: "sparc"}, image, 0x10000)
	require.NoError(t, err)
	require.Len(t, instrs, 2)
	assert.Equal(t, "save", instrs[0].Mnemonic)
	require.Len(t, clusters[0].Statements, 10)
	assert.Equal(t, "v1 = sp - 0x60", clusters[0].Statements[0].String())
	assert.Equal(t, "nop", clusters[1].String())
	assert.Equal(t, common.Address(0x10004), clusters[1].Address)
}

func TestLiftUnknown(t *testing.T) {
	_, _, err := Lift(config.Options{Arch: "vax"}, nil, 0)
	assert.Error(t, err)
}
