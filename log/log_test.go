package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("trace")
	require.NoError(t, err)
	assert.Equal(t, LevelTrace, lvl)

	lvl, err = ParseLevel("Warning")
	require.NoError(t, err)
	assert.Equal(t, LevelWarn, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestModuleFiltering(t *testing.T) {
	prev := Root()
	defer SetDefault(prev)

	var buf bytes.Buffer
	SetDefault(NewLogger(NewTerminalHandlerWithLevel(&buf, LevelTrace, false)))

	DisableModule(DecoderMonitoring)
	Debug(DecoderMonitoring, "hidden")
	assert.Empty(t, buf.String())

	EnableModule(DecoderMonitoring)
	defer DisableModule(DecoderMonitoring)
	Debug(DecoderMonitoring, "shown", "addr", 0x10)
	assert.Contains(t, buf.String(), "shown")

	// Info is never filtered by module
	buf.Reset()
	Info(RewriterMonitoring, "always")
	assert.Contains(t, buf.String(), "always")
}

func TestJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(JSONHandlerWithLevel(&buf, LevelInfo))
	l.Debug(TableMonitoring, "dropped")
	assert.Empty(t, buf.String())
	l.Warn(TableMonitoring, "kept", "opcode", "NOP")
	assert.Contains(t, buf.String(), `"opcode":"NOP"`)
	assert.Contains(t, buf.String(), `"module":"tbl_mod"`)
}

func TestEnableModules(t *testing.T) {
	defer DisableModule(DirectiveMonitoring)
	defer DisableModule(TableMonitoring)

	EnableModules(" dir_mod", "", "tbl_mod ")
	assert.True(t, isModuleEnabled(DirectiveMonitoring))
	assert.True(t, isModuleEnabled(TableMonitoring))
	assert.False(t, isModuleEnabled(RewriterMonitoring))
	assert.Contains(t, Modules(), "dir_mod=on")
	assert.Contains(t, Modules(), "rw_mod=off")
	assert.False(t, isModuleEnabled("unknown"))
}
