package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestComponent_AgregaCampos(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Level: "info", App: "eggpro-erp"}, &buf)

	l.Component("pos").Info().Str("sale_id", "abc").Msg("checkout")

	var evt map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &evt))
	assert.Equal(t, "eggpro-erp", evt["app"])
	assert.Equal(t, "pos", evt["component"])
	assert.Equal(t, "abc", evt["sale_id"])
	assert.Equal(t, "checkout", evt["message"])
}

func TestNivelFiltraEventos(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Level: "warn"}, &buf)

	l.Info().Msg("ignorado")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestComponent_ReemplazaSinDuplicarClave(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Level: "info", App: "eggpro-erp"}, &buf)

	l.Component("main").Component("customers").Info().Msg("cliente creado")

	line := buf.String()
	assert.Equal(t, 1, strings.Count(line, `"component"`), line)
	var evt map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &evt))
	assert.Equal(t, "customers", evt["component"])
	assert.Equal(t, "eggpro-erp", evt["app"])
}
