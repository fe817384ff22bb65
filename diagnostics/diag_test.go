package diagnostics

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalZerologObject(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	d := Diagnostic{
		Severity:     Err,
		Code:         "TX.FAULT",
		Summary:      "bus write failed",
		LikelyCauses: []string{"peripheral busy"},
		Evidence:     map[string]any{"frame": 3},
	}
	logger.Log().Object("fault", d).Msg("")

	var got map[string]map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	f := got["fault"]
	assert.Equal(t, "error", f["severity"])
	assert.Equal(t, "TX.FAULT", f["code"])
	assert.Equal(t, "bus write failed", f["summary"])
	assert.Equal(t, []any{"peripheral busy"}, f["likely_causes"])
	assert.Equal(t, float64(3), f["frame"])
	assert.NotContains(t, f, "detail")
	assert.NotContains(t, f, "suggested_fixes")
}

func TestLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, Diagnostic{Severity: Info}.Level())
	assert.Equal(t, zerolog.WarnLevel, Diagnostic{Severity: Warn}.Level())
	assert.Equal(t, zerolog.ErrorLevel, Diagnostic{Severity: Err}.Level())
	assert.Equal(t, zerolog.ErrorLevel, Diagnostic{}.Level())
}
