package pageopt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerTextFormat(t *testing.T) {
	tk := New(nil)
	buf := &bytes.Buffer{}
	tk.Logger.Output = buf

	tk.Logger.Info("foo", "bar")

	assert.Contains(t, buf.String(), `"level":"INFO"`)
	assert.Contains(t, buf.String(), "foobar")
}

func TestLoggerJSONFieldFormat(t *testing.T) {
	tk := New(nil)
	buf := &bytes.Buffer{}
	tk.Logger.Output = buf

	tk.Logger.Errorj(map[string]interface{}{"detail": "boom"})

	m := map[string]interface{}{}
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, "ERROR", m["level"])
	assert.Equal(t, "boom", m["detail"])
}

func TestLoggerDisabledWritesNothing(t *testing.T) {
	c := NewConfig()
	c.LoggerEnabled = false
	tk := New(c)
	buf := &bytes.Buffer{}
	tk.Logger.Output = buf

	tk.Logger.Warn("should not appear")

	assert.Zero(t, buf.Len())
}
