package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) (*test.Hook, *bytes.Buffer) {
	t.Helper()
	prevLogger := Logger()
	mu.RLock()
	prevPretty := pretty
	mu.RUnlock()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	SetLogger(logger)

	var buf bytes.Buffer
	SetPrettyOutput(&buf)
	t.Cleanup(func() {
		SetLogger(prevLogger)
		SetPrettyOutput(prevPretty)
	})
	return hook, &buf
}

func TestPrettyOnly(t *testing.T) {
	hook, buf := capture(t)

	NewUnifiedLogger("cellbook.test").Success("Cell added").
		Field("cell", "c1").
		Pretty("Added cell c1").
		PrettyOnly().
		Emit()

	assert.Equal(t, "Added cell c1\n", buf.String())
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, "Cell added", entry.Message)
	assert.Equal(t, "cellbook.test", entry.Data["component"])
	assert.Equal(t, "c1", entry.Data["cell"])
	assert.Equal(t, true, entry.Data["success"])
}

func TestStructuredOnly(t *testing.T) {
	hook, buf := capture(t)

	NewUnifiedLogger("cellbook.test").Warn("Persist failed").Field("key", "files").Emit()

	assert.Empty(t, buf.String())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel("loud"))
}
