package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForServiceTagsRecords(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, os.Stderr)

	ForService("datastore").Info("schema ready", "tables", 5)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "datastore", record["service"])
	assert.Equal(t, "schema ready", record["msg"])
	assert.EqualValues(t, 5, record["tables"])
}

func TestNewFileLoggerCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "datastore.log")

	logger, closeFn, err := NewFileLogger(path, "datastore", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	logger.Info("hello")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"service":"datastore"`)
}
