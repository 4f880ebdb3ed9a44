package config

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn", "json")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("bracket built", "tournament_id", "t1")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "bracket built", line["msg"])
	assert.Equal(t, "t1", line["tournament_id"])
}

func TestNewLoggerRejectsUnknownValues(t *testing.T) {
	_, err := NewLogger(&bytes.Buffer{}, "loud", "text")
	assert.Error(t, err)

	_, err = NewLogger(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}
