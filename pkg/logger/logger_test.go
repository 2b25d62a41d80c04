package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogger_Level(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewLoggerWithOptions(WARNING, "text", buf)

	l.Debugf("debug %d", 1)
	l.Infof("info %d", 2)
	require.Empty(t, buf.String())

	l.Warnf("warn %d", 3)
	require.Contains(t, buf.String(), "warn 3")

	l.Errorf("error %d", 4)
	require.Contains(t, buf.String(), "error 4")
}

func TestLogger_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewLoggerWithOptions(DEBUG, "json", buf)
	l.Infof("hello %s", "world")
	require.Contains(t, buf.String(), `"msg":"hello world"`)
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, DEBUG, ParseLevel("debug"))
	require.Equal(t, ERROR, ParseLevel("error"))
	require.Equal(t, INFO, ParseLevel("whatever"))
}
