package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLevelFromVerbosity(t *testing.T) {
	assert.Equal(t, logrus.WarnLevel, LevelFromVerbosity(0, 0))
	assert.Equal(t, logrus.InfoLevel, LevelFromVerbosity(1, 0))
	assert.Equal(t, logrus.DebugLevel, LevelFromVerbosity(2, 0))
	assert.Equal(t, logrus.TraceLevel, LevelFromVerbosity(9, 0))
	assert.Equal(t, logrus.ErrorLevel, LevelFromVerbosity(0, 1))
	assert.Equal(t, logrus.PanicLevel, LevelFromVerbosity(0, 9))
}

func TestFormatter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, logrus.DebugLevel)
	logger.WithField("path", "a.txt").Debug("skipped")
	assert.Equal(t, "[debug] skipped path=a.txt\n", buf.String())
}
