// Package logging configures the logrus logger used across typoscan.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// LevelFromVerbosity maps the -v/-q counters to a log level. Warnings are
// shown by default.
func LevelFromVerbosity(verbose, quiet int) logrus.Level {
	lvl := int(logrus.WarnLevel) + verbose - quiet
	if lvl < int(logrus.PanicLevel) {
		lvl = int(logrus.PanicLevel)
	}
	if lvl > int(logrus.TraceLevel) {
		lvl = int(logrus.TraceLevel)
	}
	return logrus.Level(lvl)
}

// New returns a logger writing "[level] message" lines to w. Trace level
// adds a seconds timestamp.
func New(w io.Writer, level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)
	logger.SetFormatter(&Formatter{Timestamps: level == logrus.TraceLevel})
	return logger
}

// Discard returns a logger that drops everything. Used by tests and library
// callers that did not supply one.
func Discard() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

// Formatter renders entries as "[level] message key=value ...".
type Formatter struct {
	Timestamps bool
}

func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	if f.Timestamps {
		fmt.Fprintf(&b, "[%d ", entry.Time.Truncate(time.Second).Unix())
	} else {
		b.WriteByte('[')
	}
	b.WriteString(strings.ToLower(entry.Level.String()))
	b.WriteString("] ")
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}
