package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/2beens/overload/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"
)

func TestGetLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, GetLevel("debug"))
	assert.Equal(t, logrus.InfoLevel, GetLevel("INFO"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warn"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warning"))
	assert.Equal(t, logrus.ErrorLevel, GetLevel("error"))
	assert.Equal(t, logrus.TraceLevel, GetLevel(""))
	assert.Equal(t, logrus.TraceLevel, GetLevel("nonsense"))
}

func TestSentryHook(t *testing.T) {
	levels := []logrus.Level{logrus.ErrorLevel}
	hook := NewSentryHook(levels)
	assert.Equal(t, levels, hook.Levels())

	// no client bound to the hub, must not fail
	entry := logrus.NewEntry(logrus.New())
	entry.Level = logrus.ErrorLevel
	entry.Message = "persist week goals failed"
	assert.NoError(t, hook.Fire(entry))

	assert.Equal(t, sentry.LevelFatal, sentryLevel(logrus.PanicLevel))
	assert.Equal(t, sentry.LevelError, sentryLevel(logrus.ErrorLevel))
	assert.Equal(t, sentry.LevelDebug, sentryLevel(logrus.TraceLevel))
}

func TestOutput(t *testing.T) {
	assert.Equal(t, os.Stdout, output(LoggerSetupParams{}))

	logPath := filepath.Join(t.TempDir(), "planner")
	w := output(LoggerSetupParams{LogFileName: logPath})
	fileLogger, ok := w.(*lumberjack.Logger)
	require.True(t, ok)
	assert.Equal(t, logPath+".log", fileLogger.Filename)
	assert.Equal(t, 52, fileLogger.MaxBackups)

	w = output(LoggerSetupParams{LogFileName: logPath + ".log", LogToStdout: true})
	_, ok = w.(*pkg.CombinedWriter)
	assert.True(t, ok)
}
