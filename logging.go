package peripheral

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/blekit/peripheral/linux"
)

// LogReceiver receives one rendered log message. The application may
// register one receiver per severity; a level without a receiver falls
// through to the package's logrus logger. Registering nil unregisters.
type LogReceiver func(msg string)

type logLevel int

const (
	levelDebug logLevel = iota
	levelInfo
	levelStatus
	levelWarn
	levelError
	levelFatal
	levelAlways
	levelTrace
	nLogLevels
)

var (
	logmu     sync.RWMutex
	logger    = logrus.StandardLogger()
	receivers [nLogLevels]LogReceiver
)

// SetLogger replaces the fallback logger used for levels without a
// registered receiver. The linux subpackage follows along.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		return
	}
	logmu.Lock()
	logger = l
	logmu.Unlock()
	linux.SetLogger(l)
}

func registerReceiver(lv logLevel, r LogReceiver) {
	logmu.Lock()
	receivers[lv] = r
	logmu.Unlock()
}

// LogRegisterDebug registers the receiver for debug messages.
func LogRegisterDebug(r LogReceiver) { registerReceiver(levelDebug, r) }

// LogRegisterInfo registers the receiver for informational messages.
func LogRegisterInfo(r LogReceiver) { registerReceiver(levelInfo, r) }

// LogRegisterStatus registers the receiver for status messages: the
// coarse progress lines a service log normally keeps.
func LogRegisterStatus(r LogReceiver) { registerReceiver(levelStatus, r) }

// LogRegisterWarn registers the receiver for warnings, including
// adapter configuration failures.
func LogRegisterWarn(r LogReceiver) { registerReceiver(levelWarn, r) }

// LogRegisterError registers the receiver for errors.
func LogRegisterError(r LogReceiver) { registerReceiver(levelError, r) }

// LogRegisterFatal registers the receiver for unrecoverable conditions.
// The server itself never terminates the process; fatal is a severity,
// not an action.
func LogRegisterFatal(r LogReceiver) { registerReceiver(levelFatal, r) }

// LogRegisterAlways registers the receiver for messages that bypass
// level filtering.
func LogRegisterAlways(r LogReceiver) { registerReceiver(levelAlways, r) }

// LogRegisterTrace registers the receiver for trace messages.
func LogRegisterTrace(r LogReceiver) { registerReceiver(levelTrace, r) }

func logAt(lv logLevel, format string, args ...interface{}) {
	logmu.RLock()
	r := receivers[lv]
	l := logger
	logmu.RUnlock()

	if r != nil {
		r(fmt.Sprintf(format, args...))
		return
	}
	switch lv {
	case levelDebug:
		l.Debugf(format, args...)
	case levelTrace:
		l.Tracef(format, args...)
	case levelWarn:
		l.Warnf(format, args...)
	case levelError, levelFatal:
		l.Errorf(format, args...)
	default:
		l.Infof(format, args...)
	}
}

func logDebugf(format string, args ...interface{})  { logAt(levelDebug, format, args...) }
func logStatusf(format string, args ...interface{}) { logAt(levelStatus, format, args...) }
func logWarnf(format string, args ...interface{})   { logAt(levelWarn, format, args...) }
func logErrorf(format string, args ...interface{})  { logAt(levelError, format, args...) }
