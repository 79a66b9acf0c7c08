package logs

import "sync"

var logOnceSeen sync.Map

// LogOnce calls logFunc with msg and args the first time msg is seen in this
// process. The key is the message alone, so differing args do not repeat it.
//
//	logs.LogOnce(slog.Warn, "Deprecated option used", "option", name)
func LogOnce(logFunc func(msg string, args ...any), msg string, args ...any) {
	if _, seen := logOnceSeen.LoadOrStore(msg, struct{}{}); seen {
		return
	}

	logFunc(msg, args...)
}
