package cache

import hclog "github.com/hashicorp/go-hclog"

// Logger is the diagnostics sink a Manager emits to. It is the minimal
// subset of github.com/hashicorp/go-hclog's Logger that the Manager needs,
// so an hclog.Logger can be passed directly via WithLogger.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// defaultLogger is hclog's own no-op logger. It is the default so WithLogger
// is opt-in, matching the teacher's stance that a log is diagnostics-only.
func defaultLogger() Logger {
	return hclog.NewNullLogger()
}
