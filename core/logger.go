package core

// Logger is the app-wide logging contract.
// Implementations may fan entries out to external error trackers;
// extra args are attached to the entry as-is.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
