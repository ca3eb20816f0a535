package core

// Logger is the application-wide structured logger.
//
// args may carry any mix of: an error, a map[string]interface{} of extra
// fields, and a caller identity value; implementations decide what to do
// with each.
type Logger interface {
	// Enable toggles reporting to the external error tracker; stdout/stderr
	// printing is unaffected.
	Enable(enabled bool)

	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
