package core

// Logger is any service that can log messages.
// args may carry an error, a map[string]interface{} of extras and an Identity.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Identity describes who triggered a logged event.
type Identity struct {
	ID   string
	Name string
	Role string
}
