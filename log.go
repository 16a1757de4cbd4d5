package highslp

type Logger interface {
	Print(v ...interface{})
}

type noopLogger struct{}

func (noopLogger) Print(v ...interface{}) {}

// LoggerFunc adapts a plain function to the Logger interface.
type LoggerFunc func(v ...interface{})

func (f LoggerFunc) Print(v ...interface{}) { f(v...) }
