package logging

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"log"

	"github.com/fatih/color"
)

// currentLevel is the maximum level at which loggers emit output. It is set
// once at process startup (before any logging occurs) and not mutated after.
var currentLevel = LevelInfo

// SetLevel sets the maximum level at which loggers emit output. It should be
// invoked before any logging takes place and not invoked again afterward.
func SetLevel(level Level) {
	currentLevel = level
}

// writer is an io.Writer that splits its input stream into lines and writes
// those lines to an underlying logger.
type writer struct {
	// callback is the logging callback.
	callback func(string)
	// buffer is any incomplete line fragment left over from a previous write.
	buffer []byte
}

// trimCarriageReturn trims any single trailing carriage return from the end of
// a byte slice.
func trimCarriageReturn(buffer []byte) []byte {
	if len(buffer) > 0 && buffer[len(buffer)-1] == '\r' {
		return buffer[:len(buffer)-1]
	}
	return buffer
}

// Write implements io.Writer.Write.
func (w *writer) Write(buffer []byte) (int, error) {
	// Append the data to our internal buffer.
	w.buffer = append(w.buffer, buffer...)

	// Process all lines in the buffer, tracking the number of bytes that we
	// process.
	var processed int
	remaining := w.buffer
	for {
		// Find the index of the next newline character.
		index := bytes.IndexByte(remaining, '\n')
		if index == -1 {
			break
		}

		// Process the line.
		w.callback(string(trimCarriageReturn(remaining[:index])))

		// Update the number of bytes that we've processed.
		processed += index + 1

		// Update the remaining slice.
		remaining = remaining[index+1:]
	}

	// If we managed to process bytes, then truncate our internal buffer.
	if processed > 0 {
		// Compute the number of leftover bytes.
		leftover := len(w.buffer) - processed

		// If there are leftover bytes, then shift them to the front of the
		// buffer.
		if leftover > 0 {
			copy(w.buffer[:leftover], w.buffer[processed:])
		}

		// Truncate the buffer.
		w.buffer = w.buffer[:leftover]
	}

	// Done.
	return len(buffer), nil
}

// Logger is the main logger type. It has the novel property that it still
// functions if nil, but it doesn't log anything. It is designed to use the
// standard logger provided by the log package, so it respects any flags set
// for that logger. It is safe for concurrent usage.
type Logger struct {
	// prefix is any prefix specified for the logger.
	prefix string
}

// RootLogger is the root logger from which all other loggers derive.
var RootLogger = &Logger{}

// Sublogger creates a new sublogger with the specified name.
func (l *Logger) Sublogger(name string) *Logger {
	// If the logger is nil, then the sublogger will be as well.
	if l == nil {
		return nil
	}

	// Compute the new prefix.
	prefix := name
	if l.prefix != "" {
		prefix = l.prefix + "." + name
	}

	// Create the new logger.
	return &Logger{
		prefix: prefix,
	}
}

// output is the internal logging method.
func (l *Logger) output(level Level, line string) {
	// Filter based on the current level.
	if level > currentLevel {
		return
	}

	// Add a prefix if necessary.
	if l.prefix != "" {
		line = fmt.Sprintf("[%s] %s", l.prefix, line)
	}

	// Colorize errors and warnings so that they stand out in interactive use.
	switch level {
	case LevelError:
		line = color.RedString("%s", line)
	case LevelWarn:
		line = color.YellowString("%s", line)
	}

	// Log.
	log.Output(3, line)
}

// Error logs information at error level with semantics equivalent to
// fmt.Print.
func (l *Logger) Error(v ...interface{}) {
	if l != nil {
		l.output(LevelError, fmt.Sprint(v...))
	}
}

// Errorf logs information at error level with semantics equivalent to
// fmt.Printf.
func (l *Logger) Errorf(format string, v ...interface{}) {
	if l != nil {
		l.output(LevelError, fmt.Sprintf(format, v...))
	}
}

// Warn logs information at warning level with semantics equivalent to
// fmt.Print.
func (l *Logger) Warn(v ...interface{}) {
	if l != nil {
		l.output(LevelWarn, fmt.Sprint(v...))
	}
}

// Warnf logs information at warning level with semantics equivalent to
// fmt.Printf.
func (l *Logger) Warnf(format string, v ...interface{}) {
	if l != nil {
		l.output(LevelWarn, fmt.Sprintf(format, v...))
	}
}

// Info logs information at information level with semantics equivalent to
// fmt.Print.
func (l *Logger) Info(v ...interface{}) {
	if l != nil {
		l.output(LevelInfo, fmt.Sprint(v...))
	}
}

// Infof logs information at information level with semantics equivalent to
// fmt.Printf.
func (l *Logger) Infof(format string, v ...interface{}) {
	if l != nil {
		l.output(LevelInfo, fmt.Sprintf(format, v...))
	}
}

// Debug logs information at debug level with semantics equivalent to
// fmt.Print.
func (l *Logger) Debug(v ...interface{}) {
	if l != nil {
		l.output(LevelDebug, fmt.Sprint(v...))
	}
}

// Debugf logs information at debug level with semantics equivalent to
// fmt.Printf.
func (l *Logger) Debugf(format string, v ...interface{}) {
	if l != nil {
		l.output(LevelDebug, fmt.Sprintf(format, v...))
	}
}

// Trace logs information at trace level with semantics equivalent to
// fmt.Print.
func (l *Logger) Trace(v ...interface{}) {
	if l != nil {
		l.output(LevelTrace, fmt.Sprint(v...))
	}
}

// Tracef logs information at trace level with semantics equivalent to
// fmt.Printf.
func (l *Logger) Tracef(format string, v ...interface{}) {
	if l != nil {
		l.output(LevelTrace, fmt.Sprintf(format, v...))
	}
}

// Writer returns an io.Writer that writes lines to the logger at the
// specified level.
func (l *Logger) Writer(level Level) io.Writer {
	// If the logger is nil, then we can just discard input since it won't be
	// logged anyway. This saves us the overhead of scanning lines.
	if l == nil {
		return ioutil.Discard
	}

	// Create the writer.
	return &writer{
		callback: func(s string) {
			l.output(level, s)
		},
	}
}
