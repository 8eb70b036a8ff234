package fireworks

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// DefaultLogger writes DEBUG/INFO to one sink and WARN/ERROR to another.
type DefaultLogger struct {
	mu     sync.Mutex
	debug  bool
	prefix string
	out    *log.Logger
	err    *log.Logger
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	return NewWriterLogger(prefix, debug, os.Stdout, os.Stderr)
}

func NewWriterLogger(prefix string, debug bool, out, errOut io.Writer) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	return &DefaultLogger{
		debug:  debug,
		prefix: prefix,
		out:    log.New(out, "", flags),
		err:    log.New(errOut, "", flags),
	}
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	l.debug = enabled
	l.mu.Unlock()
}

func (l *DefaultLogger) logf(level Level, format string, args ...any) {
	if level == LevelDebug && !l.DebugEnabled() {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.prefix != "" {
		msg = fmt.Sprintf("[%s] %s: %s", l.prefix, level, msg)
	} else {
		msg = fmt.Sprintf("%s: %s", level, msg)
	}
	sink := l.out
	if level >= LevelWarn {
		sink = l.err
	}
	sink.Print(msg)
}

func (l *DefaultLogger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *DefaultLogger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

// LoggingModule installs a default logger as a resource. Install it first so
// later modules can log while installing.
type LoggingModule struct {
	Prefix string
	Debug  bool
}

func (m LoggingModule) Install(app *App, cmd *Commands) {
	app.addResources(NewDefaultLogger(m.Prefix, m.Debug))
}

type nopLogger struct{}

func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) DebugEnabled() bool                { return false }
func (nopLogger) SetDebug(enabled bool)             {}
func (nopLogger) Debugf(format string, args ...any) {}
func (nopLogger) Infof(format string, args ...any)  {}
func (nopLogger) Warnf(format string, args ...any)  {}
func (nopLogger) Errorf(format string, args ...any) {}

// Logger returns the first Logger resource if present, otherwise a no-op logger.
// Never returns nil.
func (app *App) Logger() Logger {
	if app == nil {
		return NewNopLogger()
	}
	for _, r := range app.resources {
		if l, ok := r.(Logger); ok {
			return l
		}
	}
	return NewNopLogger()
}

// makeBurstLogSystem reports the frame's burst events at debug level.
func makeBurstLogSystem(logger Logger) func(*BurstEvents) {
	return func(events *BurstEvents) {
		if !logger.DebugEnabled() {
			return
		}
		for _, e := range events.Spawned {
			logger.Debugf("Spawned %s burst %s on entity %d: %d particles at %v", e.Shape, e.Id, e.Entity, e.Count, e.Origin)
		}
		for _, e := range events.Finished {
			logger.Debugf("Disposed %s burst %s on entity %d", e.Shape, e.Id, e.Entity)
		}
		if len(events.Spawned) > 0 || len(events.Finished) > 0 {
			logger.Debugf("Bursts so far: %d spawned, %d finished", events.TotalSpawned, events.TotalFinished)
		}
	}
}
