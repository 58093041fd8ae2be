// Package logger exposes a process-wide structured logger. Call sites pass a
// message followed by loose key/value pairs.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu  sync.RWMutex
	log = zap.NewNop().Sugar()
)

// Init builds the process logger. Development environments get a console
// encoder at debug level, everything else JSON at info level.
func Init(environment string) {
	var (
		base *zap.Logger
		err  error
	)

	if environment == "development" || environment == "local" {
		base, err = zap.NewDevelopment(zap.AddCallerSkip(1))
	} else {
		base, err = zap.NewProduction(zap.AddCallerSkip(1))
	}
	if err != nil {
		base = zap.NewExample()
	}

	Set(base)
}

// Set replaces the process logger. Tests use it with zaptest or zap.NewNop.
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l.Sugar()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func Debug(msg string, args ...interface{}) {
	current().Debugw(msg, normalize(args)...)
}

func Info(msg string, args ...interface{}) {
	current().Infow(msg, normalize(args)...)
}

func Warn(msg string, args ...interface{}) {
	current().Warnw(msg, normalize(args)...)
}

func Error(msg string, args ...interface{}) {
	current().Errorw(msg, normalize(args)...)
}

func Fatal(msg string, args ...interface{}) {
	current().Fatalw(msg, normalize(args)...)
}

// Sync flushes buffered entries.
func Sync() {
	_ = current().Sync()
}

// normalize accepts the shorthand logger.Error("msg", err) by keying a lone
// error under "error". Dangling values are keyed under "extra".
func normalize(args []interface{}) []interface{} {
	if len(args) == 0 {
		return nil
	}

	out := make([]interface{}, 0, len(args)+1)
	for i := 0; i < len(args); i++ {
		switch v := args[i].(type) {
		case string:
			if i+1 < len(args) {
				out = append(out, v, args[i+1])
				i++
				continue
			}
			out = append(out, "extra", v)
		case error:
			out = append(out, "error", v)
		default:
			out = append(out, "extra", v)
		}
	}
	return out
}
