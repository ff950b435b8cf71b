// Package logger wraps zerolog behind a process-wide singleton. Call Init
// once at startup, then Get from any package that needs to log.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "identity"

// Options controls how the singleton is built.
type Options struct {
	// Level is the minimum level to emit (trace, debug, info, warn, error).
	// Unrecognised or empty values fall back to info.
	Level string
	// Pretty switches from JSON to human-readable console output.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

var (
	once     sync.Once
	instance zerolog.Logger
	ready    bool
)

// Init builds the singleton logger. Only the first call takes effect;
// later calls return the already-built instance.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		if opts.Pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		}

		lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
		if err != nil || lvl == zerolog.NoLevel {
			lvl = zerolog.InfoLevel
		}
		zerolog.SetGlobalLevel(lvl)

		instance = zerolog.New(out).
			Level(lvl).
			With().
			Timestamp().
			Str("service", serviceName).
			Logger()
		ready = true
	})
	return instance
}

// Get returns the singleton. Panics when Init has not run yet, which points
// at a wiring bug rather than a runtime condition worth handling.
func Get() zerolog.Logger {
	if !ready {
		panic("logger: Get called before Init")
	}
	return instance
}

// Reset discards the singleton so tests can rebuild it with different options.
func Reset() {
	once = sync.Once{}
	instance = zerolog.Logger{}
	ready = false
}
