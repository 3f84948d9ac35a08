// Package logger provides the process-wide structured logger backed by zerolog.
//
// The API server and the storefront CLI both call Init once from main and hand
// child loggers to their components through constructors:
//
//	log := logger.Init(logger.Options{Level: cfg.LogLevel, Service: "aurawell-api"})
//	carts := service.NewCartService(repo, products, logger.Component(log, "cart"))
//
// Levels, lowest first: trace, debug, info, warn, error.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls logger behaviour at initialisation time.
type Options struct {
	// Level is the minimum log level. Unknown or empty values mean "info".
	Level string
	// Pretty switches to zerolog's human-readable console writer.
	Pretty bool
	// Service is attached to every entry as the "service" field when non-empty.
	Service string
	// Output defaults to os.Stdout. The CLI passes os.Stderr so logs never
	// interleave with shell output.
	Output io.Writer
}

var (
	instance    zerolog.Logger
	once        sync.Once
	initialized bool
)

// Init builds the singleton logger. Only the first call has any effect; later
// calls return the already-built instance.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		if opts.Pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
		}

		lvl := ParseLevel(opts.Level)
		zerolog.SetGlobalLevel(lvl)

		ctx := zerolog.New(out).Level(lvl).With().Timestamp()
		if opts.Service != "" {
			ctx = ctx.Str("service", opts.Service)
		}
		instance = ctx.Logger()
		initialized = true
	})
	return instance
}

// Get returns the singleton logger. Panics if Init has not been called yet.
func Get() zerolog.Logger {
	if !initialized {
		panic("logger: Get() called before Init()")
	}
	return instance
}

// Reset tears down the singleton so that the next Init call rebuilds it.
// Tests only.
func Reset() {
	once = sync.Once{}
	instance = zerolog.Logger{}
	initialized = false
}

// Component returns a child logger tagged with the given component name.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// ParseLevel converts a level name to a zerolog.Level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
