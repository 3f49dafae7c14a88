package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/arthur-debert/dots/pkg/errors"
	"github.com/arthur-debert/dots/pkg/paths"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component names attached to every log line of a package
const (
	Commands    = "commands"
	Composition = "composition"
	Environment = "environment"
	Filter      = "filter"
	Materialize = "materialize"
	Output      = "output"
	Prompt      = "prompt"
	Reconcile   = "reconcile"
	Resolver    = "resolver"
	Trackfile   = "trackfile"
)

// Options configure SetupLogger
type Options struct {
	// Verbosity is the -v count: 0 warn, 1 info, 2 debug, 3 and up trace
	Verbosity int
	// Console gets human readable lines, os.Stderr when nil
	Console io.Writer
	// LogFile gets JSON lines, the state dir's dots.log when empty
	LogFile string
}

var (
	mu      sync.Mutex
	logFile *os.File
)

// LevelFor maps a -v count onto a zerolog level
func LevelFor(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// SetupLogger installs the global logger. Console output always works; the
// log file is best effort and a failure to open it is logged as a warning.
// It returns the log file path.
func SetupLogger(opts Options) string {
	mu.Lock()
	defer mu.Unlock()

	zerolog.SetGlobalLevel(LevelFor(opts.Verbosity))

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(console),
	}}

	path := opts.LogFile
	if path == "" {
		path = paths.New().LogFilePath()
	}
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	file, openErr := openLogFile(path)
	if openErr == nil {
		logFile = file
		writers = append(writers, file)
	}

	lctx := zerolog.New(io.MultiWriter(writers...)).With().Timestamp()
	if opts.Verbosity >= 2 {
		lctx = lctx.Caller()
	}
	log.Logger = lctx.Logger()

	if openErr != nil {
		log.Warn().Err(openErr).Str("path", path).Msg("Logging to console only")
	}
	log.Debug().Int("verbosity", opts.Verbosity).Str("logFile", path).Msg("Logger initialized")
	return path
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot create log directory for %s", path)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot open log file %s", path)
	}
	return file, nil
}

// GetLogger returns the global logger tagged with component
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// LogOperationStart logs the start of a resolve or reconcile phase and
// returns a func that logs its duration
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().Str("operation", operation).Msg("Operation started")
	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}
