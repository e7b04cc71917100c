package rootfiles

import (
	"io"
	"net/http"
	"os"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ConfigureLogging replaces the global zerolog logger according to cfg.
func ConfigureLogging(cfg *LogConfig) error {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stderr
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	log.Logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
	return nil
}

// AccessLogFormatter is a chi LogFormatter writing one zerolog event per
// request, tagged with the chi request id.
type AccessLogFormatter struct {
	logger zerolog.Logger
	level  zerolog.Level
}

type AccessLogOption func(*AccessLogFormatter)

func WithLogger(logger zerolog.Logger) AccessLogOption {
	return func(f *AccessLogFormatter) {
		f.logger = logger
	}
}

func WithLogLevel(level zerolog.Level) AccessLogOption {
	return func(f *AccessLogFormatter) {
		f.level = level
	}
}

func NewAccessLogFormatter(options ...AccessLogOption) *AccessLogFormatter {
	f := &AccessLogFormatter{
		logger: log.Logger,
		level:  zerolog.InfoLevel,
	}
	for _, option := range options {
		option(f)
	}
	return f
}

func (f *AccessLogFormatter) NewLogEntry(r *http.Request) chimiddleware.LogEntry {
	return &accessLogEntry{
		level: f.level,
		logger: f.logger.With().
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("uri", r.URL.RequestURI()).
			Str("remote_addr", r.RemoteAddr).
			Logger(),
	}
}

// statusLevel raises base to warn for client errors and to error for
// server errors. It never lowers it.
func statusLevel(base zerolog.Level, status int) zerolog.Level {
	floor := base
	switch {
	case status >= http.StatusInternalServerError:
		floor = zerolog.ErrorLevel
	case status >= http.StatusBadRequest:
		floor = zerolog.WarnLevel
	}
	if floor > base {
		return floor
	}
	return base
}

type accessLogEntry struct {
	level  zerolog.Level
	logger zerolog.Logger
}

func (e *accessLogEntry) Write(status, bytes int, header http.Header, elapsed time.Duration, extra interface{}) {
	e.logger.WithLevel(statusLevel(e.level, status)).
		Int("status", status).
		Int("size", bytes).
		Dur("duration", elapsed).
		Msg("request")
}

func (e *accessLogEntry) Panic(v interface{}, stack []byte) {
	e.logger.Error().Bytes("stack", stack).Msgf("panic: %v", v)
}
