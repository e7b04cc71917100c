package rootfiles

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/alioygur/gores"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/thejerf/suture/v4"
)

const shutdownTimeout = 5 * time.Second

// FileService answers root folder listings for the HTTP layer.
type FileService interface {
	RootFolderFiles(label string) []Entry
}

type HTTPService struct {
	config *Config
	files  FileService

	// fatal carries the error that made Serve stop the supervisor tree.
	fatal chan error
}

func NewHTTPService(config *Config, files FileService) *HTTPService {
	return &HTTPService{
		config: config,
		files:  files,
		fatal:  make(chan error, 1),
	}
}

func (h *HTTPService) router() http.Handler {
	// the level was validated when the config was loaded
	accessLevel, _ := zerolog.ParseLevel(h.config.Log.AccessLevel)
	formatter := NewAccessLogFormatter(
		WithLogger(log.Logger.With().Str("component", "http").Logger()),
		WithLogLevel(accessLevel),
	)

	rtr := chi.NewRouter()
	rtr.Use(middleware.RequestID)
	rtr.Use(middleware.RealIP)
	rtr.Use(middleware.RequestLogger(formatter))
	rtr.Use(middleware.Recoverer)

	rtr.Get("/healthz", h.routeGetHealthz)

	rtr.Route("/files", func(r chi.Router) {
		r.Get("/root-all", h.routeGetRootAll)
	})

	return rtr
}

// Serve binds the configured address and serves until ctx is done. A bind
// failure terminates the whole supervisor tree instead of being retried.
func (h *HTTPService) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", h.config.HTTP.Bind)
	if err != nil {
		err = fmt.Errorf("listen on %s: %w", h.config.HTTP.Bind, err)
		select {
		case h.fatal <- err:
		default:
		}
		return fmt.Errorf("%w: %w", suture.ErrTerminateSupervisorTree, err)
	}
	log.Info().Str("bind", ln.Addr().String()).Msg("http server listening")

	srv := &http.Server{
		Handler: h.router(),
	}

	errC := make(chan error, 1)
	go func() {
		errC <- srv.Serve(ln)
	}()

	select {
	case err := <-errC:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve on %s: %w", ln.Addr(), err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Fatal reports the error that ended Serve for good, if any.
func (h *HTTPService) Fatal() error {
	select {
	case err := <-h.fatal:
		return err
	default:
		return nil
	}
}

func (h *HTTPService) routeGetHealthz(w http.ResponseWriter, r *http.Request) {
	gores.String(w, http.StatusOK, "ok\n")
}

func (h *HTTPService) routeGetRootAll(w http.ResponseWriter, r *http.Request) {
	label := r.URL.Query().Get("disk-letter")
	if isBlank(label) {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	entries := h.files.RootFolderFiles(label)
	if entries == nil {
		entries = []Entry{}
	}

	gores.JSON(w, http.StatusOK, entries)
}

func isBlank(s string) bool {
	return strings.TrimFunc(s, isBlankRune) == ""
}

// isBlankRune counts separators and ASCII control whitespace as blank but
// not the no-break spaces U+00A0, U+2007 and U+202F, nor U+0085.
func isBlankRune(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\x1c', '\x1d', '\x1e', '\x1f':
		return true
	case '\u00a0', '\u2007', '\u202f':
		return false
	}
	return unicode.In(r, unicode.Zs, unicode.Zl, unicode.Zp)
}
