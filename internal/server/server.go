package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"time"
)

// shutdownGrace is how long in-flight requests get to finish once the
// serve context is cancelled (Ctrl+C).
const shutdownGrace = 5 * time.Second

// Server is the static asset server. It serves files from an explicit
// base directory, redirects the site root to the standalone entry
// document, and corrects content-type headers for the extensions the
// platform guesser gets wrong.
//
// It is a plain local development server: no TLS, no authentication,
// no request limits, and no path protection beyond what
// http.FileServer provides.
type Server struct {
	port    int
	handler http.Handler
}

// New creates a Server that serves files from dir on the given port,
// redirecting "/" to entry. Request log lines are written to logOut
// (one line per request: client address, method, path, status).
//
// The port must already be selected (see internal/port); New does not
// probe availability.
func New(port int, dir, entry string, logOut io.Writer) *Server {
	return &Server{
		port:    port,
		handler: NewHandler(dir, entry, logOut),
	}
}

// Handler returns the server's root http.Handler. Exposed so tests can
// drive it through httptest without binding a real port.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe binds the server's port on all interfaces and serves
// until ctx is cancelled, then drains in-flight requests gracefully.
//
// A cancelled context is a clean stop and returns nil; any other serve
// or bind failure is returned to the caller.
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to bind port %d: %w", s.port, err)
	}

	srv := &http.Server{Handler: s.handler}

	// Serve in a goroutine so we can select between a serve failure
	// and context cancellation (the interrupt signal).
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	case err := <-errCh:
		// http.Server.Serve never returns nil; anything here is a
		// genuine runtime fault.
		return fmt.Errorf("server error: %w", err)
	}
}

// NewHandler builds the request handler chain: routing special cases
// (root redirect, favicon) in front of a content-type-correcting file
// server over dir, wrapped with per-request logging to logOut.
func NewHandler(dir, entry string, logOut io.Writer) http.Handler {
	if logOut == nil {
		logOut = io.Discard
	}
	logger := log.New(logOut, "", 0)
	fileServer := http.FileServer(http.Dir(dir))

	mux := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			// The site root always redirects to the standalone entry
			// document rather than serving a directory listing.
			http.Redirect(w, r, entry, http.StatusFound)

		case "/favicon.ico":
			// Always 404 with an empty body, even when a favicon.ico
			// file exists. The original server short-circuits favicon
			// requests to keep missing-icon noise out of the logs, and
			// that behavior is preserved as-is.
			w.WriteHeader(http.StatusNotFound)

		default:
			// Pre-set the content-type for extensions in the override
			// table; http.FileServer honors an existing Content-Type
			// header and applies its own detection otherwise.
			if ct, ok := contentTypeOverrides[lowerExt(r.URL.Path)]; ok {
				w.Header().Set("Content-Type", ct)
			}
			fileServer.ServeHTTP(w, r)
		}
	})

	return logRequests(logger, mux)
}

// logRequests wraps next so every request produces one log line with
// the client address, request line, and response status.
func logRequests(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Printf("[%s] \"%s %s %s\" %d", r.RemoteAddr, r.Method, r.URL.Path, r.Proto, rec.status)
	})
}

// statusRecorder captures the response status code for logging.
// WriteHeader may never be called (implicit 200), so status starts at
// http.StatusOK.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
