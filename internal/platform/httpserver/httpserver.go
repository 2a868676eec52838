package httpserver

import (
	"net/http"
	"time"
)

// Option tunes the server.
type Option func(*http.Server)

// WithTimeouts overrides the read and write timeouts. Zero keeps the default.
// The write timeout should exceed the router's per-request timeout so a
// timed-out handler can still write its 503.
func WithTimeouts(read, write time.Duration) Option {
	return func(s *http.Server) {
		if read > 0 {
			s.ReadTimeout = read
		}
		if write > 0 {
			s.WriteTimeout = write
		}
	}
}

// New builds the API server.
func New(addr string, handler http.Handler, opts ...Option) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(srv)
		}
	}
	return srv
}
