// Package server exposes the events as an iCalendar feed on localhost.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/tartampluch/go-monthcal/internal/config"
	"github.com/tartampluch/go-monthcal/internal/engine"
)

// Port validation errors, matched with errors.Is.
var (
	ErrPortRequired = errors.New(config.ErrPortRequired)
	ErrPortNumber   = errors.New(config.ErrPortNumber)
	ErrPortRange    = errors.New(config.ErrPortRange)
)

// ParsePort checks a TCP port given as text.
func ParsePort(s string) (int, error) {
	if s == "" {
		return 0, ErrPortRequired
	}
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrPortNumber, s)
	}
	if port < config.MinPort || port > config.MaxPort {
		return 0, fmt.Errorf("%w: %d", ErrPortRange, port)
	}
	return port, nil
}

// CalendarServer serves the latest rendered feed to calendar clients.
type CalendarServer struct {
	Port string

	// Token must match the token query parameter. Empty disables the check.
	Token string

	// Clock stamps Last-Modified on each update.
	Clock engine.Clock

	current atomic.Pointer[feed]
}

// NewCalendarServer creates a server for port, guarded by token.
func NewCalendarServer(port, token string) *CalendarServer {
	return &CalendarServer{
		Port:  port,
		Token: token,
		Clock: engine.RealClock{},
	}
}

// FeedURL returns the address calendar clients subscribe to.
func (s *CalendarServer) FeedURL() string {
	return fmt.Sprintf(config.FormatFeedURL, config.LocalhostBindAddr, s.Port, config.QueryToken, s.Token)
}

// Start listens on localhost and blocks until the context is cancelled.
func (s *CalendarServer) Start(ctx context.Context) error {
	if _, err := ParsePort(s.Port); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle(config.RouteRoot, s)

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      mux,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)
	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update publishes a newly rendered calendar.
func (s *CalendarServer) Update(body []byte) {
	clock := s.Clock
	if clock == nil {
		clock = engine.RealClock{}
	}
	f := newFeed(body, clock.Now())
	s.current.Store(f)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(body),
		config.LogKeyETag, f.etag,
	)
}
