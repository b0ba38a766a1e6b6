// Copyright (c) 2025 BVK Chaitanya

package httputil

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"sync"
	"sync/atomic"

	"github.com/bvk/coindash/ctxutil"
	"github.com/google/uuid"
)

// Server serves one handler table on any number of tcp listeners. Handlers
// can be added and removed while requests are being served.
type Server struct {
	opts Options

	// lifeCtx is the base context for all requests; canceled on Close.
	lifeCtx    context.Context
	lifeCancel context.CancelCauseFunc

	wg sync.WaitGroup

	mux atomic.Pointer[http.ServeMux]

	mu        sync.Mutex
	handlers  map[string]http.Handler
	listeners map[int64]*http.Server
	lastID    int64
}

func New(opts *Options) (*Server, error) {
	if opts == nil {
		opts = new(Options)
	}
	opts.setDefaults()
	if err := opts.Check(); err != nil {
		return nil, err
	}

	s := &Server{
		opts:      *opts,
		handlers:  make(map[string]http.Handler),
		listeners: make(map[int64]*http.Server),
	}
	s.lifeCtx, s.lifeCancel = context.WithCancelCause(context.Background())
	s.mux.Store(http.NewServeMux())
	return s, nil
}

// Close stops all listeners and waits for their goroutines.
func (s *Server) Close() error {
	s.mu.Lock()
	ids := make([]int64, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		s.Stop(id)
	}
	s.lifeCancel(os.ErrClosed)
	s.wg.Wait()
	return nil
}

// StartTCP listens on the address and returns once the listener answers a
// request on a private path. A zero addr.Port is replaced with the port
// picked by the kernel.
func (s *Server) StartTCP(ctx context.Context, addr *net.TCPAddr) (id int64, status error) {
	l, err := net.Listen("tcp", addr.String())
	if err != nil {
		return -1, err
	}
	defer func() {
		if status != nil {
			l.Close()
		}
	}()

	if addr.Port == 0 {
		laddr, ok := l.Addr().(*net.TCPAddr)
		if !ok {
			return -1, fmt.Errorf("listener address %v is not a tcp address", l.Addr())
		}
		addr.Port = laddr.Port
	}

	readyPath := "/" + uuid.NewString()
	s.AddHandler(readyPath, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.DebugContext(r.Context(), "answered readiness request", "addr", addr, "remote", r.RemoteAddr)
	}))
	defer s.RemoveHandler(readyPath)

	hs := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: s.opts.ReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return s.lifeCtx
		},
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := hs.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "http listener failed", "addr", addr, "error", err)
		}
	}()
	defer func() {
		if status != nil {
			hs.Close()
		}
	}()

	if err := s.waitReady(ctx, l.Addr().String(), readyPath); err != nil {
		return -1, fmt.Errorf("listener on %s is not ready: %w", addr, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	s.listeners[s.lastID] = hs
	return s.lastID, nil
}

func (s *Server) waitReady(ctx context.Context, host, readyPath string) error {
	client := &http.Client{Timeout: s.opts.ReadyTimeout}
	u := url.URL{Scheme: "http", Host: host, Path: readyPath}

	check := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("readiness request returned status %d", resp.StatusCode)
		}
		return nil
	}
	return ctxutil.Poll(ctx, s.opts.ReadyPollInterval, s.opts.ReadyTimeout, check)
}

// Stop shuts down a listener started by StartTCP. In-flight requests get up
// to ShutdownTimeout to complete.
func (s *Server) Stop(id int64) error {
	s.mu.Lock()
	hs, ok := s.listeners[id]
	delete(s.listeners, id)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("listener %d: %w", id, os.ErrNotExist)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	if err := hs.Shutdown(ctx); err != nil {
		slog.Warn("closing http listener forcibly", "id", id, "error", err)
		hs.Close()
	}
	return nil
}

func (s *Server) AddHandler(pattern string, handler http.Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.handlers[pattern] = handler
	s.rebuildMux()
}

// RemoveHandler returns false if no handler was registered for the pattern.
func (s *Server) RemoveHandler(pattern string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.handlers[pattern]; !ok {
		return false
	}
	delete(s.handlers, pattern)
	s.rebuildMux()
	return true
}

// rebuildMux must be called with the lock held.
func (s *Server) rebuildMux() {
	m := http.NewServeMux()
	for k, v := range s.handlers {
		m.Handle(k, v)
	}
	s.mux.Store(m)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.Load().ServeHTTP(w, r)
}
