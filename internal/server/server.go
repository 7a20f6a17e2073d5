package server

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Brownie44l1/http-server/internal/request"
	"github.com/Brownie44l1/http-server/internal/response"
)

// Handler produces the response for a parsed request. A non-nil error
// aborts the connection without writing anything.
type Handler interface {
	ServeRequest(req *request.Request) (response.Response, error)
}

// HandlerFunc adapts a function to Handler
type HandlerFunc func(req *request.Request) (response.Response, error)

func (f HandlerFunc) ServeRequest(req *request.Request) (response.Response, error) {
	return f(req)
}

type Middleware func(next Handler) Handler

const maxAcceptDelay = time.Second

type Server struct {
	config      Config
	handler     Handler
	middlewares []Middleware
	Logger      Logger
	metrics     *Metrics

	mu       sync.Mutex
	listener net.Listener
	closed   atomic.Bool
	conns    sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a server; a nil logger discards output
func New(config Config, handler Handler, logger Logger) *Server {
	if logger == nil {
		logger = NullLogger{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		config:  config,
		handler: handler,
		Logger:  logger,
		metrics: NewMetrics(),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Use adds middleware; the first added runs outermost. Must be called
// before Serve.
func (s *Server) Use(mw ...Middleware) {
	s.middlewares = append(s.middlewares, mw...)
}

func (s *Server) ListenAndServe() error {
	if err := s.config.Validate(); err != nil {
		return err
	}
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until the server is shut down. It always
// returns a non-nil error; ErrServerClosed after Shutdown or Close.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		ln.Close()
		return ErrServerClosed
	}
	s.listener = ln
	s.mu.Unlock()

	h := s.chain()
	s.Logger.Info("server listening", Field{"addr", ln.Addr().String()})

	var tempDelay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.closed.Load() {
				return ErrServerClosed
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			if tempDelay == 0 {
				tempDelay = 5 * time.Millisecond
			} else {
				tempDelay *= 2
			}
			if tempDelay > maxAcceptDelay {
				tempDelay = maxAcceptDelay
			}
			s.Logger.Error("accept error", Field{"error", err}, Field{"retry_in", tempDelay})
			time.Sleep(tempDelay)
			continue
		}
		tempDelay = 0

		if !s.track() {
			conn.Close()
			return ErrServerClosed
		}
		go func() {
			defer s.conns.Done()
			s.serveConn(conn, h)
		}()
	}
}

// track registers a connection unless shutdown has begun
func (s *Server) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return false
	}
	s.conns.Add(1)
	return true
}

func (s *Server) chain() Handler {
	h := s.handler
	for i := len(s.middlewares) - 1; i >= 0; i-- {
		h = s.middlewares[i](h)
	}
	return h
}

// Addr returns the listener address, or nil before Serve
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown stops accepting and waits for in-flight connections. If ctx
// ends first the remaining connections are closed and ctx.Err is returned.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.closeListener()

	done := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		return err
	case <-ctx.Done():
		s.cancel()
		<-done
		return ctx.Err()
	}
}

// Close stops accepting and closes every open connection immediately
func (s *Server) Close() error {
	err := s.closeListener()
	s.cancel()
	s.conns.Wait()
	return err
}

func (s *Server) closeListener() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Swap(true) || s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) Stats() MetricsSnapshot {
	return s.metrics.Snapshot()
}
