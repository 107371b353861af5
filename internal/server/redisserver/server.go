package redisserver

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/shardtab/internal/infra/ratelimit"
	"github.com/yndnr/shardtab/internal/telemetry/logger"
	"github.com/yndnr/shardtab/internal/telemetry/metric"
	"github.com/yndnr/shardtab/pkg/cmap"
	"github.com/yndnr/shardtab/pkg/intern"
)

// Config holds the RESP server configuration.
type Config struct {
	Addr string

	// ReadTimeout bounds reading one command once its first byte arrived.
	ReadTimeout time.Duration
	// WriteTimeout bounds flushing one reply.
	WriteTimeout time.Duration
	// IdleTimeout bounds the wait for the next command.
	IdleTimeout time.Duration

	// RateLimit is commands per second per client IP; zero disables it.
	RateLimit float64
	RateBurst int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Addr:         "127.0.0.1:6379",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  5 * time.Minute,
		RateLimit:    1000,
	}
}

// Server accepts RESP connections and runs their commands against an
// intern table.
type Server struct {
	cfg     Config
	handler *CommandHandler
	metrics *metric.Registry
	log     logger.Logger

	mu      sync.Mutex
	ln      net.Listener
	closing atomic.Bool
	wg      sync.WaitGroup

	// idleMu orders arming a connection's idle deadline against Shutdown
	// expiring it.
	idleMu sync.RWMutex

	nextID atomic.Uint64
	conns  *cmap.Map[uint64, *conn, cmap.IntHasher[uint64]]
}

type conn struct {
	netConn net.Conn
	client  string
	br      *bufio.Reader
	w       *Writer
}

// New creates a RESP server for table. reg may be nil.
func New(cfg Config, table *intern.Table, reg *metric.Registry, log logger.Logger) *Server {
	def := DefaultConfig()
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = def.ReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = def.IdleTimeout
	}
	if log == nil {
		log = logger.Default()
	}

	var limiters *ratelimit.Limiters
	if cfg.RateLimit > 0 {
		limiters = ratelimit.New(cfg.RateLimit, cfg.RateBurst)
	}
	return &Server{
		cfg:     cfg,
		handler: NewCommandHandler(table, reg, limiters, log),
		metrics: reg,
		log:     log,
		conns:   cmap.NewMap[uint64, *conn](cmap.IntHasher[uint64]{}),
	}
}

// ListenAndServe binds the configured address and serves until Shutdown.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown, which makes it return
// nil.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closing.Load() {
		s.mu.Unlock()
		ln.Close()
		return nil
	}
	s.ln = ln
	// Counting the accept loop keeps the group non-zero while connections
	// are added.
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	for {
		c, err := ln.Accept()
		if err != nil {
			if s.closing.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(c)
		}()
	}
}

// Addr returns the listening address once Serve runs, the configured
// address before.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.cfg.Addr
}

// Shutdown stops accepting connections and interrupts idle clients. It
// waits for commands in flight until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.closing.Store(true)

	s.mu.Lock()
	var err error
	if s.ln != nil {
		err = s.ln.Close()
		if errors.Is(err, net.ErrClosed) {
			err = nil
		}
	}
	s.mu.Unlock()

	// An expired read deadline wakes connections blocked waiting for the
	// next command.
	s.idleMu.Lock()
	s.conns.Range(func(_ uint64, c *conn) bool {
		c.netConn.SetReadDeadline(time.Now())
		return true
	})
	s.idleMu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return err
	case <-ctx.Done():
		s.conns.Range(func(_ uint64, c *conn) bool {
			c.netConn.Close()
			return true
		})
		return ctx.Err()
	}
}

func (s *Server) serveConn(nc net.Conn) {
	c := &conn{
		netConn: nc,
		client:  clientIP(nc.RemoteAddr()),
		br:      bufio.NewReader(nc),
		w:       NewWriter(nc),
	}
	id := s.nextID.Add(1)
	s.conns.Store(id, c)
	if s.metrics != nil {
		s.metrics.RESPConnections.Inc()
	}
	log := s.log.With("remote", nc.RemoteAddr().String())
	defer func() {
		s.conns.Erase(id)
		if s.metrics != nil {
			s.metrics.RESPConnections.Dec()
		}
		nc.Close()
	}()

	for s.armIdle(nc) {
		// Clients may idle between commands; once a command starts it has
		// to arrive within the read timeout.
		if _, err := c.br.Peek(1); err != nil {
			logReadError(log, err)
			return
		}
		if err := nc.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
			return
		}

		args, err := ReadCommand(c.br)
		if err != nil {
			if errors.Is(err, ErrProtocol) || errors.Is(err, ErrLimitExceeded) {
				log.Warn("closing connection on bad input", "error", err)
				c.w.Error("ERR " + err.Error())
				s.flush(c)
			} else {
				logReadError(log, err)
			}
			return
		}
		if len(args) == 0 {
			continue
		}

		quit := s.handler.Handle(c.client, c.w, args)
		if err := s.flush(c); err != nil || quit {
			return
		}
	}
}

// armIdle sets the deadline for the next command to arrive. It reports
// false once Shutdown started.
func (s *Server) armIdle(nc net.Conn) bool {
	s.idleMu.RLock()
	defer s.idleMu.RUnlock()
	if s.closing.Load() {
		return false
	}
	return nc.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout)) == nil
}

func (s *Server) flush(c *conn) error {
	if err := c.netConn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
		return err
	}
	return c.w.Flush()
}

func logReadError(log logger.Logger, err error) {
	var netErr net.Error
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
	case errors.As(err, &netErr) && netErr.Timeout():
		log.Debug("connection timed out")
	default:
		log.Debug("connection read error", "error", err)
	}
}

func clientIP(addr net.Addr) string {
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return tcp.IP.String()
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
