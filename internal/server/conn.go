package server

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/Brownie44l1/http-server/internal/request"
	"github.com/Brownie44l1/http-server/internal/response"
)

type connState int

const (
	stateReading connState = iota
	stateParsed
	stateRouted
	stateWriting
	stateClosed
)

func (s connState) String() string {
	switch s {
	case stateReading:
		return "reading"
	case stateParsed:
		return "parsed"
	case stateRouted:
		return "routed"
	case stateWriting:
		return "writing"
	case stateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// connection serves exactly one request and then closes
type connection struct {
	conn    net.Conn
	config  Config
	handler Handler
	metrics *Metrics
	state   connState

	routedAt time.Time

	req *request.Request
	res response.Response
	out []byte
}

func (s *Server) serveConn(conn net.Conn, h Handler) {
	s.metrics.ConnectionOpened()
	defer s.metrics.ConnectionClosed()

	stop := context.AfterFunc(s.ctx, func() { conn.Close() })
	defer stop()

	c := &connection{conn: conn, config: s.config, handler: h, metrics: s.metrics}
	if err := c.serve(); err != nil {
		s.logFailure(conn, err)
	}
}

func (s *Server) logFailure(conn net.Conn, err error) {
	kind, _ := KindOf(err)
	s.metrics.RecordFailure(kind)

	fields := []Field{
		{"kind", kind},
		{"remote", conn.RemoteAddr().String()},
		{"error", err},
	}
	if kind == KindConnectionClosed {
		s.Logger.Debug("connection closed by peer", fields...)
		return
	}
	s.Logger.Error("connection failed", fields...)
}

func (c *connection) serve() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ConnError{Kind: KindHandlerPrecondition, Err: fmt.Errorf("%w: %v", ErrHandlerPanic, r)}
		}
		c.conn.Close()
		c.state = stateClosed
	}()

	for c.state != stateClosed {
		if err := c.step(); err != nil {
			return err
		}
	}
	return nil
}

func (c *connection) step() error {
	switch c.state {
	case stateReading:
		raw, err := c.read()
		if err != nil {
			return readError(err)
		}
		req, err := request.Parse(raw)
		if err != nil {
			return &ConnError{Kind: KindMalformedRequest, Err: err}
		}
		c.req = req
		c.state = stateParsed

	case stateParsed:
		c.routedAt = time.Now()
		res, err := c.handler.ServeRequest(c.req)
		if err != nil {
			return handlerError(err)
		}
		c.res = res
		c.state = stateRouted

	case stateRouted:
		out, err := response.Build(c.req, c.res)
		if err != nil {
			return handlerError(err)
		}
		c.out = out
		c.state = stateWriting

	case stateWriting:
		if err := c.write(); err != nil {
			return &ConnError{Kind: KindWrite, Err: err}
		}
		c.metrics.RecordRequest(c.res.Status, time.Since(c.routedAt))
		c.state = stateClosed
	}
	return nil
}

func (c *connection) read() ([]byte, error) {
	if c.config.ReadTimeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout)); err != nil {
			return nil, err
		}
	}

	size := c.config.ReadBufferSize
	if size <= 0 {
		size = DefaultConfig().ReadBufferSize
	}
	chunk := GetBuffer(size)
	defer PutBuffer(chunk)

	return request.ReadFrom(c.conn, chunk, c.config.limits())
}

func (c *connection) write() error {
	if c.config.WriteTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout)); err != nil {
			return err
		}
	}
	_, err := c.conn.Write(c.out)
	return err
}
