package server

import (
	"errors"
	"fmt"

	"github.com/Brownie44l1/http-server/internal/filestore"
	"github.com/Brownie44l1/http-server/internal/request"
)

var (
	ErrServerClosed = errors.New("server closed")
	ErrHandlerPanic = errors.New("handler panicked")
)

// ErrorKind classifies why a connection ended without a response
type ErrorKind int

const (
	KindConnectionClosed ErrorKind = iota
	KindRead
	KindMalformedRequest
	KindHandlerPrecondition
	KindFileIO
	KindWrite
)

func (k ErrorKind) String() string {
	switch k {
	case KindConnectionClosed:
		return "connection closed"
	case KindRead:
		return "read error"
	case KindMalformedRequest:
		return "malformed request"
	case KindHandlerPrecondition:
		return "handler precondition"
	case KindFileIO:
		return "file I/O error"
	case KindWrite:
		return "write error"
	default:
		return fmt.Sprintf("unknown error kind: %d", int(k))
	}
}

// ConnError is returned when a connection is abandoned
type ConnError struct {
	Kind ErrorKind
	Err  error
}

func (e *ConnError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *ConnError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a connection error, and false if err is not one
func KindOf(err error) (ErrorKind, bool) {
	var ce *ConnError
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return 0, false
}

func readError(err error) *ConnError {
	switch {
	case errors.Is(err, request.ErrConnectionClosed):
		return &ConnError{Kind: KindConnectionClosed, Err: err}
	case errors.Is(err, request.ErrHeaderTooLarge),
		errors.Is(err, request.ErrBodyTooLarge),
		errors.Is(err, request.ErrInvalidContentLength):
		return &ConnError{Kind: KindMalformedRequest, Err: err}
	default:
		return &ConnError{Kind: KindRead, Err: err}
	}
}

func handlerError(err error) *ConnError {
	if errors.Is(err, filestore.ErrIO) {
		return &ConnError{Kind: KindFileIO, Err: err}
	}
	return &ConnError{Kind: KindHandlerPrecondition, Err: err}
}
