package server

import (
	"errors"
	"time"

	"github.com/Brownie44l1/http-server/internal/request"
)

// Config is built once at startup and shared read-only by every connection.
type Config struct {
	Addr string

	// Directory is the root for /files/. Empty means the working directory.
	Directory string

	// Zero disables the deadline.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	MaxHeaderBytes int
	MaxBodyBytes   int64

	// ReadBufferSize is the size of each socket read.
	ReadBufferSize int
}

func DefaultConfig() Config {
	return Config{
		Addr:           ":4221",
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: request.DefaultMaxHeaderBytes,
		MaxBodyBytes:   request.DefaultMaxBodyBytes,
		ReadBufferSize: 4096,
	}
}

func (c Config) Validate() error {
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return errors.New("timeouts must not be negative")
	}
	if c.MaxHeaderBytes < 0 || c.MaxBodyBytes < 0 {
		return errors.New("size limits must not be negative")
	}
	if c.ReadBufferSize < 0 {
		return errors.New("read buffer size must not be negative")
	}
	return nil
}

func (c Config) limits() request.Limits {
	return request.Limits{
		MaxHeaderBytes: c.MaxHeaderBytes,
		MaxBodyBytes:   c.MaxBodyBytes,
	}
}
