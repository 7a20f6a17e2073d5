package request

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/Brownie44l1/http-server/internal/headers"
)

const (
	DefaultMaxHeaderBytes = 1 << 20  // 1MB request line + headers
	DefaultMaxBodyBytes   = 10 << 20 // 10MB body
)

var (
	// ErrConnectionClosed means the peer closed the connection before
	// sending a single byte.
	ErrConnectionClosed     = errors.New("connection closed by peer")
	ErrHeaderTooLarge       = errors.New("headers too large")
	ErrBodyTooLarge         = errors.New("body too large")
	ErrInvalidContentLength = errors.New("invalid Content-Length")
)

// Limits bounds how much ReadFrom will buffer.
type Limits struct {
	MaxHeaderBytes int
	MaxBodyBytes   int64
}

func (l Limits) withDefaults() Limits {
	if l.MaxHeaderBytes <= 0 {
		l.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if l.MaxBodyBytes <= 0 {
		l.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return l
}

// ReadFrom reads one request's bytes from r. chunk is the scratch buffer
// used for each Read call; the returned slice is freshly allocated.
//
// Reading stops once the header block is complete and, when a
// Content-Length header is present, the whole body is buffered. If the peer
// closes early whatever was buffered is returned and left for Parse to judge.
func ReadFrom(r io.Reader, chunk []byte, limits Limits) ([]byte, error) {
	limits = limits.withDefaults()
	if len(chunk) == 0 {
		chunk = make([]byte, 4096)
	}

	buf := make([]byte, 0, len(chunk))
	for {
		end, err := frameEnd(buf, limits)
		if err != nil {
			return nil, err
		}
		if end >= 0 {
			return buf[:end], nil
		}

		n, err := r.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				if len(buf) == 0 {
					return nil, ErrConnectionClosed
				}
				return buf, nil
			}
			return nil, fmt.Errorf("read error: %w", err)
		}
	}
}

// frameEnd returns the length of the complete request held in buf, or -1
// if more bytes are needed.
func frameEnd(buf []byte, limits Limits) (int, error) {
	block, bodyStart := splitHeaderBlock(buf)
	if bodyStart < 0 {
		if len(buf) > limits.MaxHeaderBytes {
			return -1, ErrHeaderTooLarge
		}
		return -1, nil
	}
	if len(block) > limits.MaxHeaderBytes {
		return -1, ErrHeaderTooLarge
	}

	cl, err := contentLength(block)
	if err != nil {
		return -1, err
	}
	if cl < 0 {
		// No declared body: whatever already arrived is kept.
		return len(buf), nil
	}
	if cl > limits.MaxBodyBytes {
		return -1, ErrBodyTooLarge
	}

	end := bodyStart + int(cl)
	if len(buf) < end {
		return -1, nil
	}
	return end, nil
}

// splitHeaderBlock finds the first blank line, accepting "\r\n" and bare
// "\n" endings the way Parse does. It returns the bytes before it and the
// offset where the body starts, or -1 if no blank line is buffered yet.
func splitHeaderBlock(buf []byte) ([]byte, int) {
	for off := 0; ; {
		i := bytes.IndexByte(buf[off:], '\n')
		if i < 0 {
			return nil, -1
		}
		nl := off + i
		switch rest := buf[nl+1:]; {
		case bytes.HasPrefix(rest, []byte("\n")):
			return buf[:nl], nl + 2
		case bytes.HasPrefix(rest, []byte("\r\n")):
			return buf[:nl], nl + 3
		}
		off = nl + 1
	}
}

// contentLength scans a raw header block for Content-Length. It returns -1
// when the header is absent. Lines that are not valid headers are left for
// Parse to reject.
func contentLength(block []byte) (int64, error) {
	_, rest, _ := nextLine(block)
	for len(rest) > 0 {
		var line string
		line, rest, _ = nextLine(rest)
		f, err := headers.ParseLine(line)
		if err != nil || f.Name != "content-length" {
			continue
		}
		return parseContentLength(f.Value)
	}
	return -1, nil
}
