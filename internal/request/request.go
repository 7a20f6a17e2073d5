package request

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/Brownie44l1/http-server/internal/headers"
)

// Request is a parsed HTTP request. It is built once per connection and
// never modified afterwards.
type Request struct {
	Method  string
	Path    string
	Headers *headers.Headers

	// Body holds the lines after the first blank line. HasBody is true
	// iff that blank line was present, even when Body is empty.
	Body    []byte
	HasBody bool
}

// Header returns the first value for the named header
func (r *Request) Header(name string) (string, bool) {
	return r.Headers.Get(name)
}

// ContentLength returns the Content-Length header value, or -1 if the
// header is absent or not a non-negative integer
func (r *Request) ContentLength() int64 {
	cl, ok := r.Headers.Get("content-length")
	if !ok {
		return -1
	}
	n, err := parseContentLength(cl)
	if err != nil {
		return -1
	}
	return n
}

func parseContentLength(value string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidContentLength, value)
	}
	return n, nil
}

// Parse turns raw request bytes into a Request. Trailing NUL padding is
// ignored. Lines end in "\n" with an optional preceding "\r". The lines
// after the first blank line are rejoined with "\r\n" to form the body; a
// final line terminator is not part of it.
func Parse(raw []byte) (*Request, error) {
	raw = bytes.TrimRight(raw, "\x00")

	line, rest, _ := nextLine(raw)
	method, path, err := parseRequestLine(line)
	if err != nil {
		return nil, err
	}

	req := &Request{
		Method:  method,
		Path:    path,
		Headers: headers.NewHeaders(),
	}

	for n := 1; len(rest) > 0; n++ {
		var terminated bool
		line, rest, terminated = nextLine(rest)
		if line == "" && terminated {
			req.Body = joinLines(rest)
			req.HasBody = true
			break
		}

		f, err := headers.ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("header line %d: %w", n, err)
		}
		req.Headers.Add(f.Name, f.Value)
	}

	return req, nil
}

// nextLine cuts the first line off data. terminated reports whether a "\n"
// was found.
func nextLine(data []byte) (line string, rest []byte, terminated bool) {
	before, after, found := bytes.Cut(data, []byte("\n"))
	return string(bytes.TrimSuffix(before, []byte("\r"))), after, found
}

func joinLines(data []byte) []byte {
	body := make([]byte, 0, len(data))
	for first := true; len(data) > 0; first = false {
		var line string
		line, data, _ = nextLine(data)
		if !first {
			body = append(body, "\r\n"...)
		}
		body = append(body, line...)
	}
	return body
}
