package response

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brownie44l1/http-server/internal/headers"
	"github.com/Brownie44l1/http-server/internal/request"
)

func mustParse(t *testing.T, raw string) *request.Request {
	t.Helper()
	req, err := request.Parse([]byte(raw))
	require.NoError(t, err)
	return req
}

func TestWriterStatusLine(t *testing.T) {
	cases := map[StatusCode]string{
		StatusOK:                  "HTTP/1.1 200 OK\r\n",
		StatusCreated:             "HTTP/1.1 201 Created\r\n",
		StatusNotFound:            "HTTP/1.1 404 Not Found\r\n",
		StatusInternalServerError: "HTTP/1.1 500 Internal Server Error\r\n",
	}

	for code, want := range cases {
		buf := &bytes.Buffer{}
		w := NewWriter(buf)
		require.NoError(t, w.WriteStatusLine(code))
		assert.Equal(t, want, buf.String())
		assert.Equal(t, code, w.StatusCode())
	}

	// Test: Codes outside the closed set are rejected
	w := NewWriter(&bytes.Buffer{})
	err := w.WriteStatusLine(StatusCode(418))
	require.Error(t, err)
	assert.False(t, StatusCode(418).Valid())
	assert.Equal(t, "", StatusText(418))
}

func TestWriterHeadersKeepOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf)
	require.NoError(t, w.WriteStatusLine(StatusOK))

	h := headers.NewHeaders()
	h.Add("Content-Encoding", "gzip")
	h.Add("X-Custom", "1")
	h.Add("Content-Length", "0")
	require.NoError(t, w.WriteHeaders(h))

	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Encoding: gzip\r\nX-Custom: 1\r\nContent-Length: 0\r\n\r\n", buf.String())
	assert.True(t, w.HasContentLength())
}

func TestWriterStateValidation(t *testing.T) {
	// Test: Headers before status line
	w := NewWriter(&bytes.Buffer{})
	err := w.WriteHeaders(headers.NewHeaders())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status line")

	// Test: Body before headers
	w = NewWriter(&bytes.Buffer{})
	require.NoError(t, w.WriteStatusLine(StatusOK))
	err = w.WriteBody([]byte("x"))
	require.Error(t, err)

	// Test: Status line twice
	err = w.WriteStatusLine(StatusOK)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already written")

	// Test: Body length must agree with Content-Length
	w = NewWriter(&bytes.Buffer{})
	require.NoError(t, w.WriteStatusLine(StatusOK))
	h := headers.NewHeaders()
	h.Add("Content-Length", "3")
	require.NoError(t, w.WriteHeaders(h))
	assert.Error(t, w.WriteBody([]byte("four")))
}

func TestWriterRecordsWriteError(t *testing.T) {
	w := NewWriter(failingWriter{})
	err := w.WriteStatusLine(StatusOK)
	require.Error(t, err)
	assert.True(t, w.HadError())
}

func TestBuildEcho(t *testing.T) {
	req := mustParse(t, "GET /echo/abc123 HTTP/1.1\r\nHost: localhost:4221\r\n\r\n")
	out, err := Build(req, Text(StatusOK, "abc123"))

	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 6\r\n\r\nabc123", string(out))
}

func TestBuildNoBody(t *testing.T) {
	req := mustParse(t, "GET /does-not-exist HTTP/1.1\r\n\r\n")

	out, err := Build(req, Empty(StatusNotFound))
	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 404 Not Found\r\n\r\n", string(out))

	out, err = Build(req, Empty(StatusCreated))
	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 201 Created\r\n\r\n", string(out))

	out, err = Build(req, Empty(StatusInternalServerError))
	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 500 Internal Server Error\r\n\r\n", string(out))
}

func TestBuildEmptyBodyStillFramed(t *testing.T) {
	req := mustParse(t, "GET /echo/ HTTP/1.1\r\n\r\n")
	out, err := Build(req, Text(StatusOK, ""))

	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 0\r\n\r\n", string(out))
}

func TestBuildExplicitContentTypeWins(t *testing.T) {
	req := mustParse(t, "GET /files/a HTTP/1.1\r\n\r\n")
	out, err := Build(req, Bytes(StatusOK, "application/octet-stream", []byte("hello")))

	require.NoError(t, err)
	got := string(out)
	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Type: application/octet-stream\r\nContent-Length: 5\r\n\r\nhello", got)
	assert.Equal(t, 1, strings.Count(strings.ToLower(got), "content-type:"))
}

func TestBuildExtraHeadersAfterEncoding(t *testing.T) {
	req := mustParse(t, "GET /echo/x HTTP/1.1\r\nAccept-Encoding: gzip\r\n\r\n")
	res := Text(StatusOK, "x").WithHeader("X-Trace", "abc")

	out, err := Build(req, res)

	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 200 OK\r\n"+
		"Content-Encoding: gzip\r\n"+
		"X-Trace: abc\r\n"+
		"Content-Type: text/plain\r\n"+
		"Content-Length: 1\r\n"+
		"\r\n"+
		"x", string(out))
}

func TestNegotiateEncodings(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   []string
	}{
		{"gzip only", "Accept-Encoding: gzip", []string{"gzip"}},
		{"ordered", "Accept-Encoding: br, deflate, gzip", []string{"br", "deflate", "gzip"}},
		{"unknown dropped", "Accept-Encoding: invalid-1, gzip, invalid-2", []string{"gzip"}},
		{"case and spaces", "accept-encoding:  GZIP ,  Br", []string{"gzip", "br"}},
		{"no gzip", "Accept-Encoding: deflate, br", nil},
		{"gzip substring only", "Accept-Encoding: xgzip", nil},
		{"absent", "X-Other: gzip", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := mustParse(t, "GET / HTTP/1.1\r\n"+tc.header+"\r\n\r\n")
			assert.Equal(t, tc.want, NegotiateEncodings(req.Headers))
		})
	}

	// Test: First accept-encoding header that lists gzip is used
	req := mustParse(t, "GET / HTTP/1.1\r\nAccept-Encoding: br\r\nAccept-Encoding: deflate, gzip\r\n\r\n")
	assert.Equal(t, []string{"deflate", "gzip"}, NegotiateEncodings(req.Headers))
}

func TestBuildMultipleEncodingLines(t *testing.T) {
	req := mustParse(t, "GET /echo/abc HTTP/1.1\r\nAccept-Encoding: gzip, br\r\n\r\n")
	out, err := Build(req, Text(StatusOK, "abc"))

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out),
		"HTTP/1.1 200 OK\r\nContent-Encoding: gzip\r\nContent-Encoding: br\r\nContent-Type: text/plain\r\n"))
	// Body bytes are not transformed
	assert.True(t, strings.HasSuffix(string(out), "\r\n\r\nabc"))
}

func TestContentLengthMatchesBodyBytes(t *testing.T) {
	req := mustParse(t, "GET / HTTP/1.1\r\n\r\n")

	for _, body := range []string{"", "a", "Welcome to the home page!", "héllo wörld", "日本語", "🚀🚀"} {
		out, err := Build(req, Text(StatusOK, body))
		require.NoError(t, err)

		head, got, found := strings.Cut(string(out), "\r\n\r\n")
		require.True(t, found)
		assert.Equal(t, body, got)

		var cl string
		for _, line := range strings.Split(head, "\r\n") {
			if v, ok := strings.CutPrefix(line, "Content-Length: "); ok {
				cl = v
			}
		}
		assert.Equal(t, strconv.Itoa(len([]byte(body))), cl, "body %q", body)
	}
}

func TestBuildIdempotent(t *testing.T) {
	req := mustParse(t, "GET /user-agent HTTP/1.1\r\nUser-Agent: curl/7.83.1\r\nAccept-Encoding: gzip, deflate\r\n\r\n")
	res := Text(StatusOK, "curl/7.83.1")

	first, err := Build(req, res)
	require.NoError(t, err)
	second, err := Build(req, res)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuildRejectsUnknownStatus(t *testing.T) {
	_, err := Build(nil, Empty(StatusCode(302)))
	assert.Error(t, err)
}

func TestWithHeaderDoesNotAlias(t *testing.T) {
	base := Bytes(StatusOK, "application/octet-stream", nil)
	a := base.WithHeader("X-A", "1")
	b := base.WithHeader("X-B", "2")

	assert.Len(t, base.Headers, 1)
	assert.Equal(t, "X-A", a.Headers[1].Name)
	assert.Equal(t, "X-B", b.Headers[1].Name)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }
