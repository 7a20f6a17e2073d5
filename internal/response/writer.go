package response

import (
	"fmt"
	"io"
	"strconv"

	"github.com/Brownie44l1/http-server/internal/headers"
)

// writerState tracks what's been written so far
type writerState int

const (
	stateStart writerState = iota
	stateStatusWritten
	stateHeadersWritten
	stateBodyWritten
)

// Writer writes an HTTP response to an io.Writer in order: status line,
// headers, body.
type Writer struct {
	w             io.Writer
	state         writerState
	statusCode    StatusCode
	contentLength int64 // -1 means no Content-Length was written
	hadError      bool
}

// NewWriter creates a new response writer
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:             w,
		state:         stateStart,
		contentLength: -1,
	}
}

// WriteStatusLine writes the HTTP status line
func (w *Writer) WriteStatusLine(code StatusCode) error {
	if w.state != stateStart {
		return fmt.Errorf("status line already written")
	}

	reason, ok := statusText[code]
	if !ok {
		return fmt.Errorf("unsupported status code: %d", code)
	}

	_, err := fmt.Fprintf(w.w, "HTTP/1.1 %d %s\r\n", code, reason)
	if err != nil {
		w.hadError = true
		return err
	}

	w.statusCode = code
	w.state = stateStatusWritten
	return nil
}

// WriteHeaders writes every header line in order followed by the blank line
func (w *Writer) WriteHeaders(h *headers.Headers) error {
	if w.state != stateStatusWritten {
		return fmt.Errorf("must write status line before headers")
	}

	for _, f := range h.Fields() {
		if _, err := fmt.Fprintf(w.w, "%s: %s\r\n", f.Name, f.Value); err != nil {
			w.hadError = true
			return err
		}
	}

	if cl, ok := h.Get("content-length"); ok {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil {
			w.contentLength = n
		}
	}

	if _, err := io.WriteString(w.w, "\r\n"); err != nil {
		w.hadError = true
		return err
	}

	w.state = stateHeadersWritten
	return nil
}

// WriteBody writes the complete response body
func (w *Writer) WriteBody(data []byte) error {
	if w.state != stateHeadersWritten {
		return fmt.Errorf("must write headers before body")
	}

	if w.contentLength >= 0 && int64(len(data)) != w.contentLength {
		return fmt.Errorf("body is %d bytes, Content-Length says %d", len(data), w.contentLength)
	}

	if len(data) > 0 {
		if _, err := w.w.Write(data); err != nil {
			w.hadError = true
			return err
		}
	}

	w.state = stateBodyWritten
	return nil
}

func (w *Writer) HadError() bool {
	return w.hadError
}

func (w *Writer) HasContentLength() bool {
	return w.contentLength >= 0
}

func (w *Writer) StatusCode() StatusCode {
	return w.statusCode
}
