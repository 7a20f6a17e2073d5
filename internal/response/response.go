package response

import (
	"github.com/Brownie44l1/http-server/internal/headers"
)

// StatusCode is one of the four statuses this server can produce.
type StatusCode int

const (
	StatusOK                  StatusCode = 200
	StatusCreated             StatusCode = 201
	StatusNotFound            StatusCode = 404
	StatusInternalServerError StatusCode = 500
)

// statusText maps status codes to reason phrases
var statusText = map[StatusCode]string{
	StatusOK:                  "OK",
	StatusCreated:             "Created",
	StatusNotFound:            "Not Found",
	StatusInternalServerError: "Internal Server Error",
}

// StatusText returns the reason phrase, or "" for a code outside the set
func StatusText(code StatusCode) string {
	return statusText[code]
}

func (code StatusCode) Valid() bool {
	_, ok := statusText[code]
	return ok
}

// Response is what a route produces: a status, extra headers in the order
// they should be written, and an optional body.
type Response struct {
	Status  StatusCode
	Headers []headers.Field
	Body    []byte
	HasBody bool
}

// Empty returns a response with no body section
func Empty(code StatusCode) Response {
	return Response{Status: code}
}

// Text returns a response whose body is framed as text/plain
func Text(code StatusCode, body string) Response {
	return Response{
		Status:  code,
		Body:    []byte(body),
		HasBody: true,
	}
}

// Bytes returns a response with an explicit Content-Type
func Bytes(code StatusCode, contentType string, data []byte) Response {
	return Response{
		Status:  code,
		Headers: []headers.Field{{Name: "Content-Type", Value: contentType}},
		Body:    data,
		HasBody: true,
	}
}

// WithHeader returns a copy of r with one more extra header appended
func (r Response) WithHeader(name, value string) Response {
	h := make([]headers.Field, len(r.Headers), len(r.Headers)+1)
	copy(h, r.Headers)
	r.Headers = append(h, headers.Field{Name: name, Value: value})
	return r
}
