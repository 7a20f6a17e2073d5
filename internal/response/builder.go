package response

import (
	"bytes"
	"slices"
	"strconv"
	"strings"

	"github.com/Brownie44l1/http-server/internal/headers"
	"github.com/Brownie44l1/http-server/internal/request"
)

const defaultContentType = "text/plain"

// recognizedEncodings are the codings echoed back in Content-Encoding.
var recognizedEncodings = map[string]bool{
	"gzip":    true,
	"deflate": true,
	"br":      true,
}

// NegotiateEncodings picks the Content-Encoding values to announce. The
// first accept-encoding header listing gzip wins; each of its tokens that is
// a recognized coding is returned in request order. Without gzip nothing is
// announced. The body is never transformed.
func NegotiateEncodings(h *headers.Headers) []string {
	for _, value := range h.GetAll("accept-encoding") {
		tokens := splitTokens(value)
		if !slices.Contains(tokens, "gzip") {
			continue
		}

		var out []string
		for _, tok := range tokens {
			if recognizedEncodings[tok] {
				out = append(out, tok)
			}
		}
		return out
	}
	return nil
}

// Build serializes res as a reply to req.
//
// Header order: negotiated Content-Encoding lines, then res.Headers verbatim,
// then Content-Type (unless res.Headers already set one) and Content-Length
// when there is a body.
func Build(req *request.Request, res Response) ([]byte, error) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	if err := w.WriteStatusLine(res.Status); err != nil {
		return nil, err
	}

	h := headers.NewHeaders()
	if req != nil {
		for _, enc := range NegotiateEncodings(req.Headers) {
			h.Add("Content-Encoding", enc)
		}
	}

	explicitType := false
	for _, f := range res.Headers {
		if strings.EqualFold(f.Name, "content-type") {
			explicitType = true
		}
		h.Add(f.Name, f.Value)
	}

	if res.HasBody {
		if !explicitType {
			h.Add("Content-Type", defaultContentType)
		}
		h.Add("Content-Length", strconv.Itoa(len(res.Body)))
	}

	if err := w.WriteHeaders(h); err != nil {
		return nil, err
	}

	if res.HasBody {
		if err := w.WriteBody(res.Body); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func splitTokens(value string) []string {
	parts := strings.Split(value, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		tokens = append(tokens, strings.ToLower(strings.TrimSpace(p)))
	}
	return tokens
}
