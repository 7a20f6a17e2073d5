package request

import (
	"errors"
	"strings"
)

var ErrMalformedRequestLine = errors.New("malformed request line")

// parseRequestLine parses: METHOD PATH [VERSION]
// The version token is accepted as-is and dropped.
func parseRequestLine(line string) (method, path string, err error) {
	parts := strings.Fields(line)
	if len(parts) < 2 {
		return "", "", ErrMalformedRequestLine
	}
	return parts[0], parts[1], nil
}
