package headers

import (
	"errors"
	"fmt"
	"strings"
)

// Separator splits a header line into name and value.
const Separator = ": "

var ErrMalformedHeader = errors.New("malformed header")

// Field is a single header line.
type Field struct {
	Name  string
	Value string
}

// Headers is an ordered list of header fields. Duplicates are kept in the
// order they were added.
type Headers struct {
	fields []Field
}

func NewHeaders() *Headers {
	return &Headers{
		fields: make([]Field, 0, 8),
	}
}

// Get returns the first value for a header (case-insensitive name)
func (h *Headers) Get(key string) (string, bool) {
	if h == nil {
		return "", false
	}
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, key) {
			return f.Value, true
		}
	}
	return "", false
}

// GetAll returns every value for a header, in order
func (h *Headers) GetAll(key string) []string {
	var values []string
	if h == nil {
		return values
	}
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, key) {
			values = append(values, f.Value)
		}
	}
	return values
}

// Has reports whether at least one field has the given name
func (h *Headers) Has(key string) bool {
	_, ok := h.Get(key)
	return ok
}

// Add appends a field without touching its name
func (h *Headers) Add(name, value string) {
	h.fields = append(h.fields, Field{Name: name, Value: value})
}

// Fields returns the fields in insertion order. The slice must not be modified.
func (h *Headers) Fields() []Field {
	if h == nil {
		return nil
	}
	return h.fields
}

func (h *Headers) Len() int {
	if h == nil {
		return 0
	}
	return len(h.fields)
}

// ParseLine parses a single "Name: Value" line. The name is lower-cased;
// the value is kept exactly as sent after the separator.
func ParseLine(line string) (Field, error) {
	name, value, ok := strings.Cut(line, Separator)
	if !ok {
		return Field{}, fmt.Errorf("%w: no %q in %q", ErrMalformedHeader, Separator, line)
	}
	return Field{Name: strings.ToLower(name), Value: value}, nil
}
