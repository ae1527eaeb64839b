package model

import "strings"

// Header is a single request header
type Header struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Headers is an insertion-ordered header map. Names are compared
// case-insensitively and the last write wins.
type Headers struct {
	entries []Header
}

// NewHeaders creates a Headers from a plain map
func NewHeaders(values map[string]string) Headers {
	var h Headers
	for name, value := range values {
		h.Set(name, value)
	}
	return h
}

func (h *Headers) index(name string) int {
	for i, e := range h.entries {
		if strings.EqualFold(e.Name, name) {
			return i
		}
	}
	return -1
}

// Set adds or replaces a header
func (h *Headers) Set(name, value string) {
	if i := h.index(name); i >= 0 {
		h.entries[i] = Header{Name: name, Value: value}
		return
	}
	h.entries = append(h.entries, Header{Name: name, Value: value})
}

// SetIfAbsent adds a header only when no header with the same name exists.
// It reports whether the header was added.
func (h *Headers) SetIfAbsent(name, value string) bool {
	if h.index(name) >= 0 {
		return false
	}
	h.entries = append(h.entries, Header{Name: name, Value: value})
	return true
}

// Get returns the value of a header
func (h *Headers) Get(name string) (string, bool) {
	if i := h.index(name); i >= 0 {
		return h.entries[i].Value, true
	}
	return "", false
}

// Has reports whether a header is present
func (h *Headers) Has(name string) bool {
	return h.index(name) >= 0
}

// Del removes a header
func (h *Headers) Del(name string) {
	if i := h.index(name); i >= 0 {
		h.entries = append(h.entries[:i], h.entries[i+1:]...)
	}
}

// Len returns the number of headers
func (h *Headers) Len() int {
	return len(h.entries)
}

// All returns a copy of the headers in insertion order
func (h *Headers) All() []Header {
	out := make([]Header, len(h.entries))
	copy(out, h.entries)
	return out
}

// Clone returns an independent copy
func (h *Headers) Clone() Headers {
	return Headers{entries: h.All()}
}
