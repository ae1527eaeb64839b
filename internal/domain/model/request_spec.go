package model

import (
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Method is the HTTP method carried in the forward request
type Method string

const (
	// MethodGet is an HTTP GET
	MethodGet Method = "GET"
	// MethodPost is an HTTP POST
	MethodPost Method = "POST"
)

// ParseMethod converts a method name, defaulting to GET for anything other than POST
func ParseMethod(s string) Method {
	if strings.EqualFold(strings.TrimSpace(s), string(MethodPost)) {
		return MethodPost
	}
	return MethodGet
}

// BodyKind identifies where a request body comes from
type BodyKind string

const (
	// BodyNone sends no explicit body
	BodyNone BodyKind = ""
	// BodyInline sends the bytes held in BodySource.Data
	BodyInline BodyKind = "inline"
	// BodyFile sends the contents of BodySource.Path
	BodyFile BodyKind = "file"
	// BodyMultipart is a file upload body; it is rejected
	BodyMultipart BodyKind = "multipart"
)

// BodySource describes the request body of a POST
type BodySource struct {
	Kind BodyKind
	Data []byte
	Path string
}

// RequestSpec describes one logical request and how many rounds to run it.
// Its identity is its URL.
type RequestSpec struct {
	// URL is the target; scheme selects the TLS flag, host and port select the connector
	URL *url.URL
	// Method is GET or POST
	Method Method
	// Headers are the caller supplied headers
	Headers Headers
	// Query holds parameters merged into a GET URL or form-encoded into a POST body
	Query url.Values
	// Body is the explicit POST body
	Body BodySource
	// Rounds is the number of sequential request/response exchanges
	Rounds int
	// HTTPVersion is "1.0" or "1.1"; it only affects the protocol string
	HTTPVersion string
}

// NewRequestSpec creates a GET spec with a single round for rawURL
func NewRequestSpec(rawURL string) (*RequestSpec, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, Configurationf("invalid url %q: %v", rawURL, err)
	}
	return &RequestSpec{
		URL:    u,
		Method: MethodGet,
		Query:  url.Values{},
		Rounds: 1,
	}, nil
}

// Key returns the identity of the spec
func (s *RequestSpec) Key() string {
	if s.URL == nil {
		return ""
	}
	return s.URL.String()
}

// IsSecure reports whether the URL uses the secure scheme
func (s *RequestSpec) IsSecure() bool {
	return s.URL != nil && strings.EqualFold(s.URL.Scheme, "https")
}

// Protocol returns the protocol string sent in the forward request
func (s *RequestSpec) Protocol() string {
	if s.HTTPVersion == "1.0" || s.HTTPVersion == "1" {
		return "HTTP/1.0"
	}
	return "HTTP/1.1"
}

// Endpoint returns the connector address. A missing port or the scheme's
// default port selects DefaultAJPPort.
func (s *RequestSpec) Endpoint() Endpoint {
	port, _ := strconv.Atoi(s.URL.Port())
	if port <= 0 || port == s.ServerPort() {
		port = DefaultAJPPort
	}
	return Endpoint{Host: s.URL.Hostname(), Port: port, Secure: s.IsSecure()}
}

// ServerPort returns the scheme's default port, which is what the forward
// request advertises as server port
func (s *RequestSpec) ServerPort() int {
	if s.IsSecure() {
		return 443
	}
	return 80
}

// SetQueryParam sets a query parameter, replacing any previous value
func (s *RequestSpec) SetQueryParam(name, value string) {
	if s.Query == nil {
		s.Query = url.Values{}
	}
	s.Query.Set(name, value)
}

// ResolveQuery merges the query parameters into the URL of a GET whose URL
// has no query of its own. It is idempotent.
func (s *RequestSpec) ResolveQuery() {
	if s.Method != MethodGet || len(s.Query) == 0 || s.URL.RawQuery != "" {
		return
	}
	s.URL.RawQuery = s.Query.Encode()
}

// FormBody returns the url-encoded query parameters sent as the body of a
// POST without an explicit body source
func (s *RequestSpec) FormBody() []byte {
	return []byte(s.Query.Encode())
}

// ApplyDefaults adds each default header that is not already set, in
// name order
func (s *RequestSpec) ApplyDefaults(defaults map[string]string) {
	names := make([]string, 0, len(defaults))
	for name := range defaults {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.Headers.SetIfAbsent(name, defaults[name])
	}
}

// Clone returns a deep copy so a session can mutate it freely
func (s *RequestSpec) Clone() *RequestSpec {
	c := *s
	if s.URL != nil {
		u := *s.URL
		c.URL = &u
	}
	c.Headers = s.Headers.Clone()
	c.Query = url.Values{}
	for k, v := range s.Query {
		c.Query[k] = append([]string(nil), v...)
	}
	if s.Body.Data != nil {
		c.Body.Data = append([]byte(nil), s.Body.Data...)
	}
	return &c
}

// Validate rejects specs that cannot be sent. All errors wrap ErrConfiguration.
func (s *RequestSpec) Validate() error {
	if s.URL == nil || s.URL.Hostname() == "" {
		return Configurationf("request url has no host")
	}
	switch strings.ToLower(s.URL.Scheme) {
	case "http", "https":
	default:
		return Configurationf("unsupported scheme %q in %s", s.URL.Scheme, s.Key())
	}
	if s.Method != MethodGet && s.Method != MethodPost {
		return Configurationf("unsupported method %q", s.Method)
	}
	if s.Rounds < 1 {
		return Configurationf("rounds must be at least 1, got %d", s.Rounds)
	}
	switch s.HTTPVersion {
	case "", "1", "1.0", "1.1":
	default:
		return Configurationf("unsupported http version %q", s.HTTPVersion)
	}
	if s.Method == MethodGet && s.Body.Kind != BodyNone {
		return Configurationf("GET request to %s cannot carry a body", s.Key())
	}
	switch s.Body.Kind {
	case BodyNone, BodyInline:
	case BodyFile:
		if s.Body.Path == "" {
			return Configurationf("body file path is empty")
		}
		info, err := os.Stat(s.Body.Path)
		if err != nil {
			return Configurationf("body file: %v", err)
		}
		if info.IsDir() {
			return Configurationf("body file %s is a directory", s.Body.Path)
		}
	case BodyMultipart:
		return Configurationf("multipart bodies are not supported")
	default:
		return Configurationf("unsupported body source %q", s.Body.Kind)
	}
	return nil
}
