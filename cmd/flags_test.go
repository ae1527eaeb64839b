package cmd

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ajpbench/ajpbench-go-client/internal/domain/model"
)

func TestParsePairs(t *testing.T) {
	got, err := parsePairs(`Accept:text/html\X-Url: http://a:8080/\`)
	if err != nil {
		t.Fatalf("parsePairs() error = %v", err)
	}
	want := []model.Header{{Name: "Accept", Value: "text/html"}, {Name: "X-Url", Value: "http://a:8080/"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("pairs mismatch (-want +got):\n%s", diff)
	}

	if _, err := parsePairs("novalue"); !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("parsePairs(novalue) error = %v, want ErrConfiguration", err)
	}
	if got, err := parsePairs(""); got != nil || err != nil {
		t.Errorf("parsePairs(\"\") = %v, %v", got, err)
	}
}

func noRequestsFile(string, *model.Config) (*model.RequestSet, error) {
	return nil, errors.New("unexpected requests file")
}

func TestRequestSetFromFlags(t *testing.T) {
	f := requestFlags{
		method:    "post",
		headers:   `X-A:1`,
		query:     `q:ajp`,
		userAgent: "probe/1",
	}
	config := model.NewConfig()
	config.Rounds = 3
	config.HTTPVersion = "1.0"

	set, err := f.requestSet([]string{"http://a/", "http://b/", "http://a/"}, config, noRequestsFile)
	if err != nil {
		t.Fatalf("requestSet() error = %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", set.Len())
	}
	spec, _ := set.Get("http://a/")
	if spec.Method != model.MethodPost || spec.Rounds != 3 || spec.HTTPVersion != "1.0" {
		t.Errorf("spec = %s x%d %s", spec.Method, spec.Rounds, spec.HTTPVersion)
	}
	if ua, _ := spec.Headers.Get("user-agent"); ua != "probe/1" {
		t.Errorf("User-Agent = %q", ua)
	}
	if string(spec.FormBody()) != "q=ajp" {
		t.Errorf("FormBody() = %q", spec.FormBody())
	}
}

func TestRequestSetRejectsGetWithBodyFile(t *testing.T) {
	f := requestFlags{method: "GET", bodyFile: "/tmp/body"}
	_, err := f.requestSet([]string{"http://a/"}, model.NewConfig(), noRequestsFile)
	if !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("requestSet() error = %v, want ErrConfiguration", err)
	}
}

func TestRequestSetNeedsAURL(t *testing.T) {
	f := requestFlags{method: "GET"}
	if _, err := f.requestSet(nil, model.NewConfig(), noRequestsFile); !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("requestSet() error = %v, want ErrConfiguration", err)
	}
}

func TestRequestSetMergesRequestsFile(t *testing.T) {
	fromFile := func(path string, config *model.Config) (*model.RequestSet, error) {
		set := model.NewRequestSet()
		spec, _ := model.NewRequestSpec("http://file/")
		set.Put(spec)
		return set, nil
	}
	f := requestFlags{method: "GET", requestsFile: "requests.yaml", headers: "X-Run:7"}
	set, err := f.requestSet([]string{"http://cli/"}, model.NewConfig(), fromFile)
	if err != nil {
		t.Fatalf("requestSet() error = %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", set.Len())
	}
	for _, spec := range set.Specs() {
		if v, _ := spec.Headers.Get("X-Run"); v != "7" {
			t.Errorf("%s X-Run = %q", spec.Key(), v)
		}
	}
}

func TestApplyConfig(t *testing.T) {
	f := requestFlags{timeout: 2, rounds: 5, httpVersion: "1.0"}
	config := model.NewConfig()
	f.applyConfig(config, func(name string) bool { return name == "timeout" })
	if config.Timeout != 2 || config.Rounds != 1 || config.HTTPVersion != "1.1" {
		t.Errorf("config = %+v", config)
	}
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		in      string
		want    model.Endpoint
		wantErr bool
	}{
		{"localhost", model.Endpoint{Host: "localhost", Port: 8009}, false},
		{"app:8010", model.Endpoint{Host: "app", Port: 8010}, false},
		{"[::1]:9009", model.Endpoint{Host: "::1", Port: 9009}, false},
		{"app:http", model.Endpoint{}, true},
	}
	for _, tt := range tests {
		got, err := parseEndpoint(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseEndpoint(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("parseEndpoint(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
