package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajpbench/ajpbench-go-client/internal/domain/model"
)

// requestFlags are the per-request switches shared by run and check
type requestFlags struct {
	timeout      float64
	method       string
	rounds       int
	httpVersion  string
	query        string
	headers      string
	bodyFile     string
	userAgent    string
	requestsFile string
}

// parsePairs parses "name:value\name:value". Only the first colon
// separates name from value, so values may contain colons.
func parsePairs(s string) ([]model.Header, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var pairs []model.Header
	for _, item := range strings.Split(s, `\`) {
		if strings.TrimSpace(item) == "" {
			continue
		}
		name, value, ok := strings.Cut(item, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, model.Configurationf("expected name:value, got %q", item)
		}
		pairs = append(pairs, model.Header{Name: name, Value: strings.TrimSpace(value)})
	}
	return pairs, nil
}

// applyConfig copies the explicitly set switches into config
func (f *requestFlags) applyConfig(config *model.Config, changed func(string) bool) {
	if changed("timeout") {
		config.Timeout = f.timeout
	}
	if changed("rounds") {
		config.Rounds = f.rounds
	}
	if changed("http-version") {
		config.HTTPVersion = f.httpVersion
	}
}

// requestSet builds the request set from the requests file and the URLs.
// Header and query switches apply to every request.
func (f *requestFlags) requestSet(urls []string, config *model.Config, load func(string, *model.Config) (*model.RequestSet, error)) (*model.RequestSet, error) {
	method := model.ParseMethod(f.method)
	if method == model.MethodGet && f.bodyFile != "" {
		return nil, model.Configurationf("--method GET cannot be combined with --body-file")
	}

	headers, err := parsePairs(f.headers)
	if err != nil {
		return nil, err
	}
	if f.userAgent != "" {
		headers = append(headers, model.Header{Name: "User-Agent", Value: f.userAgent})
	}
	query, err := parsePairs(f.query)
	if err != nil {
		return nil, err
	}

	set := model.NewRequestSet()
	if f.requestsFile != "" {
		if set, err = load(f.requestsFile, config); err != nil {
			return nil, err
		}
	}

	for _, rawURL := range urls {
		spec, err := model.NewRequestSpec(rawURL)
		if err != nil {
			return nil, err
		}
		spec.Method = method
		spec.Rounds = config.Rounds
		spec.HTTPVersion = config.HTTPVersion
		if f.bodyFile != "" {
			spec.Body = model.BodySource{Kind: model.BodyFile, Path: f.bodyFile}
		}
		set.Put(spec)
	}

	if set.Len() == 0 {
		return nil, model.Configurationf("at least one url or --requests-file is required")
	}

	for _, spec := range set.Specs() {
		for _, h := range headers {
			spec.Headers.Set(h.Name, h.Value)
		}
		for _, q := range query {
			spec.SetQueryParam(q.Name, q.Value)
		}
	}
	return set, nil
}

func addRequestFlags(cmd *cobra.Command, f *requestFlags) {
	cmd.Flags().Float64VarP(&f.timeout, "timeout", "T", 0, "Read timeout in seconds (0 waits forever)")
	cmd.Flags().StringVarP(&f.method, "method", "m", "GET", "HTTP method, GET or POST")
	cmd.Flags().StringVar(&f.httpVersion, "http-version", "1.1", "HTTP version, 1.0 or 1.1")
	cmd.Flags().StringVar(&f.query, "query", "", `Query parameters as name:value\name:value`)
	cmd.Flags().StringVarP(&f.headers, "headers", "H", "", `Request headers as name:value\name:value`)
	cmd.Flags().StringVar(&f.bodyFile, "body-file", "", "File sent as the POST body")
	cmd.Flags().StringVarP(&f.userAgent, "user-agent", "u", "", "User-Agent header")
	cmd.Flags().StringVarP(&f.requestsFile, "requests-file", "r", "", "YAML file describing the requests")
}
