package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/ajpbench/ajpbench-go-client/internal/domain/model"
)

// requestsFile mirrors the YAML requests file:
//
//	common:
//	  headers:
//	    - {name: X-Env, value: staging}
//	requests:
//	  - url: http://app.local/search
//	    get:
//	      query:
//	        - {name: q, value: ajp}
//	  - url: http://app.local/upload
//	    rounds: 3
//	    post:
//	      body_file: ./payload.json
//
// Headers and query parameters are lists so that their names keep their case.
type requestsFile struct {
	Common struct {
		Headers []model.Header `mapstructure:"headers"`
	} `mapstructure:"common"`
	Requests []requestEntry `mapstructure:"requests"`
}

type requestEntry struct {
	URL     string         `mapstructure:"url"`
	Method  string         `mapstructure:"method"`
	Headers []model.Header `mapstructure:"headers"`
	Rounds  int            `mapstructure:"rounds"`
	Post    *postEntry     `mapstructure:"post"`
	Get     *getEntry      `mapstructure:"get"`
}

type postEntry struct {
	BodyFile string         `mapstructure:"body_file"`
	Body     string         `mapstructure:"body"`
	Query    []model.Header `mapstructure:"query"`
}

type getEntry struct {
	Query []model.Header `mapstructure:"query"`
}

// LoadRequests reads a requests file into a RequestSet. Later entries with
// the same URL replace earlier ones. Common headers apply to every request
// and are overridden by the request's own headers. A post section takes
// precedence over a get section, and a body file over post query
// parameters.
func (r *ConfigRepository) LoadRequests(path string, config *model.Config) (*model.RequestSet, error) {
	if config == nil {
		config = model.NewConfig()
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, model.Configurationf("reading requests file: %v", err)
	}

	var file requestsFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, model.Configurationf("parsing requests file: %v", err)
	}

	set := model.NewRequestSet()
	for i, entry := range file.Requests {
		spec, err := entry.toSpec(file.Common.Headers, config)
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i+1, err)
		}
		set.Put(spec)
	}
	return set, nil
}

func (e requestEntry) toSpec(common []model.Header, config *model.Config) (*model.RequestSpec, error) {
	if strings.TrimSpace(e.URL) == "" {
		return nil, model.Configurationf("url is required")
	}
	spec, err := model.NewRequestSpec(strings.TrimSpace(e.URL))
	if err != nil {
		return nil, err
	}

	spec.HTTPVersion = config.HTTPVersion
	spec.Rounds = config.Rounds
	if e.Rounds > 0 {
		spec.Rounds = e.Rounds
	}
	if spec.Rounds < 1 {
		spec.Rounds = 1
	}

	for _, h := range common {
		spec.Headers.Set(h.Name, h.Value)
	}
	for _, h := range e.Headers {
		spec.Headers.Set(h.Name, h.Value)
	}

	if e.Method != "" {
		spec.Method = model.ParseMethod(e.Method)
	}

	switch {
	case e.Post != nil:
		spec.Method = model.MethodPost
		switch {
		case e.Post.BodyFile != "":
			spec.Body = model.BodySource{Kind: model.BodyFile, Path: e.Post.BodyFile}
		case e.Post.Body != "":
			spec.Body = model.BodySource{Kind: model.BodyInline, Data: []byte(e.Post.Body)}
		default:
			for _, q := range e.Post.Query {
				spec.SetQueryParam(q.Name, q.Value)
			}
		}
	case e.Get != nil:
		spec.Method = model.MethodGet
		for _, q := range e.Get.Query {
			spec.SetQueryParam(q.Name, q.Value)
		}
	}

	return spec, nil
}
