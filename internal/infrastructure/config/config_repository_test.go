package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ajpbench/ajpbench-go-client/internal/domain/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	repo := NewConfigRepository()
	config, err := repo.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(model.NewConfig(), config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, "config.yaml", `
timeout: 2.5
rounds: 4
http_version: "1.0"
log_level: debug
history_db: /tmp/history.db
publish_url: ws://collector/results
default_headers:
  user-agent: probe/2
  X-Team: ops
`)
	config, err := NewConfigRepository().Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := model.NewConfig()
	want.Timeout = 2.5
	want.Rounds = 4
	want.HTTPVersion = "1.0"
	want.LogLevel = model.LogLevelDebug
	want.HistoryDB = "/tmp/history.db"
	want.PublishURL = "ws://collector/results"
	want.DefaultHeaders["User-Agent"] = "probe/2"
	want.DefaultHeaders["X-Team"] = "ops"
	if diff := cmp.Diff(want, config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	repo := NewConfigRepository()

	config := model.NewConfig()
	config.Timeout = 1
	config.MetricsFile = "/var/lib/node_exporter/ajpbench.prom"
	if err := repo.Save(config, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	// a second save overwrites the existing file
	config.Rounds = 7
	if err := repo.Save(config, path); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	loaded, err := repo.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(config, loaded); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRequests(t *testing.T) {
	body := writeFile(t, "payload.json", `{"a":1}`)
	path := writeFile(t, "requests.yaml", `
common:
  headers:
    - {name: X-Env, value: staging}
    - {name: Accept, value: "*/*"}
requests:
  - url: http://app.local/search
    headers:
      - {name: Accept, value: text/html}
    get:
      query:
        - {name: Q, value: ajp}
  - url: http://app.local/form
    rounds: 3
    post:
      query:
        - {name: a, value: "1"}
  - url: http://app.local/upload
    post:
      body_file: `+body+`
      query:
        - {name: ignored, value: "x"}
    get:
      query:
        - {name: ignored, value: "y"}
`)

	config := model.NewConfig()
	config.Rounds = 2
	set, err := NewConfigRepository().LoadRequests(path, config)
	if err != nil {
		t.Fatalf("LoadRequests() error = %v", err)
	}
	if set.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", set.Len())
	}

	search, _ := set.Get("http://app.local/search")
	if search.Method != model.MethodGet || search.Rounds != 2 {
		t.Errorf("search = %s x%d", search.Method, search.Rounds)
	}
	if got := search.Query.Get("Q"); got != "ajp" {
		t.Errorf("search query Q = %q", got)
	}
	wantHeaders := []model.Header{{Name: "X-Env", Value: "staging"}, {Name: "Accept", Value: "text/html"}}
	if diff := cmp.Diff(wantHeaders, search.Headers.All()); diff != "" {
		t.Errorf("search headers mismatch (-want +got):\n%s", diff)
	}

	form, _ := set.Get("http://app.local/form")
	if form.Method != model.MethodPost || form.Rounds != 3 || string(form.FormBody()) != "a=1" {
		t.Errorf("form = %s x%d body %q", form.Method, form.Rounds, form.FormBody())
	}

	upload, _ := set.Get("http://app.local/upload")
	if upload.Method != model.MethodPost || upload.Body.Kind != model.BodyFile || upload.Body.Path != body {
		t.Errorf("upload = %s %+v", upload.Method, upload.Body)
	}
	if len(upload.Query) != 0 {
		t.Errorf("upload query = %v, want none", upload.Query)
	}
}

func TestLoadRequestsDuplicateURLReplaces(t *testing.T) {
	path := writeFile(t, "requests.yaml", `
requests:
  - url: http://app.local/
    rounds: 1
  - url: http://app.local/other
  - url: http://app.local/
    rounds: 5
`)
	set, err := NewConfigRepository().LoadRequests(path, nil)
	if err != nil {
		t.Fatalf("LoadRequests() error = %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", set.Len())
	}
	if first := set.Specs()[0]; first.Key() != "http://app.local/" || first.Rounds != 5 {
		t.Errorf("first spec = %s x%d", first.Key(), first.Rounds)
	}
}

func TestLoadRequestsMissingURL(t *testing.T) {
	path := writeFile(t, "requests.yaml", "requests:\n  - rounds: 2\n")
	if _, err := NewConfigRepository().LoadRequests(path, nil); err == nil {
		t.Error("LoadRequests() accepted a request without url")
	}
}
