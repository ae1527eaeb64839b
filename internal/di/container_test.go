package di

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestContainerInitialize(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := "log_level: error\nhistory_db: " + filepath.Join(dir, "history.db") +
		"\nmetrics_file: " + filepath.Join(dir, "ajpbench.prom") + "\ntimeout: 3\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	c := NewContainer()
	if err := c.Initialize(configPath); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer c.Close()

	if c.Config.Timeout != 3 {
		t.Errorf("Timeout = %v, want 3", c.Config.Timeout)
	}
	if err := c.InitProbe(); err != nil {
		t.Fatalf("InitProbe() error = %v", err)
	}
	if c.ProbeService == nil || c.History == nil || c.Metrics == nil {
		t.Fatal("probe dependencies not built")
	}
	if c.Publisher != nil {
		t.Error("publisher built without publish_url")
	}

	if err := c.WriteMetrics(); err != nil {
		t.Fatalf("WriteMetrics() error = %v", err)
	}
	data, err := os.ReadFile(c.Config.MetricsFile)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "ajpbench_active_sessions") {
		t.Errorf("metrics file = %q", data)
	}
}

func TestInitProbeRequiresInitialize(t *testing.T) {
	if err := NewContainer().InitProbe(); err == nil {
		t.Error("InitProbe() before Initialize succeeded")
	}
}
