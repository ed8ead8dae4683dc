package astroforge

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigDefaults(t *testing.T) {
	t.Setenv(ConfigEnv, "")
	conf, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if conf.FuelEfficiency != DefaultEfficiency || !conf.Detailed || conf.PopulationSize != 50 || conf.Generations != 100 || conf.TimeoutSeconds != 0 {
		t.Fatalf("unexpected defaults %+v", conf)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	toml := "[simulation]\nfuel_efficiency = 0.9\n\n[optimization]\npopulation_size = 24\n\n[general]\nlog_format = \"json\"\n"
	if err := os.WriteFile(filepath.Join(dir, "conf.toml"), []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigEnv, dir)
	conf, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if conf.FuelEfficiency != 0.9 || conf.PopulationSize != 24 || conf.Generations != 100 {
		t.Fatalf("file not applied over the defaults: %+v", conf)
	}
	var buf bytes.Buffer
	conf.NewLogger(&buf, "test").Log("level", "info", "msg", "hello")
	if !strings.Contains(buf.String(), `"subsys":"test"`) {
		t.Fatalf("expected a JSON log line, got %s", buf.String())
	}
}

func TestConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "conf.toml"), []byte("[simulation]\nfuel_efficiency = 1.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(dir); err == nil {
		t.Fatal("efficiency above one accepted")
	}
	if _, err := LoadConfig(filepath.Join(dir, "missing")); err == nil {
		t.Fatal("missing configuration directory accepted")
	}
}
