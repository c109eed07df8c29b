package config

import (
	"os"
	"path/filepath"
	"testing"
)

type fakeFS struct {
	files  map[string]string
	envs   map[string]map[string]string
	lookup []string
}

func (f *fakeFS) Exists(path string) bool {
	f.lookup = append(f.lookup, path)
	if _, ok := f.files[path]; ok {
		return true
	}
	_, ok := f.envs[path]
	return ok
}

func (f *fakeFS) LoadEnv(path string) error {
	for k, v := range f.envs[path] {
		os.Setenv(k, v)
	}
	return nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: insurance-ai
environment: staging
ai:
  primary: ollama-local
  providers:
    - name: ollama-local
      type: ollama
      model: llama3
`)

	var cfg Config
	if err := Load("insurance-ai", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Name != "insurance-ai" {
		t.Errorf("expected name from YAML, got %q", cfg.Name)
	}
	if cfg.Environment != "staging" {
		t.Errorf("expected staging, got %q", cfg.Environment)
	}
	if len(cfg.AI.Providers) != 1 || cfg.AI.Providers[0].Model != "llama3" {
		t.Errorf("unexpected providers: %+v", cfg.AI.Providers)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: insurance-ai
ai:
  primary: ollama-local
`)
	t.Setenv("AI_PRIMARY", "openai")

	var cfg Config
	if err := Load("insurance-ai", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.AI.Primary != "openai" {
		t.Errorf("expected env var to override YAML, got %q", cfg.AI.Primary)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	fs := &fakeFS{
		envs: map[string]map[string]string{
			"./.env": {"ENVIRONMENT": "production"},
		},
	}
	t.Cleanup(func() { os.Unsetenv("ENVIRONMENT") })

	var cfg Config
	if err := Load("insurance-ai", &cfg, WithFileSystem(fs)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Environment != "production" {
		t.Errorf("expected environment from .env, got %q", cfg.Environment)
	}
}

func TestLoad_SearchesStandardPaths(t *testing.T) {
	fs := &fakeFS{}

	var cfg Config
	if err := Load("insurance-ai", &cfg, WithFileSystem(fs)); err != nil {
		t.Fatalf("expected no error with no files present, got %v", err)
	}

	sawServicePath := false
	for _, path := range fs.lookup {
		if path == "./cmd/insurance-ai/config.yml" {
			sawServicePath = true
		}
	}
	if !sawServicePath {
		t.Errorf("expected the service config path probed, probed: %v", fs.lookup)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	variants := envKeyVariants("AI_PRIMARY_PROVIDER")

	want := map[string]bool{
		"ai_primary_provider": false,
		"ai.primary.provider": false,
		"ai.primary_provider": false,
	}
	for _, v := range variants {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for k, seen := range want {
		if !seen {
			t.Errorf("expected variant %q, got %v", k, variants)
		}
	}

	if got := envKeyVariants("DEBUG"); len(got) != 1 || got[0] != "debug" {
		t.Errorf("expected single-word key passthrough, got %v", got)
	}
}

func TestDedupe(t *testing.T) {
	got := dedupe([]string{"a", "b", "a", "c", "b"})
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("expected [a b c], got %v", got)
	}
}
