package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_KeepsDefaultsForMissingFields(t *testing.T) {
	path := writeConfig(t, `
listing:
  url: https://example.com/news
llm:
  base_url: http://127.0.0.1:1234/v1
db:
  dsn: /tmp/news.db
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Listing.URL != "https://example.com/news" {
		t.Errorf("Listing.URL = %q", cfg.Listing.URL)
	}
	if cfg.Listing.MaxArticles != 10 {
		t.Errorf("Listing.MaxArticles = %d, want 10", cfg.Listing.MaxArticles)
	}
	if cfg.Listing.MaxSnippetLength != 200 {
		t.Errorf("Listing.MaxSnippetLength = %d, want 200", cfg.Listing.MaxSnippetLength)
	}
	if cfg.LLM.MaxPromptBodyLength != 4000 {
		t.Errorf("LLM.MaxPromptBodyLength = %d, want 4000", cfg.LLM.MaxPromptBodyLength)
	}
	if cfg.LLM.Temperature != 0.7 || cfg.LLM.MaxTokens != 1000 {
		t.Errorf("LLM sampling = (%v, %d), want (0.7, 1000)", cfg.LLM.Temperature, cfg.LLM.MaxTokens)
	}
	if cfg.Fetch.Timeout != 10 {
		t.Errorf("Fetch.Timeout = %d, want 10", cfg.Fetch.Timeout)
	}
	if cfg.DB.Driver != "sqlite3" || cfg.DB.DSN != "/tmp/news.db" {
		t.Errorf("DB = %+v", cfg.DB)
	}
	if len(cfg.Listing.Rules.Title) != 2 {
		t.Errorf("Rules.Title = %v, want default fallback chain", cfg.Listing.Rules.Title)
	}
}

func TestLoadConfig_OverridesRules(t *testing.T) {
	path := writeConfig(t, `
listing:
  rules:
    container: li.story
    title: ["h2"]
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Listing.Rules.Container != "li.story" {
		t.Errorf("Container = %q", cfg.Listing.Rules.Container)
	}
	if len(cfg.Listing.Rules.Title) != 1 || cfg.Listing.Rules.Title[0] != "h2" {
		t.Errorf("Title = %v, want [h2]", cfg.Listing.Rules.Title)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv(EnvLLMBaseURL, "http://10.0.0.2:1234/v1")
	t.Setenv(EnvDBDSN, "override.db")
	path := writeConfig(t, "log:\n  level: debug\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.LLM.BaseURL != "http://10.0.0.2:1234/v1" {
		t.Errorf("LLM.BaseURL = %q", cfg.LLM.BaseURL)
	}
	if cfg.DB.DSN != "override.db" {
		t.Errorf("DB.DSN = %q", cfg.DB.DSN)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad driver":  "db:\n  driver: mysql\n",
		"bad format":  "listing:\n  format: json\n",
		"zero max":    "listing:\n  max_articles: -1\n",
		"broken yaml": "listing: [",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, content)); err == nil {
				t.Errorf("LoadConfig() error = nil, want error")
			}
		})
	}
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, fromFile, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if fromFile {
		t.Errorf("fromFile = true, want false")
	}
	if cfg.Listing.URL != Default().Listing.URL {
		t.Errorf("Listing.URL = %q", cfg.Listing.URL)
	}
}
