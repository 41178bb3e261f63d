package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestLoadConfig_Integration cria um arquivo de configuração temporário,
// define variáveis de ambiente e valida a ordem de precedência
func TestLoadConfig_Integration(t *testing.T) {
	// Propositalmente omite pipeline.batch_size para testar o default
	// e escreve classifier.model para tentar sobrescrever via env
	yamlContent := []byte(`
app:
  log_level: "warn"
  data_dir: "/tmp/datafog_data"

scanner:
  max_zip_entries: 500
  hash_blacklist:
    - "aabbcc"

classifier:
  enabled: true
  model: "gpt-4o"
  timeout: "5s"

pipeline:
  job_timeout: "45s"
`)

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "config_test.yaml")
	if err := os.WriteFile(tmpFile, yamlContent, 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	// classifier.model -> DATAFOG_CLASSIFIER_MODEL
	os.Setenv("DATAFOG_CLASSIFIER_MODEL", "gpt-4o-mini")
	defer os.Unsetenv("DATAFOG_CLASSIFIER_MODEL")

	// LoadConfig usa sync.Once: roda efetivamente uma vez por pacote de teste
	if err := LoadConfig(tmpFile); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	cfg := Get()

	// A: valores vindos do arquivo
	if cfg.App.LogLevel != "warn" {
		t.Errorf("Expected App.LogLevel 'warn', got '%s'", cfg.App.LogLevel)
	}
	if cfg.Scanner.MaxZipEntries != 500 {
		t.Errorf("Expected Scanner.MaxZipEntries 500, got %d", cfg.Scanner.MaxZipEntries)
	}

	// B: defaults para chaves omitidas
	if cfg.Pipeline.BatchSize != 3 {
		t.Errorf("Expected Pipeline.BatchSize default 3, got %d", cfg.Pipeline.BatchSize)
	}
	if cfg.Scanner.MaxCompressionRatio != 100.0 {
		t.Errorf("Expected Scanner.MaxCompressionRatio default 100, got %v", cfg.Scanner.MaxCompressionRatio)
	}

	// C: env sobrescreve o arquivo (Env > ConfigFile > Default)
	if cfg.Classifier.Model != "gpt-4o-mini" {
		t.Errorf("Environment variable override failed. Expected 'gpt-4o-mini', got '%s'", cfg.Classifier.Model)
	}

	// D: parsing de Duration
	if cfg.Pipeline.JobTimeout != 45*time.Second {
		t.Errorf("Duration parsing failed. Expected 45s, got %v", cfg.Pipeline.JobTimeout)
	}

	// E: slices aninhados
	if len(cfg.Scanner.HashBlacklist) != 1 || cfg.Scanner.HashBlacklist[0] != "aabbcc" {
		t.Errorf("Nested slice parsing failed. Got %v", cfg.Scanner.HashBlacklist)
	}
}
