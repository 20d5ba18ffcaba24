package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/fitscore/internal/ai"
	"github.com/spigell/fitscore/internal/scoring"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fitscore.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func TestGetConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	config, err := getConfig(newViper(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.Product != defaultProduct {
		t.Fatalf("unexpected product %q", config.Product)
	}
	if config.Timeout != defaultTimeout {
		t.Fatalf("unexpected timeout %s", config.Timeout)
	}
	if config.Completion.Provider != ai.ProviderOllama {
		t.Fatalf("unexpected provider %q", config.Completion.Provider)
	}
	if config.Completion.Ollama == nil || config.Completion.Gemini == nil || config.Wikipedia == nil {
		t.Fatalf("expected nested sections to be initialized: %+v", config)
	}
}

func TestGetConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
product: Marketing Cloud
timeout: 30s
diagnostics-dir: /tmp/fitscore
wikipedia:
  candidates: 3
  requests-per-second: 2.5
completion:
  provider: gemini
  max-log-length: 80
  gemini:
    api-key-file: /run/secrets/gemini
    model: gemini-2.5-pro
industries:
  automotive:
    weight-employee: 0.5
    weight-revenue: 0.3
    weight-industry: 0.2
    industry-score: 0.95
    max-employee-size: 400000
    max-revenue: 500000000000
  Space Launch:
    weight-employee: 0.1
    weight-revenue: 0.6
    weight-industry: 0.3
    industry-score: 0.4
    max-employee-size: 20000
    max-revenue: 20000000000
`)

	config, err := getConfig(newViper(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.Product != "Marketing Cloud" || config.Timeout != 30*time.Second || config.DiagnosticsDir != "/tmp/fitscore" {
		t.Fatalf("unexpected top level config: %+v", config)
	}
	if config.Wikipedia.Candidates != 3 || config.Wikipedia.RequestsPerSecond != 2.5 {
		t.Fatalf("unexpected wikipedia config: %+v", config.Wikipedia)
	}
	if config.Completion.Provider != "gemini" || config.Completion.MaxLogLength != 80 {
		t.Fatalf("unexpected completion config: %+v", config.Completion)
	}
	if config.Completion.Gemini.APIKeyFile != "/run/secrets/gemini" || config.Completion.Gemini.Model != "gemini-2.5-pro" {
		t.Fatalf("unexpected gemini config: %+v", config.Completion.Gemini)
	}

	table, err := buildTable(config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	automotive, ok := table.Lookup("Automotive")
	if !ok || automotive.IndustryScore != 0.95 || automotive.MaxEmployeeSize != 400_000 {
		t.Fatalf("expected automotive override, got %+v (known=%v)", automotive, ok)
	}

	space, ok := table.Lookup("space launch")
	if !ok || space.MaxRevenue != 20_000_000_000 {
		t.Fatalf("expected added industry, got %+v (known=%v)", space, ok)
	}

	if _, ok := table.Lookup("retail"); !ok {
		t.Fatalf("expected builtin industries to be kept")
	}
}

func TestGetConfigExplicitFileMissing(t *testing.T) {
	if _, err := getConfig(newViper(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestGetConfigRejectsNegativeTimeout(t *testing.T) {
	path := writeConfig(t, "timeout: -1s\n")
	if _, err := getConfig(newViper(), path); err == nil {
		t.Fatalf("expected error for negative timeout")
	}
}

func TestBuildTableRejectsNegativeOverride(t *testing.T) {
	path := writeConfig(t, `
industries:
  retail:
    weight-employee: -0.3
    weight-revenue: 0.4
    weight-industry: 0.3
    industry-score: 0.7
`)

	config, err := getConfig(newViper(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = buildTable(config)
	if err == nil || !strings.Contains(err.Error(), "weight-employee") {
		t.Fatalf("expected weight validation error, got %v", err)
	}
}

func TestNewCompleter(t *testing.T) {
	ctx := context.Background()

	completer, provider, err := newCompleter(ctx, &CompletionConfig{
		Provider: " Ollama ",
		Model:    "mistral",
		Ollama:   &OllamaConfig{Model: "llama3.1"},
		Gemini:   &GeminiConfig{},
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider != ai.ProviderOllama || completer.Model() != "mistral" {
		t.Fatalf("unexpected completer: provider=%s model=%s", provider, completer.Model())
	}

	_, _, err = newCompleter(ctx, &CompletionConfig{Provider: "openai", Ollama: &OllamaConfig{}, Gemini: &GeminiConfig{}}, zap.NewNop())
	if err == nil || !strings.Contains(err.Error(), "unsupported completion provider") {
		t.Fatalf("expected unsupported provider error, got %v", err)
	}

	t.Setenv("GEMINI_API_KEY", "")
	_, _, err = newCompleter(ctx, &CompletionConfig{Provider: "gemini", Ollama: &OllamaConfig{}, Gemini: &GeminiConfig{}}, zap.NewNop())
	if err == nil || !strings.Contains(err.Error(), "gemini api key is not configured") {
		t.Fatalf("expected missing api key error, got %v", err)
	}
}

func TestRedactedHidesAPIKey(t *testing.T) {
	config := &Config{Completion: &CompletionConfig{Gemini: &GeminiConfig{APIKey: "secret"}}}

	safe := redacted(config)
	if safe.Completion.Gemini.APIKey != "***" {
		t.Fatalf("expected api key to be hidden, got %q", safe.Completion.Gemini.APIKey)
	}
	if config.Completion.Gemini.APIKey != "secret" {
		t.Fatalf("input config must not be modified")
	}
}

func TestRenderIndustries(t *testing.T) {
	var out bytes.Buffer
	renderIndustries(&out, scoring.DefaultTable())

	rendered := out.String()
	for _, want := range []string{"automotive", "audio streaming/podcasting", "financial services", defaultRow, "100000000000000"} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("expected %q in rendered table:\n%s", want, rendered)
		}
	}
}

func TestRootRequiresCompanyName(t *testing.T) {
	for _, args := range [][]string{nil, {"  "}, {"Acme", "Corp"}} {
		err := rootCmd.Args(rootCmd, args)
		if ExitCode(err) != ExitUsage {
			t.Fatalf("expected usage error for %q, got %v", args, err)
		}
	}

	if err := rootCmd.Args(rootCmd, []string{"General Motors"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRootScoresCompanyNamedLikeSubcommand(t *testing.T) {
	found, _, err := rootCmd.Find([]string{"version"})
	if err != nil || found != versionCmd {
		t.Fatalf("expected version subcommand without separator (err: %v)", err)
	}

	found, args, err := rootCmd.Find([]string{"--", "version"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != rootCmd {
		t.Fatalf("expected root command after separator, got %s", found.Name())
	}
	if len(args) != 2 || args[1] != "version" {
		t.Fatalf("unexpected remaining args: %q", args)
	}

	if !strings.Contains(rootCmd.Long, `"--"`) {
		t.Fatalf("expected usage text to mention the separator")
	}
}
