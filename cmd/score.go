package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/fitscore/internal/ai"
	"github.com/spigell/fitscore/internal/ai/gemini"
	"github.com/spigell/fitscore/internal/ai/ollama"
	"github.com/spigell/fitscore/internal/extraction"
	"github.com/spigell/fitscore/internal/logger"
	"github.com/spigell/fitscore/internal/pipeline"
	"github.com/spigell/fitscore/internal/scoring"
	"github.com/spigell/fitscore/internal/secrets"
	"github.com/spigell/fitscore/internal/wikipedia"
)

const (
	profileSource = "wikipedia"
	// pickCandidates is the number of search results offered with --pick.
	pickCandidates = 5
)

// score is the main command for the cli.
func score(cmd *cobra.Command, name string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	base, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer base.Sync() //nolint:errcheck

	config, err := getConfig(viper.GetViper(), cfgFile)
	if err != nil {
		return err
	}

	base.Debug("starting with config", zap.Any("config", redacted(config)))

	table, err := buildTable(config)
	if err != nil {
		return err
	}

	completer, provider, err := newCompleter(ctx, config.Completion, base)
	if err != nil {
		return err
	}

	runLogger := logger.WithCommonFields(base, provider, completer.Model(), profileSource)

	pick, _ := cmd.Flags().GetBool("pick")
	source := newProfileSource(config, pick, runLogger)

	extractor := extraction.NewExtractor(completer, runLogger, config.Completion.MaxLogLength)
	extractor.DiagnosticsDir = config.DiagnosticsDir

	p := pipeline.New(source, extractor, table, runLogger)
	p.Timeout = config.Timeout

	scored, err := p.Run(ctx, name)
	if err != nil {
		return err
	}
	scored.Product = config.Product

	pretty, err := json.MarshalIndent(scored, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
	return err
}

func buildTable(config *Config) (*scoring.Table, error) {
	table, err := scoring.NewTable(scoring.DefaultWeights, scoring.Merge(scoring.BuiltinIndustries(), config.Industries))
	if err != nil {
		return nil, fmt.Errorf("industries: %w", err)
	}
	return table, nil
}

func newCompleter(ctx context.Context, cfg *CompletionConfig, logger *zap.Logger) (ai.Completer, string, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider == "" {
		provider = ai.ProviderOllama
	}

	switch provider {
	case ai.ProviderOllama:
		model := firstNonEmpty(cfg.Model, cfg.Ollama.Model)
		return ollama.New(logger, cfg.Ollama.URL, model), provider, nil
	case ai.ProviderGemini:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			File:  cfg.Gemini.APIKeyFile,
			Env:   "GEMINI_API_KEY",
			Value: cfg.Gemini.APIKey,
		})
		if err != nil {
			return nil, "", fmt.Errorf("%w (set completion.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
		}

		generator, err := gemini.NewGenerator(ctx, apiKey, firstNonEmpty(cfg.Model, cfg.Gemini.Model))
		if err != nil {
			return nil, "", err
		}
		return generator, provider, nil
	default:
		return nil, "", fmt.Errorf("unsupported completion provider: %s", cfg.Provider)
	}
}

func newProfileSource(config *Config, pick bool, logger *zap.Logger) *wikipedia.Client {
	opts := wikipedia.Options{
		APIURL:            config.Wikipedia.APIURL,
		UserAgent:         config.Wikipedia.UserAgent,
		Candidates:        config.Wikipedia.Candidates,
		RequestsPerSecond: config.Wikipedia.RequestsPerSecond,
		Timeout:           config.Timeout,
	}

	if pick {
		opts.Choose = pickPage
		if opts.Candidates < 2 {
			opts.Candidates = pickCandidates
		}
	}

	return wikipedia.New(logger, opts)
}

// pickPage asks the user which search result describes the company.
// The prompt is drawn on stderr so stdout only carries the result.
func pickPage(_ context.Context, query string, pages []wikipedia.Page) (wikipedia.Page, error) {
	items := make([]string, 0, len(pages))
	for _, page := range pages {
		label := page.Title
		if page.Description != "" {
			label = fmt.Sprintf("%s / %s", page.Title, page.Description)
		}
		items = append(items, label)
	}

	prompt := promptui.Select{
		Label:  fmt.Sprintf("Choose the article for %q", query),
		Items:  items,
		Stdout: os.Stderr,
	}

	i, _, err := prompt.Run()
	if err != nil {
		return wikipedia.Page{}, err
	}

	return pages[i], nil
}

// redacted returns a copy of the config that is safe to log.
func redacted(config *Config) Config {
	c := *config
	if c.Completion != nil && c.Completion.Gemini != nil && c.Completion.Gemini.APIKey != "" {
		completion := *c.Completion
		gem := *completion.Gemini
		gem.APIKey = "***"
		completion.Gemini = &gem
		c.Completion = &completion
	}
	return c
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
