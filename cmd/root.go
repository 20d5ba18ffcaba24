package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/fitscore/internal/company"
)

const (
	app       = "fitscore"
	envPrefix = "FITSCORE"

	defaultProduct = "CRM suite"
	defaultTimeout = 2 * time.Minute
)

type Config struct {
	Product        string                     `mapstructure:"product"`
	Timeout        time.Duration              `mapstructure:"timeout"`
	DiagnosticsDir string                     `mapstructure:"diagnostics-dir"`
	Wikipedia      *WikipediaConfig           `mapstructure:"wikipedia"`
	Completion     *CompletionConfig          `mapstructure:"completion"`
	Industries     map[string]company.Weights `mapstructure:"industries"`
}

type WikipediaConfig struct {
	APIURL            string  `mapstructure:"api-url"`
	UserAgent         string  `mapstructure:"user-agent"`
	Candidates        int     `mapstructure:"candidates"`
	RequestsPerSecond float64 `mapstructure:"requests-per-second"`
}

type CompletionConfig struct {
	Provider     string        `mapstructure:"provider"`
	Model        string        `mapstructure:"model"`
	MaxLogLength int           `mapstructure:"max-log-length"`
	Ollama       *OllamaConfig `mapstructure:"ollama"`
	Gemini       *GeminiConfig `mapstructure:"gemini"`
}

type OllamaConfig struct {
	URL   string `mapstructure:"url"`
	Model string `mapstructure:"model"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app + " <company name>",
		Short: "fitscore estimates how well a company fits a product, using its Wikipedia profile and a language model",
		Long: `fitscore estimates how well a company fits a product, using its Wikipedia profile and a language model.

A company named like a subcommand (version, industries, help) must follow "--".`,
		Example: `  fitscore "General Motors"
  fitscore --pick --provider gemini Spotify
  fitscore -- Version`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
				return &usageError{msg: "exactly one company name is required"}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return score(cmd, args[0])
		},
	}
)

// Execute executes the root command and returns the process exit code.
func Execute() int {
	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return ExitOK
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	var usage *usageError
	if errors.As(err, &usage) {
		fmt.Fprint(os.Stderr, cmd.UsageString())
	}

	return ExitCode(err)
}

func init() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	setDefaults(viper.GetViper())

	// Well known variables of the backends win over the prefixed ones.
	mustBindEnv("completion.gemini.api-key-file", "GEMINI_API_KEY_FILE", "FITSCORE_COMPLETION_GEMINI_API_KEY_FILE")
	mustBindEnv("completion.ollama.url", "OLLAMA_HOST", "FITSCORE_COMPLETION_OLLAMA_URL")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is fitscore.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("provider", "", "completion provider: ollama or gemini")
	rootCmd.PersistentFlags().String("model", "", "completion model, overrides the provider specific setting")

	rootCmd.Flags().BoolP("pick", "p", false, "choose the Wikipedia article interactively")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("completion.provider", rootCmd.PersistentFlags().Lookup("provider"))
	viper.BindPFlag("completion.model", rootCmd.PersistentFlags().Lookup("model"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("product", defaultProduct)
	v.SetDefault("timeout", defaultTimeout)
	v.SetDefault("diagnostics-dir", "")
	v.SetDefault("wikipedia.api-url", "")
	v.SetDefault("wikipedia.user-agent", "")
	v.SetDefault("wikipedia.candidates", 1)
	v.SetDefault("wikipedia.requests-per-second", 0)
	v.SetDefault("completion.provider", "ollama")
	v.SetDefault("completion.model", "")
	v.SetDefault("completion.max-log-length", 200)
	v.SetDefault("completion.ollama.url", "")
	v.SetDefault("completion.ollama.model", "")
	v.SetDefault("completion.gemini.api-key", "")
	v.SetDefault("completion.gemini.api-key-file", "")
	v.SetDefault("completion.gemini.model", "")
}

func mustBindEnv(input ...string) {
	if err := viper.BindEnv(input...); err != nil {
		panic(fmt.Sprintf("binding %s environment variables: %v", input[0], err))
	}
}

// readConfig loads the config file. Without --config a missing fitscore.yaml is not an error.
func readConfig(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(app)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}

	return nil
}

func getConfig(v *viper.Viper, file string) (*Config, error) {
	if err := readConfig(v, file); err != nil {
		return nil, err
	}

	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if config.Wikipedia == nil {
		config.Wikipedia = &WikipediaConfig{}
	}
	if config.Completion == nil {
		config.Completion = &CompletionConfig{}
	}
	if config.Completion.Ollama == nil {
		config.Completion.Ollama = &OllamaConfig{}
	}
	if config.Completion.Gemini == nil {
		config.Completion.Gemini = &GeminiConfig{}
	}
	if config.Timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative: %s", config.Timeout)
	}

	return config, nil
}
