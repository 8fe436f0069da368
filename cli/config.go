package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/fulltext/core/fulltext"
	"github.com/goto/fulltext/internal/store/mysql"
	"github.com/goto/fulltext/pkg/statsd"
	"github.com/goto/fulltext/pkg/telemetry"
	"github.com/goto/salt/cmdx"
	"github.com/goto/salt/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

const (
	appName    = "fulltext"
	configFlag = "config"
)

func configCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config <command>",
		Short: "Manage fulltext configuration",
		Example: heredoc.Doc(`
			$ fulltext config init
			$ fulltext config list`),
	}

	cmd.AddCommand(configInitCommand())
	cmd.AddCommand(configListCommand(cfg))

	return cmd
}

func configInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new configuration file",
		Example: heredoc.Doc(`
			$ fulltext config init
		`),
		Annotations: map[string]string{
			"group": "core",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cmdx.SetConfig(appName)

			if err := cfg.Init(&Config{}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "config created: %v\n", cfg.File())
			return nil
		},
	}
}

func configListCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configuration settings",
		Example: heredoc.Doc(`
			$ fulltext config list
		`),
		Annotations: map[string]string{
			"group": "core",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, cfg); err != nil {
				return err
			}
			return yaml.NewEncoder(cmd.OutOrStdout()).Encode(*cfg)
		},
	}
}

type SearchConfig struct {
	// DefaultSize is the page size used when a search sets none
	DefaultSize int `yaml:"default_size" mapstructure:"default_size" default:"20"`
}

type Config struct {
	// Log
	LogLevel string `yaml:"log_level" mapstructure:"log_level" default:"info"`

	// StatsD
	StatsD statsd.Config `yaml:"statsd" mapstructure:"statsd"`

	// OpenTelemetry
	Telemetry telemetry.Config `yaml:"telemetry" mapstructure:"telemetry"`

	// Database
	DB mysql.Config `yaml:"db" mapstructure:"db"`

	// Search
	Search SearchConfig `yaml:"search" mapstructure:"search"`

	// Models searchable by name
	Models map[string]fulltext.Definition `yaml:"models" mapstructure:"models"`
}

// Registry links the configured models. The config loader lower cases every
// map key, so model and field names are matched in lower case.
func (c *Config) Registry() (*fulltext.Registry, error) {
	if len(c.Models) == 0 {
		return nil, ErrNoModels
	}
	return fulltext.NewRegistry(lowerModelNames(c.Models))
}

func lowerModelNames(defs map[string]fulltext.Definition) map[string]fulltext.Definition {
	lowered := make(map[string]fulltext.Definition, len(defs))
	for name, def := range defs {
		fields := make(map[string]string, len(def.Fields))
		for field, column := range def.Fields {
			fields[strings.ToLower(field)] = column
		}

		searchFields := make([]string, 0, len(def.SearchFields))
		for _, field := range def.SearchFields {
			searchFields = append(searchFields, strings.ToLower(field))
		}

		relations := make(map[string]fulltext.RelationDefinition, len(def.Relations))
		for rel, relDef := range def.Relations {
			relDef.Model = strings.ToLower(relDef.Model)
			relations[strings.ToLower(rel)] = relDef
		}

		lowered[strings.ToLower(name)] = fulltext.Definition{
			Table:        def.Table,
			Fields:       fields,
			SearchFields: searchFields,
			Relations:    relations,
		}
	}
	return lowered
}

func LoadConfig() (*Config, error) {
	var cfg Config
	err := cmdx.SetConfig(appName).Load(&cfg)
	if err != nil {
		if errors.As(err, &config.ConfigFileNotFoundError{}) {
			return LoadFromCurrentDir()
		}
		return &cfg, err
	}
	return &cfg, nil
}

func LoadFromCurrentDir() (*Config, error) {
	var cfg Config
	var opts []config.LoaderOption

	opts = append(opts,
		config.WithPath("./"),
		config.WithName("fulltext.yaml"),
		config.WithEnvKeyReplacer(".", "_"),
		config.WithEnvPrefix("FULLTEXT"),
	)

	if err := config.NewLoader(opts...).Load(&cfg); err != nil {
		if errors.As(err, &config.ConfigFileNotFoundError{}) {
			return &cfg, ErrConfigNotFound
		}
		return &cfg, err
	}
	return &cfg, nil
}

func LoadConfigFromFlag(cfgFile string, cfg *Config) error {
	var opts []config.LoaderOption
	opts = append(opts,
		config.WithFile(cfgFile),
		config.WithEnvKeyReplacer(".", "_"),
		config.WithEnvPrefix("FULLTEXT"),
	)

	return config.NewLoader(opts...).Load(cfg)
}

// loadConfig replaces cfg with the file given by the config flag, if any
func loadConfig(cmd *cobra.Command, cfg *Config) error {
	cfgFile, err := cmd.Flags().GetString(configFlag)
	if err != nil || cfgFile == "" {
		return nil
	}

	loaded := Config{}
	if err := LoadConfigFromFlag(cfgFile, &loaded); err != nil {
		return fmt.Errorf("load config %q: %w", cfgFile, err)
	}
	*cfg = loaded
	return nil
}
