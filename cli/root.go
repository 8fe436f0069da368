package cli

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/goto/salt/cmdx"
	"github.com/spf13/cobra"
)

var envHelp = map[string]string{
	"short": "List of supported environment variables",
	"long": heredoc.Doc(`
		Every config key can be set from the environment. Keys are upper
		cased, prefixed with FULLTEXT_ and nested keys are joined with an
		underscore.

		FULLTEXT_LOG_LEVEL: debug, info, warn or error.

		FULLTEXT_DB_HOST, FULLTEXT_DB_PORT, FULLTEXT_DB_NAME,
		FULLTEXT_DB_USER, FULLTEXT_DB_PASSWORD: MySQL connection.

		FULLTEXT_SEARCH_DEFAULT_SIZE: page size when --size is not given.

		FULLTEXT_STATSD_ENABLED, FULLTEXT_STATSD_ADDRESS: statsd reporter.

		FULLTEXT_TELEMETRY_OPEN_TELEMETRY_ENABLED: export traces and metrics
		over OTLP.
	`),
}

func New(cfg *Config) *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:           "fulltext <command> <subcommand> [flags]",
		Short:         "MySQL full-text search",
		Long:          "Run MySQL and MariaDB full-text searches over configured models.",
		SilenceErrors: true,
		SilenceUsage:  true,
		Example: heredoc.Doc(`
		$ fulltext search articles "hobbits dragons"
		$ fulltext search articles "+hobbits -rings" --fields title,author__name
		$ fulltext sql articles "hobbits"
		$ fulltext models
		`),
		Annotations: map[string]string{
			"group": "core",
			"help:learn": heredoc.Doc(`
				Use 'fulltext <command> --help' for info about a command.
			`),
			"help:feedback": heredoc.Doc(`
				Open an issue here https://github.com/goto/fulltext/issues
			`),
		},
	}

	rootCmd.AddCommand(
		searchCommand(cfg),
		sqlCommand(cfg),
		modelsCommand(cfg),
		configCommand(cfg),
		versionCmd(),
	)

	// Help topics
	rootCmd.AddCommand(cmdx.SetCompletionCmd("fulltext"))
	rootCmd.AddCommand(cmdx.SetRefCmd(rootCmd))
	rootCmd.AddCommand(cmdx.SetHelpTopicCmd("environment", envHelp))
	cmdx.SetHelp(rootCmd)

	rootCmd.PersistentFlags().StringP(configFlag, "c", "", "Override config file")

	return rootCmd
}
