package cli

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/fulltext/core/validator"
	"github.com/goto/fulltext/internal/store/mysql"
	"github.com/goto/fulltext/pkg/statsd"
	"github.com/goto/fulltext/pkg/telemetry"
	"github.com/goto/salt/printer"
	"github.com/goto/salt/term"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

func searchCommand(cfg *Config) *cobra.Command {
	var (
		flags        searchFlags
		output       string
		size, offset int
		count        bool
	)

	cmd := &cobra.Command{
		Use:   "search <model> <text>",
		Short: "Run a full-text search over a model",
		Long: heredoc.Doc(`
			Run a full-text search over the fields of a configured model.

			Related fields are named with a double underscore, like
			author__name. Queries holding boolean operators run in boolean
			mode unless a mode is given.
		`),
		Example: heredoc.Doc(`
			$ fulltext search articles "hobbits"
			$ fulltext search articles "+dragons -rings" -f title,body
			$ fulltext search articles "tolkien" -f author__name --mode natural_language
			$ fulltext search articles "hobbits" --count
		`),
		Args: cobra.ExactArgs(2),
		Annotations: map[string]string{
			"group": "core",
		},
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if err := validator.ValidateOneOf(output, outputTable, outputJSON); err != nil {
				return err
			}
			if err := loadConfig(cmd, cfg); err != nil {
				return err
			}

			s, err := buildSearch(cfg, args[0], args[1], flags)
			if err != nil {
				return err
			}

			logger := initLogger(cfg.LogLevel, os.Stderr)
			cfg.Telemetry.AppVersion = Version
			cleanUp, err := telemetry.Init(cmd.Context(), cfg.Telemetry, logger)
			if err != nil {
				return err
			}
			defer cleanUp()

			ctx, span := telemetry.Tracer().Start(cmd.Context(), "fulltext.search")
			span.SetAttributes(
				attribute.String("fulltext.model", args[0]),
				attribute.String("fulltext.mode", s.Mode().String()),
				attribute.StringSlice("fulltext.columns", s.Columns()),
			)
			defer func() {
				if err != nil {
					span.RecordError(err)
					span.SetStatus(codes.Error, err.Error())
				}
				span.End()
			}()

			spinner := printer.Spin("")
			defer spinner.Stop()

			client, err := mysql.NewClient(ctx, cfg.DB)
			if err != nil {
				return fmt.Errorf("create mysql client: %w", err)
			}
			defer client.Close()

			reporter, err := statsd.Init(logger, cfg.StatsD)
			if err != nil {
				return err
			}
			defer reporter.Close()

			repository, err := mysql.NewSearchRepository(client, logger, reporter, cfg.Search.DefaultSize)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if count {
				total, err := repository.Count(ctx, s)
				if err != nil {
					return err
				}
				spinner.Stop()
				fmt.Fprintln(out, total)
				return nil
			}

			rows, err := repository.SearchMaps(ctx, s, mysql.Page{Size: size, Offset: offset})
			if err != nil {
				return err
			}

			spinner.Stop()
			if output == outputJSON {
				fmt.Fprintln(out, term.Bluef(prettyPrint(rows)))
				return nil
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, term.Yellow("No results found"))
				return nil
			}
			printTable(out, rowsReport(rows))
			fmt.Fprintln(out, term.Cyanf("To view all the data in JSON format, use flag `-o json`"))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&flags.fields, "fields", "f", nil, "fields to search, defaults to the model's search fields")
	cmd.Flags().StringVarP(&flags.mode, "mode", "m", "", "search mode: natural_language, boolean, query_expansion or natural_language_with_query_expansion")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table or json")
	cmd.Flags().IntVar(&size, "size", 0, "maximum number of rows")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of rows to skip")
	cmd.Flags().BoolVar(&count, "count", false, "print the number of matching rows only")

	return cmd
}
