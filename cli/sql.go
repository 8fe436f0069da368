package cli

import (
	"fmt"

	"github.com/MakeNowJust/heredoc"
	sq "github.com/Masterminds/squirrel"
	"github.com/goto/salt/term"
	"github.com/spf13/cobra"
)

func sqlCommand(cfg *Config) *cobra.Command {
	var (
		flags searchFlags
		count bool
	)

	cmd := &cobra.Command{
		Use:   "sql <model> <text>",
		Short: "Print the SQL of a search without running it",
		Example: heredoc.Doc(`
			$ fulltext sql articles "hobbits"
			$ fulltext sql articles "+hobbits" -f title,author__publisher__name --count
		`),
		Args: cobra.ExactArgs(2),
		Annotations: map[string]string{
			"group": "core",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, cfg); err != nil {
				return err
			}

			s, err := buildSearch(cfg, args[0], args[1], flags)
			if err != nil {
				return err
			}

			builder := s.Select()
			if count {
				builder = s.Count()
			}
			query, queryArgs, err := builder.PlaceholderFormat(sq.Question).ToSql()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, query)
			fmt.Fprintln(out, term.Greenf("args: %q", queryArgs))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&flags.fields, "fields", "f", nil, "fields to search, defaults to the model's search fields")
	cmd.Flags().StringVarP(&flags.mode, "mode", "m", "", "search mode")
	cmd.Flags().BoolVar(&count, "count", false, "print the count query instead")

	return cmd
}
