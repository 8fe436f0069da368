package cli

import (
	"sort"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
)

func modelsCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List configured models",
		Example: heredoc.Doc(`
			$ fulltext models
		`),
		Args: cobra.NoArgs,
		Annotations: map[string]string{
			"group": "core",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, cfg); err != nil {
				return err
			}

			registry, err := cfg.Registry()
			if err != nil {
				return err
			}

			report := [][]string{{"NAME", "TABLE", "SEARCH FIELDS", "RELATIONS"}}
			for _, name := range registry.Names() {
				manager, err := registry.Manager(name)
				if err != nil {
					return err
				}
				model := manager.Model()

				relations := make([]string, 0, len(model.Relations))
				for rel := range model.Relations {
					relations = append(relations, rel)
				}
				sort.Strings(relations)

				report = append(report, []string{
					name,
					model.Table,
					strings.Join(manager.Fields(), ","),
					strings.Join(relations, ","),
				})
			}
			printTable(cmd.OutOrStdout(), report)
			return nil
		},
	}
}
