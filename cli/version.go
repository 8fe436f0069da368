package cli

import (
	"fmt"

	"github.com/goto/salt/term"
	"github.com/goto/salt/version"
	"github.com/spf13/cobra"
)

// Version of the current build. overridden by the build system.
// see "Makefile" for more information
var (
	Version string
)

// VersionCmd prints the version of the binary
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if Version == "" {
				fmt.Fprintln(out, term.Yellow("Version information not available"))
				return nil
			}

			fmt.Fprintf(out, "fulltext version %s\n", Version)
			fmt.Fprintln(out, term.Yellow(version.UpdateNotice(Version, "goto/fulltext")))
			return nil
		},
	}
}
