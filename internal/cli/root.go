package cli

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
)

// Assets are the embedded web files served by the serve command.
type Assets struct {
	Templates fs.FS
	Static    fs.FS
}

// NewRootCmd builds the command tree. Running it without a subcommand
// starts the web server.
func NewRootCmd(assets Assets) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "justdoit",
		Short: "Just Do It - a single-user task tracker",
		Long: `Just Do It keeps a list of tasks with a title, description and deadline.

Tasks are Pending until marked Completed. The web page is the main interface;
the subcommands give quick access from a terminal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, assets)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (default ./justdoit.yaml)")

	rootCmd.AddCommand(newServeCmd(assets))
	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newCompleteCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newExportCmd())

	return rootCmd
}

// Execute runs the root command
func Execute(assets Assets) error {
	if err := NewRootCmd(assets).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
