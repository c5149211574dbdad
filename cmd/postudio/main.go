package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/postudio/postudio-terminal/cmd/commands"
	"github.com/postudio/postudio-terminal/internal/app"
	"github.com/postudio/postudio-terminal/internal/cli"
	"github.com/postudio/postudio-terminal/pkg/tui"
)

// Version is set during build with -ldflags
var version = "dev"

var (
	configDir    string
	quietFlag    bool
	noColorFlag  bool
	yesFlag      bool
	verboseFlag  bool
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "postudio [file]",
	Short: "Terminal editor and machine translator for gettext .po catalogs",
	Long: `postudio edits gettext .po catalogs in the terminal. Source texts and
translations are shown side by side; entries can be edited, flagged fuzzy and
machine-translated one at a time or all at once. Every change is saved to the
catalog immediately.

Without a file the last opened catalog is used; if none loads, a file picker
is shown.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cli.SetGlobalFlags(quietFlag, noColorFlag, yesFlag)
		cli.SetAppOptions(app.Options{ConfigDir: configDir, Verbose: verboseFlag})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := cli.NewCommandContext()
		if err != nil {
			return err
		}
		defer cc.Close()

		path, err := cc.ResolveFile(args)
		if err != nil {
			path = ""
		}

		if err := tui.Run(cc.App, path); err != nil {
			return fmt.Errorf("failed to start the terminal user interface: %w", err)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of postudio",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "postudio version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default: $POSTUDIO_CONFIG_DIR or the user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress informational output")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable coloured output")
	rootCmd.PersistentFlags().BoolVarP(&yesFlag, "yes", "y", false, "Answer yes to confirmations")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Write debug entries to the log file")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json or yaml")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(commands.NewListCommand())
	rootCmd.AddCommand(commands.NewTranslateCommand())
	rootCmd.AddCommand(commands.NewSetCommand())
	rootCmd.AddCommand(commands.NewFuzzyCommand())
	rootCmd.AddCommand(commands.NewClipboardCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		cli.PrintError("%v", err)
		os.Exit(1)
	}
}
