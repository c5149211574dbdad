package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/postudio/postudio-terminal/internal/cli"
)

var (
	setFromStdin bool
	setClearFuzzy bool
)

// NewSetCommand creates the set command
func NewSetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <file> <index> [text]",
		Short: "Set the translation of an entry",
		Long: `Replace the translation of the entry at index and save the catalog.

The fuzzy flag is left as it is, like saving an edit in the editor. Pass
--clear-fuzzy to mark the entry as reviewed in the same step. Use --stdin to
read multi-line text from standard input.

Examples:
  # Set entry 0
  postudio set locale/tr.po 0 "Merhaba"

  # Set entry 2 and clear its fuzzy flag
  postudio set locale/tr.po 2 "Hoşça kal" --clear-fuzzy

  # Read the text from a file
  postudio set locale/tr.po 3 --stdin < greeting.txt`,
		Args: func(cmd *cobra.Command, args []string) error {
			if setFromStdin {
				return cobra.ExactArgs(2)(cmd, args)
			}
			return cobra.ExactArgs(3)(cmd, args)
		},
		RunE: runSet,
	}

	cmd.Flags().BoolVar(&setFromStdin, "stdin", false, "Read the translation from standard input")
	cmd.Flags().BoolVar(&setClearFuzzy, "clear-fuzzy", false, "Also clear the fuzzy flag")

	return cmd
}

func runSet(cmd *cobra.Command, args []string) error {
	index, err := cli.ParseIndex(args[1])
	if err != nil {
		return err
	}

	var text string
	if setFromStdin {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read standard input: %w", err)
		}
		text = strings.TrimRight(string(data), "\n")
	} else {
		text = args[2]
	}

	cc, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	defer cc.Close()

	s, err := cc.LoadStore(args[:1])
	if err != nil {
		return err
	}

	if err := s.SetTranslation(index, text); err != nil {
		return err
	}
	if setClearFuzzy {
		if err := s.SetFuzzy(index, false); err != nil {
			return err
		}
	}

	if !cli.Quiet() {
		fmt.Fprintf(cmd.OutOrStdout(), "Entry %d updated\n", index)
	}
	return nil
}
