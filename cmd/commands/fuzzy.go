package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/postudio/postudio-terminal/internal/cli"
)

// NewFuzzyCommand creates the fuzzy command
func NewFuzzyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fuzzy <file> <index> <on|off>",
		Short: "Set or clear the fuzzy flag of an entry",
		Long: `Mark an entry as fuzzy (needs review) or clear the mark.

Setting a flag that is already set changes nothing.

Examples:
  postudio fuzzy locale/tr.po 2 on
  postudio fuzzy locale/tr.po 2 off`,
		Args: cobra.ExactArgs(3),
		RunE: runFuzzy,
	}

	return cmd
}

func runFuzzy(cmd *cobra.Command, args []string) error {
	index, err := cli.ParseIndex(args[1])
	if err != nil {
		return err
	}
	fuzzy, err := cli.ParseOnOff(args[2])
	if err != nil {
		return err
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
	if err := s.SetFuzzy(index, fuzzy); err != nil {
		return err
	}

	if !cli.Quiet() {
		state := "off"
		if fuzzy {
			state = "on"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Entry %d fuzzy: %s\n", index, state)
	}
	return nil
}
