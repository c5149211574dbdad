package commands

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/postudio/postudio-terminal/internal/cli"
)

var clipboardTranslation bool

// NewClipboardCommand creates the copy command
func NewClipboardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copy <file> <index>",
		Short: "Copy an entry's source text to the clipboard",
		Long: `Copy the source text of the entry at index to the system clipboard,
or its translation with --translation.

Examples:
  postudio copy locale/tr.po 5
  postudio copy locale/tr.po 5 --translation`,
		Args:    cobra.ExactArgs(2),
		Aliases: []string{"clip", "clipboard"},
		RunE:    runClipboard,
	}

	cmd.Flags().BoolVar(&clipboardTranslation, "translation", false, "Copy the translation instead of the source")

	return cmd
}

func runClipboard(cmd *cobra.Command, args []string) error {
	index, err := cli.ParseIndex(args[1])
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
	entry, err := s.Entry(index)
	if err != nil {
		return err
	}

	content, what := entry.Source, "source"
	if clipboardTranslation {
		content, what = entry.Translation, "translation"
	}
	if err := clipboard.WriteAll(content); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}

	cli.PrintSuccess("Copied %s of entry %d to clipboard (%d characters)", what, index, len([]rune(content)))
	return nil
}
