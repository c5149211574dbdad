package commands

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/postudio/postudio-terminal/internal/cli"
	"github.com/postudio/postudio-terminal/pkg/models"
	"github.com/postudio/postudio-terminal/pkg/search"
)

// ListResult represents the output structure for list command
type ListResult struct {
	File    string       `json:"file" yaml:"file"`
	Stats   models.Stats `json:"stats" yaml:"stats"`
	Entries []ListItem   `json:"entries" yaml:"entries"`
	Count   int          `json:"count" yaml:"count"`
}

// ListItem represents a single entry in the list
type ListItem struct {
	Index       int    `json:"index" yaml:"index"`
	Status      string `json:"status" yaml:"status"`
	Context     string `json:"context,omitempty" yaml:"context,omitempty"`
	Source      string `json:"source" yaml:"source"`
	Translation string `json:"translation" yaml:"translation"`
}

var (
	listOnlyFuzzy    bool
	listUntranslated bool
	listQuery        string
)

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [file]",
		Short: "List the entries of a catalog",
		Long: `List every entry of a .po catalog with its index and status.

Indices are the positions used by the set, fuzzy, copy and translate
commands. Without a file the last opened catalog is used.

Examples:
  # List all entries
  postudio list locale/tr.po

  # Only fuzzy entries
  postudio list locale/tr.po --fuzzy

  # Search: fields status, source, translation, context, flag, ref
  postudio list locale/tr.po --search 'save NOT status:fuzzy'

  # JSON output
  postudio list locale/tr.po -o json`,
		Args:    cobra.MaximumNArgs(1),
		Aliases: []string{"ls"},
		RunE:    runList,
	}

	cmd.Flags().BoolVar(&listOnlyFuzzy, "fuzzy", false, "Show only fuzzy entries")
	cmd.Flags().BoolVar(&listUntranslated, "untranslated", false, "Show only untranslated entries")
	cmd.Flags().StringVarP(&listQuery, "search", "s", "", "Show only entries matching a search query")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	format := outputFormat(cmd)
	if err := cli.ValidateOutputFormat(format); err != nil {
		return err
	}

	cc, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	defer cc.Close()

	s, err := cc.LoadStore(args)
	if err != nil {
		return err
	}

	entries := s.Entries()
	matches, err := search.Filter(entries, listQuery)
	if err != nil {
		return err
	}

	result := ListResult{File: s.Path(), Stats: s.Stats()}
	for _, i := range matches {
		e := entries[i]
		status := e.Status()
		if listOnlyFuzzy && status != models.StatusFuzzy {
			continue
		}
		if listUntranslated && status != models.StatusUntranslated {
			continue
		}
		result.Entries = append(result.Entries, ListItem{
			Index:       i,
			Status:      status,
			Context:     e.Context,
			Source:      e.Source,
			Translation: e.Translation,
		})
	}
	result.Count = len(result.Entries)

	switch format {
	case "json", "yaml":
		return cli.OutputResults(cmd.OutOrStdout(), format, result)
	default:
		return printListTable(cmd, result)
	}
}

func printListTable(cmd *cobra.Command, result ListResult) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d/%d translated, %d fuzzy\n\n",
		filepath.Base(result.File), result.Stats.Translated, result.Stats.Total, result.Stats.Fuzzy)

	if result.Count == 0 {
		fmt.Fprintln(out, "No entries found")
		return nil
	}

	table := cli.NewTableFormatter(out)
	table.Header("INDEX", "STATUS", "SOURCE", "TRANSLATION")
	for _, item := range result.Entries {
		table.Row(
			strconv.Itoa(item.Index),
			cli.ColorizeStatus(item.Status),
			cli.TruncateString(item.Source, 40),
			cli.TruncateString(item.Translation, 40),
		)
	}
	table.Flush()
	return nil
}

// outputFormat reads the persistent --output flag, defaulting to text.
func outputFormat(cmd *cobra.Command) string {
	format, err := cmd.Flags().GetString("output")
	if err != nil || format == "" {
		return string(cli.FormatText)
	}
	return format
}
