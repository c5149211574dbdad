package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/postudio/postudio-terminal/internal/cli"
	"github.com/postudio/postudio-terminal/pkg/store"
	"github.com/postudio/postudio-terminal/pkg/translate"
)

// TranslateResult is the machine readable summary of a translate run
type TranslateResult struct {
	File       string          `json:"file" yaml:"file"`
	Total      int             `json:"total" yaml:"total"`
	Skipped    int             `json:"skipped" yaml:"skipped"`
	Translated []int           `json:"translated" yaml:"translated"`
	Incomplete []int           `json:"incomplete" yaml:"incomplete"`
	Failures   []FailureResult `json:"failures,omitempty" yaml:"failures,omitempty"`
	Cancelled  bool            `json:"cancelled,omitempty" yaml:"cancelled,omitempty"`
}

type FailureResult struct {
	Index int    `json:"index" yaml:"index"`
	Error string `json:"error" yaml:"error"`
}

var (
	translateIndex     int
	translateOnlyFuzzy bool
	translateOnError   string
	translatePersist   string
	translateTarget    string
	translateProvider  string
)

// NewTranslateCommand creates the translate command
func NewTranslateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate [file]",
		Short: "Machine-translate one entry or the whole catalog",
		Long: `Translate catalog entries with the configured provider.

With --index only that entry is translated. Otherwise every entry is
translated in order, or only the fuzzy ones with --only-fuzzy. Entries
translated before a failure keep their new text; the entries left
untouched are reported and the command exits with an error.

--on-error stop      end the pass at the first failure (default)
--on-error continue  skip failing entries and keep going
--persist batch      save once when the pass ends (default)
--persist entry      save after every translated entry

Ctrl+C stops the pass between entries; what was translated is saved.

Examples:
  # Translate everything
  postudio translate locale/tr.po

  # Re-translate fuzzy entries, saving after each one
  postudio translate locale/tr.po --only-fuzzy --persist entry

  # Translate entry 4 into German with OpenAI
  postudio translate locale/de.po --index 4 --target DE --provider openai`,
		Args: cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("on-error") {
				if err := cli.ValidateErrorPolicy(translateOnError); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("persist") {
				if err := cli.ValidatePersistMode(translatePersist); err != nil {
					return err
				}
			}
			if translateTarget != "" {
				if err := cli.ValidateLanguage(translateTarget); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("index") && translateIndex < 0 {
				return fmt.Errorf("invalid index %d: must not be negative", translateIndex)
			}
			return cli.ValidateOutputFormat(outputFormat(cmd))
		},
		RunE: runTranslate,
	}

	cmd.Flags().IntVar(&translateIndex, "index", -1, "Translate only the entry at this index")
	cmd.Flags().BoolVar(&translateOnlyFuzzy, "only-fuzzy", false, "Translate only fuzzy entries")
	cmd.Flags().StringVar(&translateOnError, "on-error", "", "Failure policy: stop or continue (default from settings)")
	cmd.Flags().StringVar(&translatePersist, "persist", "", "Save granularity: batch or entry (default from settings)")
	cmd.Flags().StringVar(&translateTarget, "target", "", "Target language, e.g. TR or de (default from settings)")
	cmd.Flags().StringVar(&translateProvider, "provider", "", "Translation provider (default from settings)")

	return cmd
}

func runTranslate(cmd *cobra.Command, args []string) error {
	cc, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	defer cc.Close()

	// Flags override settings for this run only.
	ts := &cc.App.Settings.Translation
	if translateOnError != "" {
		ts.OnError = translateOnError
	}
	if translatePersist != "" {
		ts.Persist = translatePersist
	}
	if translateTarget != "" {
		ts.TargetLang = translateTarget
	}
	if translateProvider != "" {
		ts.Provider = translateProvider
	}

	s, err := cc.LoadStore(args)
	if err != nil {
		return err
	}
	fn, err := cc.App.TranslateFunc()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if cmd.Flags().Changed("index") {
		return translateEntry(ctx, cmd, s, fn)
	}
	return translateCatalog(ctx, cmd, s, fn)
}

func translateEntry(ctx context.Context, cmd *cobra.Command, s *store.Store, fn translate.Func) error {
	text, err := s.TranslateOne(ctx, translateIndex, fn)
	if err != nil {
		return err
	}

	format := outputFormat(cmd)
	if format != string(cli.FormatText) {
		return cli.OutputResults(cmd.OutOrStdout(), format, TranslateResult{
			File:       s.Path(),
			Total:      1,
			Translated: []int{translateIndex},
			Incomplete: []int{},
		})
	}
	if !cli.Quiet() {
		fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", translateIndex, text)
	}
	return nil
}

func translateCatalog(ctx context.Context, cmd *cobra.Command, s *store.Store, fn translate.Func) error {
	total := s.Len()
	if translateOnlyFuzzy {
		total = s.Stats().Fuzzy
	}

	var barOut io.Writer = cmd.ErrOrStderr()
	if cli.Quiet() {
		barOut = io.Discard
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(barOut),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", filepath.Base(s.Path()))),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	counted := func(ctx context.Context, text string) (string, error) {
		out, err := fn(ctx, text)
		bar.Add(1)
		return out, err
	}

	res, err := s.TranslateAll(ctx, counted, translateOnlyFuzzy)
	bar.Finish()
	fmt.Fprintln(barOut)

	result := TranslateResult{
		File:       s.Path(),
		Total:      res.Total,
		Skipped:    res.Skipped,
		Translated: append([]int{}, res.Translated...),
		Incomplete: append([]int{}, res.Incomplete...),
		Cancelled:  res.Cancelled,
	}
	for _, f := range res.Failures {
		result.Failures = append(result.Failures, FailureResult{Index: f.Index, Error: f.Err.Error()})
	}

	format := outputFormat(cmd)
	if format != string(cli.FormatText) {
		if outErr := cli.OutputResults(cmd.OutOrStdout(), format, result); outErr != nil {
			return outErr
		}
	} else if !cli.Quiet() {
		fmt.Fprintf(cmd.OutOrStdout(), "Translated %d of %d entries in %s\n",
			len(res.Translated), res.Total, filepath.Base(s.Path()))
		if res.Skipped > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Skipped %d entries that are not fuzzy\n", res.Skipped)
		}
	}

	var be *store.BatchError
	if errors.As(err, &be) {
		for _, f := range res.Failures {
			cli.PrintWarning("entry %d: %v", f.Index, f.Err)
		}
		if res.Cancelled {
			cli.PrintWarning("interrupted, %d entries left untouched", len(res.Incomplete))
		}
	}
	return err
}
