package commands

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/postudio/postudio-terminal/internal/cli"
	"github.com/postudio/postudio-terminal/internal/i18n"
	"github.com/postudio/postudio-terminal/pkg/files"
	"github.com/postudio/postudio-terminal/pkg/models"
)

type settingField struct {
	get func(s *models.Settings) string
	set func(s *models.Settings, v string) error
}

var settingFields = map[string]settingField{
	"last_file": {
		get: func(s *models.Settings) string { return s.LastFile },
		set: func(s *models.Settings, v string) error { s.LastFile = v; return nil },
	},
	"theme": {
		get: func(s *models.Settings) string { return s.UI.Theme },
		set: func(s *models.Settings, v string) error {
			if err := cli.ValidateTheme(v); err != nil {
				return err
			}
			s.UI.Theme = v
			return nil
		},
	},
	"language": {
		get: func(s *models.Settings) string { return s.UI.Language },
		set: func(s *models.Settings, v string) error {
			if !cli.Contains(i18n.Languages(), v) {
				return fmt.Errorf("unsupported interface language: %s (available: %v)", v, i18n.Languages())
			}
			s.UI.Language = v
			return nil
		},
	},
	"provider": {
		get: func(s *models.Settings) string { return s.Translation.Provider },
		set: func(s *models.Settings, v string) error { s.Translation.Provider = v; return nil },
	},
	"source_lang": {
		get: func(s *models.Settings) string { return s.Translation.SourceLang },
		set: func(s *models.Settings, v string) error {
			if v != "" {
				if err := cli.ValidateLanguage(v); err != nil {
					return err
				}
			}
			s.Translation.SourceLang = v
			return nil
		},
	},
	"target_lang": {
		get: func(s *models.Settings) string { return s.Translation.TargetLang },
		set: func(s *models.Settings, v string) error {
			if err := cli.ValidateLanguage(v); err != nil {
				return err
			}
			s.Translation.TargetLang = v
			return nil
		},
	},
	"model": {
		get: func(s *models.Settings) string { return s.Translation.Model },
		set: func(s *models.Settings, v string) error { s.Translation.Model = v; return nil },
	},
	"base_url": {
		get: func(s *models.Settings) string { return s.Translation.BaseURL },
		set: func(s *models.Settings, v string) error { s.Translation.BaseURL = v; return nil },
	},
	"delay_ms": {
		get: func(s *models.Settings) string { return strconv.Itoa(s.Translation.DelayMS) },
		set: func(s *models.Settings, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return fmt.Errorf("invalid delay %q: must be a non-negative number of milliseconds", v)
			}
			s.Translation.DelayMS = n
			return nil
		},
	},
	"persist": {
		get: func(s *models.Settings) string { return s.Translation.Persist },
		set: func(s *models.Settings, v string) error {
			if err := cli.ValidatePersistMode(v); err != nil {
				return err
			}
			s.Translation.Persist = v
			return nil
		},
	},
	"on_error": {
		get: func(s *models.Settings) string { return s.Translation.OnError },
		set: func(s *models.Settings, v string) error {
			if err := cli.ValidateErrorPolicy(v); err != nil {
				return err
			}
			s.Translation.OnError = v
			return nil
		},
	},
	"cache": {
		get: func(s *models.Settings) string { return strconv.FormatBool(s.Translation.Cache) },
		set: func(s *models.Settings, v string) error {
			on, err := cli.ParseOnOff(v)
			if err != nil {
				return err
			}
			s.Translation.Cache = on
			return nil
		},
	},
}

// SettingKeys lists the keys accepted by the config command
func SettingKeys() []string {
	keys := make([]string, 0, len(settingFields))
	for k := range settingFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var configReset bool

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config [key] [value]",
		Short: "Show or change settings",
		Long: fmt.Sprintf(`Show all settings, print one value, or change one value.

Keys: %v

Examples:
  # Show all settings
  postudio config

  # Translate into German by default
  postudio config target_lang DE

  # Save after every entry during batch translation
  postudio config persist entry

  # Restore defaults
  postudio config --reset`, SettingKeys()),
		Args: cobra.MaximumNArgs(2),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				if _, ok := settingFields[args[0]]; !ok {
					return fmt.Errorf("unknown setting: %s (available: %v)", args[0], SettingKeys())
				}
			}
			return nil
		},
		RunE: runConfig,
	}

	cmd.Flags().BoolVar(&configReset, "reset", false, "Restore the default settings")

	return cmd
}

func runConfig(cmd *cobra.Command, args []string) error {
	cc, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	defer cc.Close()

	settings := cc.App.Settings

	switch {
	case configReset:
		ok, err := cli.Confirm("Restore default settings?", false)
		if err != nil {
			return err
		}
		if !ok {
			cli.PrintInfo("Settings unchanged")
			return nil
		}
		*settings = *models.DefaultSettings()
		if err := cc.App.SaveSettings(); err != nil {
			return err
		}
		cli.PrintSuccess("Settings reset to defaults")
		return nil

	case len(args) == 0:
		format := outputFormat(cmd)
		if format == string(cli.FormatText) {
			format = string(cli.FormatYAML)
		}
		return cli.OutputResults(cmd.OutOrStdout(), format, settings)

	case len(args) == 1:
		fmt.Fprintln(cmd.OutOrStdout(), settingFields[args[0]].get(settings))
		return nil
	}

	key, value := args[0], args[1]
	if err := settingFields[key].set(settings, value); err != nil {
		return err
	}
	if err := cc.App.SaveSettings(); err != nil {
		return err
	}

	if !cli.Quiet() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (saved to %s)\n", key, settingFields[key].get(settings), files.SettingsPath(cc.App.ConfigDir))
	}
	return nil
}
