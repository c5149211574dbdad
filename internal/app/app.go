// Package app wires settings, logging, messages and the translation provider
// into one Context that is built in main and passed down explicitly.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/postudio/postudio-terminal/internal/i18n"
	"github.com/postudio/postudio-terminal/internal/logger"
	"github.com/postudio/postudio-terminal/pkg/files"
	"github.com/postudio/postudio-terminal/pkg/models"
	"github.com/postudio/postudio-terminal/pkg/store"
	"github.com/postudio/postudio-terminal/pkg/translate"
	"github.com/rs/zerolog"
)

// Options configure New.
type Options struct {
	// ConfigDir overrides the configuration directory.
	ConfigDir string
	Verbose   bool
	// Registry defaults to translate.DefaultRegistry().
	Registry *translate.Registry
	// DisableLogFile sends logs nowhere (tests).
	DisableLogFile bool
}

type Context struct {
	ConfigDir string
	Settings  *models.Settings
	Log       *logger.Logger
	Messages  *i18n.Messages

	registry   *translate.Registry
	translator translate.Translator
	cache      *translate.Cache
}

// New loads .env, settings and messages and opens the log file.
func New(opts Options) (*Context, error) {
	dir, err := files.ConfigDir(opts.ConfigDir)
	if err != nil {
		return nil, err
	}

	// .env files are optional; real environment variables win.
	for _, env := range []string{files.EnvFile, filepath.Join(dir, files.EnvFile)} {
		_ = godotenv.Load(env)
	}

	settings, err := files.ReadSettings(dir)
	if err != nil {
		return nil, err
	}

	log := logger.Nop()
	if !opts.DisableLogFile {
		level := zerolog.InfoLevel
		if opts.Verbose {
			level = zerolog.DebugLevel
		}
		if log, err = logger.NewFile(filepath.Join(dir, files.LogFile), level); err != nil {
			return nil, err
		}
	}

	messages, err := i18n.New(settings.UI.Language)
	if err != nil {
		log.Close()
		return nil, err
	}

	registry := opts.Registry
	if registry == nil {
		registry = translate.DefaultRegistry()
	}

	log.Debug("app", "context ready", logger.Fields{
		"config_dir": dir,
		"provider":   settings.Translation.Provider,
	})

	return &Context{
		ConfigDir: dir,
		Settings:  settings,
		Log:       log,
		Messages:  messages,
		registry:  registry,
	}, nil
}

// T renders an interface message.
func (c *Context) T(id string, data map[string]interface{}) string {
	return c.Messages.T(id, data)
}

// Translator returns the configured provider, built on first use and wrapped
// with the cache and throttle when enabled.
func (c *Context) Translator() (translate.Translator, error) {
	if c.translator != nil {
		return c.translator, nil
	}

	ts := c.Settings.Translation
	cfg := translate.Config{
		Provider:   ts.Provider,
		SourceLang: ts.SourceLang,
		Model:      ts.Model,
		BaseURL:    ts.BaseURL,
	}
	switch ts.Provider {
	case translate.ProviderDeepL:
		cfg.APIKey = os.Getenv(translate.DeepLKeyEnv)
	case translate.ProviderOpenAI:
		cfg.APIKey = os.Getenv(translate.OpenAIKeyEnv)
	}

	t, err := c.registry.New(cfg)
	if err != nil {
		c.Log.Error("app", err, logger.Fields{"provider": ts.Provider})
		return nil, err
	}

	if ts.Cache {
		cache, err := translate.OpenCache(filepath.Join(c.ConfigDir, files.CacheFile))
		if err != nil {
			c.Log.Warning("app", "translation cache disabled", logger.Fields{"error": err.Error()})
		} else {
			c.cache = cache
			t = translate.Cached(t, cache, ts.SourceLang)
		}
	}
	t = translate.Throttled(t, time.Duration(ts.DelayMS)*time.Millisecond)

	c.translator = t
	return t, nil
}

// SetTranslator replaces the provider, mostly for tests.
func (c *Context) SetTranslator(t translate.Translator) {
	c.translator = t
}

// TranslateFunc binds the provider to the configured target language and
// logs every call.
func (c *Context) TranslateFunc() (translate.Func, error) {
	t, err := c.Translator()
	if err != nil {
		return nil, err
	}
	target := c.Settings.Translation.TargetLang
	if _, err := translate.ParseLanguage(target); err != nil {
		return nil, err
	}
	bound := translate.Bind(t, target)
	return func(ctx context.Context, text string) (string, error) {
		start := time.Now()
		out, err := bound(ctx, text)
		if err != nil {
			c.Log.Error("translate", err, logger.Fields{"provider": t.Name(), "target": target})
			return "", err
		}
		c.Log.Debug("translate", "entry translated", logger.Fields{
			"provider": t.Name(),
			"target":   target,
			"elapsed":  time.Since(start).String(),
		})
		return out, nil
	}, nil
}

// StoreOptions maps settings onto store options.
func (c *Context) StoreOptions() store.Options {
	return store.Options{
		OnError: c.Settings.Translation.OnError,
		Persist: c.Settings.Translation.Persist,
	}
}

// OpenStore loads path, remembers it as the last file and logs the outcome.
func (c *Context) OpenStore(path string) (*store.Store, error) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	s, err := store.Load(path, c.StoreOptions())
	if err != nil {
		c.Log.Error("store", err, logger.Fields{"path": path})
		return nil, err
	}

	s.OnChange(func(ch store.Change) {
		if ch.Kind == store.ChangeSelection {
			return
		}
		c.Log.Debug("store", "entry changed", logger.Fields{"kind": ch.Kind.String(), "index": ch.Index})
	})

	if err := c.RememberFile(path); err != nil {
		c.Log.Warning("app", "could not remember last file", logger.Fields{"error": err.Error()})
	}
	c.Log.Info("store", "catalog opened", logger.Fields{"path": path, "entries": s.Len()})
	return s, nil
}

// RememberFile records path as the last opened file.
func (c *Context) RememberFile(path string) error {
	if c.Settings.LastFile == path {
		return nil
	}
	c.Settings.LastFile = path
	return c.SaveSettings()
}

// ToggleTheme flips between dark and light and saves the choice.
func (c *Context) ToggleTheme() (string, error) {
	if c.Settings.IsLight() {
		c.Settings.UI.Theme = models.ThemeDark
	} else {
		c.Settings.UI.Theme = models.ThemeLight
	}
	return c.Settings.UI.Theme, c.SaveSettings()
}

func (c *Context) SaveSettings() error {
	if err := files.WriteSettings(c.ConfigDir, c.Settings); err != nil {
		c.Log.Error("app", err, nil)
		return err
	}
	return nil
}

// Close releases the cache and the log file.
func (c *Context) Close() error {
	var firstErr error
	if c.cache != nil {
		if err := c.cache.Close(); err != nil {
			firstErr = fmt.Errorf("failed to close cache: %w", err)
		}
		c.cache = nil
	}
	if err := c.Log.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
