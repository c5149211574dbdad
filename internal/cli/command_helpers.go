package cli

import (
	"fmt"

	"github.com/postudio/postudio-terminal/internal/app"
	"github.com/postudio/postudio-terminal/pkg/store"
)

// appOptions are filled from the persistent flags of the root command
var appOptions app.Options

// SetAppOptions sets the options used to build the application context
func SetAppOptions(opts app.Options) {
	appOptions = opts
}

// AppOptions returns the options set by SetAppOptions
func AppOptions() app.Options {
	return appOptions
}

// CommandContext carries the application context through a command run
type CommandContext struct {
	App   *app.Context
	Store *store.Store
}

// NewCommandContext builds the application context from the global flags
func NewCommandContext() (*CommandContext, error) {
	a, err := app.New(appOptions)
	if err != nil {
		return nil, err
	}
	return &CommandContext{App: a}, nil
}

// ResolveFile returns the file argument, or the last opened file if none was given
func (c *CommandContext) ResolveFile(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if c.App.Settings.LastFile != "" {
		return c.App.Settings.LastFile, nil
	}
	return "", fmt.Errorf("no catalog given and no file opened before")
}

// LoadStore resolves and opens the catalog for the command
func (c *CommandContext) LoadStore(args []string) (*store.Store, error) {
	path, err := c.ResolveFile(args)
	if err != nil {
		return nil, err
	}
	s, err := c.App.OpenStore(path)
	if err != nil {
		return nil, err
	}
	c.Store = s
	return s, nil
}

// Close releases the application context
func (c *CommandContext) Close() error {
	return c.App.Close()
}
