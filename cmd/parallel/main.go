// Command parallel reads the Quran alongside installed translations.
// It provides commands for verse ranges, parallel reading, translation
// management, and serving the REST/WebSocket API.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/JuniperParallel/core/catalog"
	"github.com/FocuswithJustin/JuniperParallel/internal/config"
	"github.com/FocuswithJustin/JuniperParallel/internal/logging"
	"github.com/FocuswithJustin/JuniperParallel/internal/reader"
)

const version = "0.1.0"

// out is where commands write their results.
var out io.Writer = os.Stdout

// CLI defines the command-line interface for parallel.
var CLI struct {
	// Global flags
	Config   string `name:"config" short:"c" help:"Config file path" type:"path"`
	LogLevel string `name:"log-level" help:"Override log level (debug, info, warn, error)"`

	Keys         KeysCmd           `cmd:"" help:"List the verse keys of a range"`
	Verses       VersesCmd         `cmd:"" help:"Read canonical text alongside translations"`
	Dense        DenseCmd          `cmd:"" help:"Print one source over a range, one line per verse"`
	Names        NamesCmd          `cmd:"" help:"Resolve display names for translation ids"`
	Translations TranslationsGroup `cmd:"" help:"Translation catalog management"`
	Install      InstallCmd        `cmd:"" help:"Install translation databases from a file or archive"`
	Import       ImportGroup       `cmd:"" help:"Import translations from other formats"`
	ConfigCmd    ConfigGroup       `cmd:"" name:"config" help:"Configuration file operations"`
	Serve        ServeCmd          `cmd:"" help:"Start REST API server"`
	Version      VersionCmd        `cmd:"" help:"Print version information"`
}

// TranslationsGroup contains catalog operations.
type TranslationsGroup struct {
	List   TranslationsListCmd   `cmd:"" help:"List installed translations"`
	Add    TranslationsAddCmd    `cmd:"" help:"Register or update metadata for an installed database"`
	Remove TranslationsRemoveCmd `cmd:"" help:"Remove a translation"`
	Verify TranslationsVerifyCmd `cmd:"" help:"Check installed files against their checksums"`
	Pack   TranslationsPackCmd   `cmd:"" help:"Bundle translation databases into a tar.xz or tar.gz"`
}

// ImportGroup contains format importers.
type ImportGroup struct {
	Zefania ImportZefaniaCmd `cmd:"" help:"Import a Zefania XML book as a translation"`
}

// ConfigGroup contains configuration file operations.
type ConfigGroup struct {
	Show ConfigShowCmd `cmd:"" help:"Print the effective configuration"`
	Init ConfigInitCmd `cmd:"" help:"Write a default configuration file"`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Fprintf(out, "parallel version %s\n", version)
	return nil
}

// Helper functions

// loadConfig reads the configuration named by --config (or the default
// search path) and applies the logging settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return nil, err
	}
	if CLI.LogLevel != "" {
		cfg.Log.Level = CLI.LogLevel
	}
	if err := cfg.InitLogging(); err != nil {
		return nil, err
	}
	if cfg.File != "" {
		logging.Debug("configuration loaded", "file", cfg.File)
	}
	return cfg, nil
}

// app bundles the services most commands need.
type app struct {
	cfg    *config.Config
	store  *catalog.Store
	reader *reader.Service
}

func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := catalog.OpenStore(cfg.CatalogPath())
	if err != nil {
		return nil, err
	}
	opts := reader.OptionsFromConfig(cfg)
	opts.Catalog = store
	return &app{cfg: cfg, store: store, reader: reader.New(opts)}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("parallel"),
		kong.Description("Juniper Parallel - Quran text with parallel translations"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
