package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/FocuswithJustin/JuniperParallel/internal/api"
	"github.com/FocuswithJustin/JuniperParallel/internal/config"
)

// ServeCmd starts the REST/WebSocket API.
type ServeCmd struct {
	Port int `help:"HTTP server port (overrides server.port)"`
}

func (c *ServeCmd) Run() error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.cfg.Server
	if c.Port != 0 {
		cfg.Port = c.Port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := api.New(api.Options{
		Config:  cfg,
		Reader:  a.reader,
		Catalog: a.store,
		Version: version,
	})
	return srv.ListenAndServe(ctx)
}

// ConfigShowCmd prints the effective configuration as YAML.
type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.File != "" {
		fmt.Fprintf(out, "# loaded from %s\n", cfg.File)
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// ConfigInitCmd writes a default configuration file.
type ConfigInitCmd struct {
	Path  string `arg:"" optional:"" help:"Destination (default: config.yaml in the data directory)" type:"path"`
	Force bool   `help:"Overwrite an existing file"`
}

func (c *ConfigInitCmd) Run() error {
	cfg := config.Default()
	path := c.Path
	if path == "" {
		path = filepath.Join(cfg.DataDir, "config.yaml")
	}
	if err := config.WriteFile(cfg, path, c.Force); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s\n", path)
	return nil
}
