package core

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/projecteru2/bollard/columns"
	"github.com/projecteru2/bollard/config"
	"github.com/projecteru2/bollard/images/docker"
)

// BaseHandler provides shared config access for all command handlers.
type BaseHandler struct {
	ConfProvider func() *config.Config
}

// Init returns the command context and validated config in one call.
func (h BaseHandler) Init(cmd *cobra.Command) (context.Context, *config.Config, error) {
	conf, err := h.Conf()
	if err != nil {
		return nil, nil, err
	}
	return CommandContext(cmd), conf, nil
}

// Conf validates and returns the config. All handlers call this first.
func (h BaseHandler) Conf() (*config.Config, error) {
	if h.ConfProvider == nil {
		return nil, fmt.Errorf("config provider is nil")
	}
	conf := h.ConfProvider()
	if conf == nil {
		return nil, fmt.Errorf("config not initialized")
	}
	return conf, nil
}

// CommandContext returns command context, falling back to Background.
func CommandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// InitEngine connects to the Docker daemon.
func InitEngine(conf *config.Config) (*docker.Engine, error) {
	engine, err := docker.New(conf.DockerHost, conf.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("init docker engine: %w", err)
	}
	return engine, nil
}

// Formats builds projection toggles from config. Highlighting needs a terminal.
func Formats(conf *config.Config, noTrunc bool) columns.Formats {
	f := columns.DefaultFormats()
	f.ShortDigest = conf.ShortDigest && !noTrunc
	f.HighlightArchitecture = conf.HighlightArchitecture && term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec
	return f
}
