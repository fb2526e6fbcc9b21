package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/projecteru2/core/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cmdcore "github.com/projecteru2/bollard/cmd/core"
	cmdimages "github.com/projecteru2/bollard/cmd/images"
	cmdothers "github.com/projecteru2/bollard/cmd/others"
	"github.com/projecteru2/bollard/config"
)

var (
	cfgFile string
	conf    *config.Config
)

var rootCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "bollard",
		Short:         "Bollard - selector-driven image management for Docker",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmdcore.CommandContext(cmd))
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (JSON)")
	cmd.PersistentFlags().String("docker-host", "", "daemon socket to connect to (default: DOCKER_HOST)")
	cmd.PersistentFlags().Int("pool-size", 0, "concurrent image inspects (default: number of CPUs)")
	cmd.PersistentFlags().String("log-level", "", "log level")

	_ = viper.BindPFlag("docker_host", cmd.PersistentFlags().Lookup("docker-host"))
	_ = viper.BindPFlag("pool_size", cmd.PersistentFlags().Lookup("pool-size"))
	_ = viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))

	viper.SetEnvPrefix("BOLLARD")
	viper.AutomaticEnv()

	base := cmdcore.BaseHandler{ConfProvider: func() *config.Config { return conf }}

	cmd.AddCommand(cmdimages.Commands(cmdimages.Handler{BaseHandler: base})...)
	cmd.AddCommand(cmdothers.Commands(cmdothers.Handler{})...)

	return cmd
}()

func initConfig(ctx context.Context) error {
	loaded, err := config.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	conf = loaded
	// file values sit below BOLLARD_* variables and explicit flags
	viper.SetDefault("docker_host", conf.DockerHost)
	viper.SetDefault("pool_size", conf.PoolSize)
	viper.SetDefault("columns", conf.Columns)
	viper.SetDefault("short_digest", conf.ShortDigest)
	viper.SetDefault("highlight_architecture", conf.HighlightArchitecture)
	viper.SetDefault("log.level", conf.Log.Level)

	if err := viper.Unmarshal(conf); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	conf.Normalize()

	return log.SetupLog(ctx, &conf.Log, "")
}

func newCommandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Execute is the main entry point called from main.go.
func Execute() error {
	ctx, cancel := newCommandContext()
	defer cancel()
	return rootCmd.ExecuteContext(ctx)
}
