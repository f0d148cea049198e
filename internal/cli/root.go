// Package cli holds the volunteer-hub command tree.
package cli

import (
	"fmt"
	"log"

	"volunteer-hub/internal/config"
	"volunteer-hub/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const appName = "volunteer-hub"

var (
	envFile string

	rootCmd = &cobra.Command{
		Use:           appName,
		Short:         "volunteer-hub serves and browses volunteering opportunities",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return config.LoadEnvFile(envFile)
		},
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "file with KEY=VALUE pairs to load into the environment (default .env when present)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		log.Fatalf("binding debug flag: %v", err)
	}
	if err := viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json")); err != nil {
		log.Fatalf("binding json flag: %v", err)
	}
}

func newLogger() (*zap.Logger, error) {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}
	return l, nil
}

// loadConfig returns the server configuration and a logger built from it.
func loadConfig() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("loading config: %w", err)
	}
	l, err := newLogger()
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, l.With(zap.String("env", cfg.App.Environment)), nil
}
