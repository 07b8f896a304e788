// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sparkstack/sparkctl/cmd/benchcmd"
	"github.com/sparkstack/sparkctl/cmd/clustercmd"
	"github.com/sparkstack/sparkctl/cmd/modelcmd"
	"github.com/sparkstack/sparkctl/pkg/application"
	"github.com/sparkstack/sparkctl/pkg/config"
	"github.com/sparkstack/sparkctl/pkg/constants"
	"github.com/sparkstack/sparkctl/pkg/prompts"
	"github.com/sparkstack/sparkctl/pkg/ux"
)

var (
	app *application.App

	Version  = "0.4.1"
	cfgFile  string
	logLevel string
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use: "sparkctl",
		Long: `sparkctl orchestrates a two-node GPU inference cluster: it launches the
serving engine on the head node and its worker over SSH, waits for the
cluster to become ready, switches the served model, and benchmarks models
against each other.

COMMAND OVERVIEW:

  cluster   Launch, stop and inspect the serving cluster
  model     List catalog models and switch the served model
  bench     Run load benchmarks and build ranked comparison reports

QUICK START:

  # Launch the configured model on head + worker
  sparkctl cluster launch

  # Switch models interactively, relaunching the cluster
  sparkctl model switch

  # Benchmark every single-node model with a short profile
  sparkctl bench all --single-node-only --profile short`,
		PersistentPreRunE: createApp,
		Version:           Version,
	}

	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.sparkctl/config.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level for the log file")

	rootCmd.AddCommand(clustercmd.NewCmd(app))
	rootCmd.AddCommand(modelcmd.NewCmd(app))
	rootCmd.AddCommand(benchcmd.NewCmd(app))

	return rootCmd
}

func createApp(_ *cobra.Command, _ []string) error {
	baseDir, err := setupEnv()
	if err != nil {
		return err
	}
	log, err := setupLogging(baseDir)
	if err != nil {
		return err
	}
	initConfig()
	app.Setup(baseDir, log, config.New(), prompts.NewPrompter())
	ux.NewUserLog(log, os.Stdout)
	return nil
}

func setupEnv() (string, error) {
	usr, err := user.Current()
	if err != nil {
		fmt.Printf("unable to get system user: %s\n", err)
		return "", err
	}
	baseDir := filepath.Join(usr.HomeDir, constants.BaseDirName)
	if err := os.MkdirAll(baseDir, constants.DefaultPerms755); err != nil {
		fmt.Printf("failed creating the basedir %s: %s\n", baseDir, err)
		return "", err
	}
	if err := os.MkdirAll(filepath.Join(baseDir, constants.LogDir), constants.DefaultPerms755); err != nil {
		return "", err
	}
	return baseDir, nil
}

func setupLogging(baseDir string) (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{filepath.Join(baseDir, constants.LogDir, constants.LogFileName)}
	cfg.ErrorOutputPaths = cfg.OutputPaths
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger.Sugar(), nil
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, constants.BaseDirName))
			viper.SetConfigName("config")
			viper.SetConfigType("json")
		}
	}
	viper.SetEnvPrefix("SPARKCTL")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

func Execute() {
	app = application.New()
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if ux.Logger != nil {
			ux.Logger.PrintError("%s", err)
		} else {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		}
		os.Exit(1)
	}
}
