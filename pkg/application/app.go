// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/sparkstack/sparkctl/pkg/config"
	"github.com/sparkstack/sparkctl/pkg/constants"
	"github.com/sparkstack/sparkctl/pkg/models"
	"github.com/sparkstack/sparkctl/pkg/prompts"
)

// App carries the shared dependencies of every command: logger, config,
// prompter and the base directory layout.
type App struct {
	Log     *zap.SugaredLogger
	Conf    *config.Config
	Prompt  prompts.Prompter
	baseDir string
}

func New() *App {
	return &App{}
}

func (app *App) Setup(baseDir string, log *zap.SugaredLogger, conf *config.Config, prompt prompts.Prompter) {
	app.baseDir = baseDir
	app.Log = log
	app.Conf = conf
	app.Prompt = prompt
}

func (app *App) GetBaseDir() string {
	return app.baseDir
}

func (app *App) GetLogDir() string {
	return filepath.Join(app.baseDir, constants.LogDir)
}

func (app *App) GetBenchDir() string {
	return filepath.Join(app.baseDir, constants.BenchDir)
}

func (app *App) GetClusterEnvPath() string {
	return filepath.Join(app.baseDir, constants.ClusterEnvFileName)
}

func (app *App) GetClusterLocalEnvPath() string {
	return filepath.Join(app.baseDir, constants.ClusterLocalEnvFileName)
}

func (app *App) GetModelCatalogPath() string {
	if custom := app.Conf.GetConfigStringValue(constants.ConfigModelCatalogKey); custom != "" {
		return custom
	}
	return ""
}

// LoadClusterEnv merges the checked-in template with the local override,
// later file winning per key.
func (app *App) LoadClusterEnv() (map[string]string, error) {
	template, err := config.LoadEnvFile(app.GetClusterEnvPath())
	if err != nil {
		return nil, err
	}
	local, err := config.LoadEnvFile(app.GetClusterLocalEnvPath())
	if err != nil {
		return nil, err
	}
	return template.Merge(local), nil
}

// LoadCatalog loads the model catalog (custom file or built-in default).
func (app *App) LoadCatalog() ([]models.Model, error) {
	return models.LoadCatalog(app.GetModelCatalogPath())
}
