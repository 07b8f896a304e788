// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package modelcmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/sparkstack/sparkctl/pkg/constants"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the model catalog",
		RunE:  listModels,
	}
}

func listModels(_ *cobra.Command, _ []string) error {
	catalog, err := app.LoadCatalog()
	if err != nil {
		return err
	}
	env, err := app.LoadClusterEnv()
	if err != nil {
		return err
	}
	current := env[constants.EnvKeyModelID]

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "Name", "Model ID", "Nodes", "TP", "Gated", ""})
	table.SetAutoWrapText(false)
	for i, m := range catalog {
		gated := ""
		if m.Gated {
			gated = "yes"
		}
		marker := ""
		if m.ModelID == current {
			marker = "current"
		}
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			m.Name,
			m.ModelID,
			fmt.Sprintf("%d", m.NumNodes),
			fmt.Sprintf("%d", m.TPSize),
			gated,
			marker,
		})
	}
	table.Render()
	return nil
}
