package cmd

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/fitscore/internal/company"
	"github.com/spigell/fitscore/internal/scoring"
)

// defaultRow labels the weights used for unknown industries.
const defaultRow = "(any other)"

var industriesCmd = &cobra.Command{
	Use:   "industries",
	Short: "Print the effective industry weight table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		config, err := getConfig(viper.GetViper(), cfgFile)
		if err != nil {
			return err
		}

		t, err := buildTable(config)
		if err != nil {
			return err
		}

		renderIndustries(cmd.OutOrStdout(), t)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(industriesCmd)
}

func renderIndustries(out io.Writer, t *scoring.Table) {
	w := table.NewWriter()
	w.SetOutputMirror(out)
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row{"Industry", "Weight employee", "Weight revenue", "Weight industry", "Industry score", "Max employees", "Max revenue"})

	for _, name := range t.Industries() {
		weights, _ := t.Lookup(name)
		w.AppendRow(industryRow(name, weights))
	}

	w.AppendSeparator()
	w.AppendRow(industryRow(defaultRow, t.Defaults()))
	w.Render()
}

func industryRow(name string, w company.Weights) table.Row {
	return table.Row{name, w.WeightEmployee, w.WeightRevenue, w.WeightIndustry, w.IndustryScore, w.MaxEmployeeSize, w.MaxRevenue}
}
