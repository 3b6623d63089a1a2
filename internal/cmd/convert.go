package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/venalab/hiervet/internal/tabular"
	"github.com/venalab/hiervet/pkg/logging"
	"github.com/venalab/hiervet/pkg/treeparse"
)

var (
	convertOutput string
	dimensionName string
	commandCode   string
	showTree      bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <tree.csv>",
	Short: "Convert a visual tree layout to the parent-child format",
	Long: `Convert reads a CSV where hierarchy depth is encoded by which column
holds a row's first value, and emits the flat parent-child table. Structural
defects (missing parents, skipped levels, multiple roots) are reported; a
second root halts conversion.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "write the parent-child CSV to this path")
	convertCmd.Flags().StringVar(&dimensionName, "dimension", "Account", "dimension name for every output row")
	convertCmd.Flags().StringVar(&commandCode, "cmd", "+", "command code for every output row")
	convertCmd.Flags().BoolVar(&showTree, "show-tree", false, "print the parsed tree")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	path := args[0]
	logger := logging.Default()
	out := cmd.OutOrStdout()

	grid, err := tabular.LoadGrid(path)
	if err != nil {
		return err
	}

	parser := treeparse.New(
		treeparse.WithLevels(viper.GetInt("tree.levels")),
		treeparse.WithAliasColumn(viper.GetInt("tree.alias-column")),
		treeparse.WithOperatorColumn(viper.GetInt("tree.operator-column")),
	)
	result := parser.Parse(grid)

	logger.Info().
		Int("members", result.Stats.Members).
		Int("max_depth", result.Stats.MaxDepth).
		Int("leaves", result.Stats.Leaves).
		Msg("Parsed tree")

	for _, e := range result.Errors {
		fmt.Fprintf(out, "%s row %d: %s\n", color.RedString("ERROR"), e.Row, e.Message)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(out, "%s %s\n", color.YellowString("WARNING"), w.Message)
	}

	if showTree {
		fmt.Fprintln(out, result.Visualize())
	}

	fmt.Fprintf(out, "%d members, max depth %d, %d leaves\n",
		result.Stats.Members, result.Stats.MaxDepth, result.Stats.Leaves)

	if convertOutput != "" {
		table := result.Table(dimensionName, commandCode)
		if err := tabular.SaveTable(convertOutput, table); err != nil {
			return err
		}
		logger.Info().Str("file", convertOutput).Int("rows", len(table.Rows)).Msg("Wrote parent-child table")
	}
	return nil
}
