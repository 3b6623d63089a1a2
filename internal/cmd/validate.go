package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/venalab/hiervet/internal/tabular"
	"github.com/venalab/hiervet/pkg/families"
	"github.com/venalab/hiervet/pkg/fixes"
	"github.com/venalab/hiervet/pkg/hierarchy"
	"github.com/venalab/hiervet/pkg/logging"
	"github.com/venalab/hiervet/pkg/validate"
)

var (
	reportOutput string
	fixedOutput  string
	cleanOutput  string
)

var validateCmd = &cobra.Command{
	Use:   "validate <file.csv>",
	Short: "Validate a parent-child hierarchy file",
	Long: `Validate runs every data-quality check against a parent-child CSV
file and prints the numbered findings report. Row numbers in the report are
spreadsheet row numbers (data row + header).

Exit status is 2 when Error findings exist, 0 otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&reportOutput, "report", "", "write the findings report CSV to this path")
	validateCmd.Flags().StringVar(&fixedOutput, "fixed-output", "", "write the corrected table CSV to this path")
	validateCmd.Flags().StringVar(&cleanOutput, "clean-output", "", "write a whitespace-normalized copy of the table to this path")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	logger := logging.Default()

	table, err := tabular.LoadTable(path)
	if err != nil {
		return err
	}
	logger.Info().Str("file", path).Int("rows", len(table.Rows)).Msg("Loaded hierarchy table")

	engine := validate.New(
		validate.WithMaxDistance(viper.GetInt("fuzzy.max-distance")),
		validate.WithMaxNameLength(viper.GetInt("limits.max-name-length")),
	)
	result := engine.Validate(table)
	findings := families.Assemble(result, table, *logger)

	renderFindings(cmd.OutOrStdout(), findings)
	renderSummary(cmd.OutOrStdout(), findings)

	if reportOutput != "" {
		if err := writeReport(reportOutput, findings); err != nil {
			return err
		}
		logger.Info().Str("file", reportOutput).Msg("Wrote findings report")
	}

	if fixedOutput != "" {
		groups := fixes.Build(result)
		fixed := fixes.Apply(table, fixes.Substitutions(groups))
		if err := tabular.SaveTable(fixedOutput, fixed); err != nil {
			return err
		}
		logger.Info().Str("file", fixedOutput).Int("fixes", len(groups)).Msg("Wrote corrected table")
	}

	if cleanOutput != "" {
		if err := tabular.SaveTable(cleanOutput, fixes.CleanWhitespace(table)); err != nil {
			return err
		}
		logger.Info().Str("file", cleanOutput).Msg("Wrote whitespace-normalized table")
	}

	for _, f := range findings {
		if f.Severity == hierarchy.Error {
			os.Exit(2)
		}
	}
	return nil
}

func renderFindings(w io.Writer, findings []hierarchy.Finding) {
	if len(findings) == 0 {
		fmt.Fprintln(w, color.GreenString("No issues found."))
		return
	}

	table := tablewriter.NewTable(w)
	table.Header("Issue", "Type", "Category", "Member Name", "Parent Name", "Cause", "Rows")
	for _, f := range findings {
		_ = table.Append(f.ID, string(f.Severity), string(f.Category), f.Member, f.Parent, f.Cause, f.DisplayRows())
	}
	_ = table.Render()
}

func renderSummary(w io.Writer, findings []hierarchy.Finding) {
	errors, warnings := 0, 0
	for _, f := range findings {
		switch f.Severity {
		case hierarchy.Error:
			errors++
		case hierarchy.Warning:
			warnings++
		}
	}
	fmt.Fprintf(w, "\n%s  %s\n",
		color.RedString("%d errors", errors),
		color.YellowString("%d warnings", warnings))
}

func writeReport(path string, findings []hierarchy.Finding) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return tabular.WriteFindings(f, findings)
}
