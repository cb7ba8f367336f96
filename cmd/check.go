// =============================================================================
// Zotero to WXR Converter - Check Command
// =============================================================================
//
// This file defines the 'check' command, which runs the conversion up to the
// point of writing and prints what the WXR file would contain.
//
// COMMAND USAGE:
//   zotero2wxr check export.csv
//   zotero2wxr check export.csv --report issues.txt
//
// OUTPUT:
//   | #  | Type             | Date       | Title                  |
//   | -- | ---------------- | ---------- | ---------------------- |
//   | 1  | Journal Articles | 2019       | The Ethics of Care     |
//   ...
//   3 publication(s), 1 validation issue(s)
//
// =============================================================================

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/zotero2wxr/internal/converter"
	"github.com/ginjaninja78/zotero2wxr/internal/validation"
	"github.com/ginjaninja78/zotero2wxr/pkg/utils"
)

// reportFile is the optional path the issue report is written to.
var reportFile string

// titleWidth is the display width titles are truncated to in the preview.
const titleWidth = 60

var checkCmd = &cobra.Command{
	Use:   "check <input.csv|input.xlsx>",
	Short: "Preview a conversion and list validation issues without writing output",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&reportFile, "report", "", "Write the validation report to this file")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	buckets, stats, err := converter.New(cfg, log).Preview(background(cmd), args[0])
	if err != nil {
		return err
	}

	rows := [][]string{}
	n := 0
	for _, b := range buckets {
		for _, r := range b.Records {
			n++
			rows = append(rows, []string{
				strconv.Itoa(n),
				b.Type.Label(),
				r.Date.String(),
				truncate(r.Title, titleWidth),
			})
		}
	}

	out := cmd.OutOrStdout()
	if len(rows) > 0 {
		for _, line := range renderTable([]string{"#", "Type", "Date", "Title"}, rows) {
			fmt.Fprintln(out, line)
		}
		fmt.Fprintln(out)
	}

	for _, line := range bucketLines(stats.BucketCounts) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "%d publication(s), %d validation issue(s)\n", stats.RowsRead, len(stats.Issues))

	if stats.TitlesRenamed > 0 {
		fmt.Fprintf(out, "%d duplicate title(s) would be renamed\n", stats.TitlesRenamed)
	}

	counts := validation.Summary(stats.Issues)
	for _, rule := range sortedRules(counts) {
		fmt.Fprintf(out, "  %-18s %d\n", rule, counts[rule])
	}

	if reportFile != "" {
		report := validation.FormatIssues(stats.Issues)
		if err := utils.WriteFileAtomic(reportFile, []byte(report), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(out, "Report written to %s\n", reportFile)
	}

	return nil
}
