// =============================================================================
// Zotero to WXR Converter - Version Command
// =============================================================================
//
// COMMAND USAGE:
//   zotero2wxr version
//
// OUTPUT:
//   zotero2wxr
//   Version:     1.0.0
//   Build Date:  2024-01-01
//   WXR Version: 1.2
//   Go Version:  go1.24.0
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/zotero2wxr/internal/xmlwriter"
)

// These variables are set at build time using ldflags:
//   go build -ldflags "-X 'github.com/ginjaninja78/zotero2wxr/cmd.Version=1.0.0'"

// Version is the application version.
var Version = "1.0.0"

// BuildDate is the date the application was built.
var BuildDate = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "zotero2wxr")
		fmt.Fprintf(out, "Version:     %s\n", Version)
		fmt.Fprintf(out, "Build Date:  %s\n", BuildDate)
		fmt.Fprintf(out, "WXR Version: %s\n", xmlwriter.WXRVersion)
		fmt.Fprintf(out, "Go Version:  %s\n", runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
