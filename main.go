// =============================================================================
// Zotero to WXR Converter - Main Entry Point
// =============================================================================
//
// USAGE:
//   zotero2wxr <input> <output>  - Convert a Zotero export to a WXR file
//   zotero2wxr check <input>     - Preview a conversion and list issues
//   zotero2wxr version           - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Reading, mapping, validation and WXR generation
//   - pkg/       : Shared file utilities
//   - magefiles/ : Build, test and vet targets
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/zotero2wxr/cmd"
)

func main() {
	cmd.Execute()
}
