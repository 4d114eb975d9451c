package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/widgetkit/internal/version"
)

var (
	versionFormat   = newFormatValue("text", "text", "json")
	versionShort    bool
	versionDetailed bool
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for widgetkit: the version, git commit,
build time, Go version and target platform.

Examples:
  widgetkit version              # Show version and commit
  widgetkit version --detailed   # Show every build field
  widgetkit version --format json`,
	Args: cobra.NoArgs,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	addFormatFlag(versionCmd.Flags(), versionFormat)
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show the version number only")
	versionCmd.Flags().BoolVar(&versionDetailed, "detailed", false, "Show detailed version information")
}

func runVersionCommand(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	if versionFormat.String() == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(version.GetBuildInfo())
	}

	switch {
	case versionShort:
		fmt.Fprintln(out, version.GetVersion())
	case versionDetailed:
		fmt.Fprintln(out, version.GetDetailedVersion())
	default:
		fmt.Fprintln(out, "widgetkit", version.GetShortVersion())
	}
	return nil
}
