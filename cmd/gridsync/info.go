// ABOUTME: Cobra command that reports local storage statistics.
// ABOUTME: Shows file counts, validity, total size, date range, and the retention policy.
package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show local storage information",
	Long:  "Report the contents of the downloads directory and the retention policy in effect.",
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	info, err := globalLocal.Info(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to gather storage info: %w", err)
	}

	fmt.Println("=== Local Storage Info ===")
	fmt.Printf("Directory:     %s\n", info.Dir)
	fmt.Printf("Total files:   %d\n", info.TotalFiles)
	fmt.Printf("Valid PDFs:    %d\n", info.ValidFiles)
	fmt.Printf("Invalid files: %d\n", info.InvalidFiles)
	fmt.Printf("Total size:    %s\n", humanize.Bytes(uint64(info.TotalSize)))
	if !info.OldestDate.IsZero() && !info.NewestDate.IsZero() {
		fmt.Printf("Date range:    %s to %s\n", info.OldestDate.Format("2006-01-02"), info.NewestDate.Format("2006-01-02"))
	}
	fmt.Printf("Retention:     %d days, max %d files\n", globalConfig.Local.MaxAgeDays, globalConfig.Local.MaxFiles)
	return nil
}
