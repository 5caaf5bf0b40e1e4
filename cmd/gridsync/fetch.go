// ABOUTME: Cobra command for the main fetch-and-upload run.
// ABOUTME: Resolves the target date and variants, runs the sync engine, prints the report.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/2389-research/gridsync/internal/catalog"
	"github.com/2389-research/gridsync/internal/fetcher"
	"github.com/2389-research/gridsync/internal/storage"
	"github.com/2389-research/gridsync/internal/supernote"
	gsync "github.com/2389-research/gridsync/internal/sync"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download crosswords and upload them to SuperNote",
	Long:  "Download the requested crossword PDFs for a date (falling back to earlier publication days) and upload them to the SuperNote cloud.",
	RunE:  runFetch,
}

// Flags
var (
	fetchToday    bool
	fetchDate     string
	fetchType     string
	fetchNoUpload bool
)

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().BoolVar(&fetchToday, "today", false, "Fetch crosswords for today (the default)")
	fetchCmd.Flags().StringVar(&fetchDate, "date", "", "Fetch crosswords for a specific date (YYYY-MM-DD)")
	fetchCmd.Flags().StringVar(&fetchType, "type", "", "Fetch a single puzzle type: quick, cryptic, quick-cryptic, or weekend")
	fetchCmd.Flags().BoolVar(&fetchNoUpload, "no-upload", false, "Download only, do not upload to SuperNote")
	fetchCmd.MarkFlagsMutuallyExclusive("today", "date")
}

func runFetch(cmd *cobra.Command, args []string) error {
	loc, err := globalConfig.Location()
	if err != nil {
		return err
	}

	target := time.Now().In(loc)
	if fetchDate != "" {
		target, err = time.ParseInLocation("2006-01-02", fetchDate, loc)
		if err != nil {
			return fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", fetchDate, err)
		}
	}

	variants := catalog.Variants
	if fetchType != "" {
		v, err := catalog.ParseVariant(fetchType)
		if err != nil {
			return err
		}
		variants = []catalog.Variant{v}
	}

	engine := &gsync.Engine{
		Fetcher: fetcher.New(),
		Local:   globalLocal,
	}
	if !fetchNoUpload {
		engine.Remote = newRemoteStore
	}

	fmt.Printf("Processing crosswords for %s\n", target.Format("2006-01-02"))
	report := engine.Run(cmd.Context(), variants, target)
	printReport(report)

	if report.AuthErr != nil {
		return fmt.Errorf("SuperNote authentication failed, nothing stored: %w", report.AuthErr)
	}
	return nil
}

// newRemoteStore establishes the cloud session for the store phase.
func newRemoteStore(ctx context.Context) (gsync.RemoteStore, error) {
	email, password, err := globalConfig.Credentials()
	if err != nil {
		return nil, err
	}
	client := supernote.NewClient(globalConfig.Supernote.APIURL)
	session, err := client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return storage.NewRemoteStore(session, globalConfig.Supernote.Dir), nil
}

// printReport writes the per-variant summary in requested order.
func printReport(report *gsync.Report) {
	uploaded, existing := 0, 0
	for _, res := range report.Results {
		switch res.Outcome {
		case gsync.OutcomeUploaded, gsync.OutcomeUploadedLocal:
			fmt.Printf("  %s: %s (%s)%s\n", res.Variant, res.Outcome, res.Date.Format("2006-01-02"), fallbackNote(res, report.TargetDate))
			uploaded++
		case gsync.OutcomeDownloaded, gsync.OutcomeDuplicate:
			fmt.Printf("  %s: %s (%s)%s\n", res.Variant, res.Outcome, res.Date.Format("2006-01-02"), fallbackNote(res, report.TargetDate))
			if res.Outcome == gsync.OutcomeDuplicate {
				existing++
			}
		case gsync.OutcomeExhausted:
			fmt.Printf("  %s: %s (%d candidates tried)\n", res.Variant, res.Outcome, len(res.Attempts))
		case gsync.OutcomeError:
			fmt.Printf("  %s: error: %v\n", res.Variant, res.Err)
		default:
			// Store phase never ran (auth failure); report the fetch result.
			if res.Filename != "" {
				fmt.Printf("  %s: fetched (%s), not stored\n", res.Variant, res.Date.Format("2006-01-02"))
			} else {
				fmt.Printf("  %s: %s (%d candidates tried)\n", res.Variant, gsync.OutcomeExhausted, len(res.Attempts))
			}
		}
	}

	if uploaded > 0 || existing > 0 {
		fmt.Printf("Completed: %d uploaded, %d already on SuperNote\n", uploaded, existing)
	}
}

// fallbackNote annotates results resolved from an earlier publication date.
func fallbackNote(res gsync.VariantResult, target time.Time) string {
	if res.Date.Format("20060102") == target.Format("20060102") {
		return ""
	}
	return " [fallback]"
}
