// ABOUTME: Cobra command for retention cleanup of local and cloud puzzle files.
// ABOUTME: Previews the eviction set and asks for confirmation before deleting anything.
package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/2389-research/gridsync/internal/storage"
	"github.com/2389-research/gridsync/internal/supernote"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove old puzzle files locally and on SuperNote",
	Long:  "Apply the retention policy (age and count limits) to the downloads directory and the SuperNote puzzles folder, and sweep invalid local PDFs.",
	RunE:  runCleanup,
}

// Flags
var (
	cleanupDryRun   bool
	cleanupAuto     bool
	cleanupNoUpload bool
)

func init() {
	rootCmd.AddCommand(cleanupCmd)

	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "Show what would be removed without deleting")
	cleanupCmd.Flags().BoolVar(&cleanupAuto, "auto-cleanup", false, "Skip confirmation prompts")
	cleanupCmd.Flags().BoolVar(&cleanupNoUpload, "no-upload", false, "Skip SuperNote cloud cleanup")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if err := cleanupLocal(ctx); err != nil {
		return err
	}
	if cleanupNoUpload {
		return nil
	}
	return cleanupRemote(ctx)
}

func cleanupLocal(ctx context.Context) error {
	policy := globalConfig.Local.Policy()

	doomed, err := globalLocal.Cleanup(ctx, policy, true)
	if err != nil {
		return fmt.Errorf("local cleanup failed: %w", err)
	}
	invalid, err := globalLocal.RemoveInvalid(ctx, true)
	if err != nil {
		return fmt.Errorf("local cleanup failed: %w", err)
	}

	if len(doomed) == 0 && len(invalid) == 0 {
		fmt.Println("No old local files to remove.")
		return nil
	}

	printEvictionSet("local", doomed, invalid)
	if cleanupDryRun {
		return nil
	}

	ok, err := confirmDeletion(fmt.Sprintf("Delete these %d local files?", len(doomed)+len(invalid)))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Local cleanup cancelled.")
		return nil
	}

	// Delete exactly the confirmed set; recomputing here could pull in files
	// that crossed a retention threshold while the prompt was open.
	removed := globalLocal.Remove(ctx, doomed)
	swept := globalLocal.Remove(ctx, invalid)
	fmt.Printf("Removed %d old local files.\n", len(removed)+len(swept))
	return nil
}

func cleanupRemote(ctx context.Context) error {
	email, password, err := globalConfig.Credentials()
	if err != nil {
		return err
	}
	client := supernote.NewClient(globalConfig.Supernote.APIURL)
	session, err := client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("SuperNote authentication failed: %w", err)
	}
	remote := storage.NewRemoteStore(session, globalConfig.Supernote.Dir)
	policy := globalConfig.Remote.Policy()

	doomed, err := remote.Cleanup(ctx, policy, true)
	if err != nil {
		return fmt.Errorf("cloud cleanup failed: %w", err)
	}
	if len(doomed) == 0 {
		fmt.Println("No old cloud files to remove.")
		return nil
	}

	printEvictionSet("cloud", doomed, nil)
	if cleanupDryRun {
		return nil
	}

	ok, err := confirmDeletion(fmt.Sprintf("Delete these %d cloud files?", len(doomed)))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Cloud cleanup cancelled.")
		return nil
	}

	removed := remote.Remove(ctx, doomed)
	fmt.Printf("Removed %d old cloud files.\n", len(removed))
	return nil
}

// printEvictionSet lists the files a cleanup pass would remove.
func printEvictionSet(where string, old, invalid []string) {
	verb := "Removing"
	if cleanupDryRun {
		verb = "DRY RUN: would remove"
	}
	fmt.Printf("%s %d %s files:\n", verb, len(old)+len(invalid), where)
	for _, name := range old {
		fmt.Printf("  - %s\n", name)
	}
	for _, name := range invalid {
		fmt.Printf("  - %s (invalid PDF)\n", name)
	}
}

// confirmDeletion prompts for deletion approval unless --auto-cleanup is set.
func confirmDeletion(title string) (bool, error) {
	if cleanupAuto {
		return true, nil
	}

	var ok bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative("Delete").
			Negative("Keep").
			Value(&ok),
	))
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return ok, nil
}
