// ABOUTME: Connection validation for SuperNote cloud credentials.
// ABOUTME: Tests credentials by performing a real login against the API.
package tui

import (
	"context"
	"time"

	"github.com/2389-research/gridsync/internal/supernote"
)

// ValidateConnection tests the given credentials by logging in to the cloud.
// The context allows cancellation when the user quits during validation.
func ValidateConnection(ctx context.Context, apiURL, email, password string) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client := supernote.NewClient(apiURL)
	_, err := client.Login(ctx, email, password)
	return err
}
