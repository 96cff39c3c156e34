package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"passpoll/internal/poll/models"
)

// mintBatch mints to every recipient with at most batchConcurrency mints in flight.
// Mints are independent: one failure neither cancels nor rolls back the others.
func (s *Service) mintBatch(ctx context.Context, caller models.Identity, poll *models.Poll, recipients []models.Identity) []IssueResult {
	results := make([]IssueResult, len(recipients))

	var g errgroup.Group
	g.SetLimit(s.batchConcurrency)
	for i, recipient := range recipients {
		g.Go(func() error {
			results[i] = IssueResult{
				Recipient: recipient,
				Err:       s.mint(ctx, caller, poll, recipient),
			}
			return nil
		})
	}
	// Every goroutine returns nil; per-recipient errors live in results.
	_ = g.Wait()

	return results
}
