package usecase

import (
	"context"
	"log"
	"time"
)

// RunBackfillAllAccounts runs one backfill step for every eligible account
// in the current batch.
func (u *syncUsecase) RunBackfillAllAccounts(ctx context.Context) ([]string, error) {
	return u.runAllAccounts(ctx, "Backfill", func(ctx context.Context, userID string) error {
		_, err := u.RunBackfillStep(ctx, userID)
		return err
	})
}

// RunIncrementalSyncAllAccounts runs one incremental sync step for every
// eligible account in the current batch.
func (u *syncUsecase) RunIncrementalSyncAllAccounts(ctx context.Context) ([]string, error) {
	return u.runAllAccounts(ctx, "HistorySync", u.RunIncrementalSyncStep)
}

// runAllAccounts selects a bounded batch of accounts, least recently synced
// first, and runs the given driver step for each strictly sequentially.
// Accounts without a currently valid credential are skipped silently; they
// will be retried on a later invocation once the credential is refreshed.
func (u *syncUsecase) runAllAccounts(ctx context.Context, tag string, step func(ctx context.Context, userID string) error) ([]string, error) {
	users, err := u.userRepo.ListSyncCandidates(u.config.SyncBatchSize)
	if err != nil {
		return nil, err
	}

	updated := make([]string, 0, len(users))
	for _, user := range users {
		account, err := u.credential(user.ID)
		if err != nil {
			log.Printf("[%s] user %s: credential lookup failed: %v", tag, user.ID, err)
			continue
		}
		if account == nil || !account.Valid() {
			continue
		}

		if err := step(ctx, user.ID); err != nil {
			log.Printf("[%s] user %s: step failed: %v", tag, user.ID, err)
			continue
		}

		if err := u.userRepo.StampLastSyncedAt(user.ID, time.Now()); err != nil {
			log.Printf("[%s] user %s: failed to stamp sync time: %v", tag, user.ID, err)
			continue
		}
		updated = append(updated, user.Email)
	}

	return updated, nil
}
