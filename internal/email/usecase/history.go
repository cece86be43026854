package usecase

import (
	"context"
	"errors"
	"log"

	"postbox-backend/internal/email/domain"
)

// RunIncrementalSyncStep applies one bounded page of remote history deltas
// since the stored cursor. Only additions are acted upon; removal
// reconciliation is deferred. When the remote rejects the stored cursor the
// whole checkpoint is reset, forcing the account back into backfill: an
// incremental feed cannot fill a gap it does not cover.
func (u *syncUsecase) RunIncrementalSyncStep(ctx context.Context, userID string) error {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	account, err := u.credential(userID)
	if err != nil {
		return err
	}
	if account == nil {
		return nil
	}

	if user.LastHistoryID == nil {
		// Never backfilled (or checkpoint was reset): nothing to apply yet
		log.Printf("[HistorySync] user %s: no history anchor, waiting for backfill", userID)
		return nil
	}

	page, err := u.mailSource.ListHistory(ctx, account.AccessToken, account.RefreshToken, *user.LastHistoryID, u.config.SyncPageSize, u.makeTokenUpdateCallback(userID))
	if err != nil {
		if errors.Is(err, domain.ErrHistoryExpired) {
			log.Printf("[HistorySync] user %s: history id %d rejected, resetting checkpoint for full resync", userID, *user.LastHistoryID)
			return u.userRepo.ResetCheckpoint(userID)
		}
		return err
	}

	if len(page.Entries) == 0 {
		return nil
	}

	var added []domain.MessageRef
	var removed []domain.MessageRef
	maxHistoryID := *user.LastHistoryID
	for _, entry := range page.Entries {
		added = append(added, entry.Added...)
		removed = append(removed, entry.Removed...)
		if entry.ID > maxHistoryID {
			maxHistoryID = entry.ID
		}
	}

	// Deletions are collected but intentionally not reconciled
	if len(removed) > 0 {
		log.Printf("[HistorySync] user %s: %d removals observed, not reconciled", userID, len(removed))
	}

	if _, err := u.ingest(ctx, userID, account, added); err != nil {
		return err
	}

	// Advance to the highest entry id actually observed, not the remote's
	// reported latest: a page truncated by the size bound must not skip the
	// entries it did not contain.
	if maxHistoryID > *user.LastHistoryID {
		if err := u.userRepo.SetLastHistoryID(userID, maxHistoryID); err != nil {
			return err
		}
	}

	return nil
}
