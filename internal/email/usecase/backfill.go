package usecase

import (
	"context"
	"log"
)

// RunBackfillStep fetches exactly one page of the mailbox listing, persists
// the resumable cursor and hands the page to the ingestor. Repeated
// invocations walk the whole mailbox; once no pages remain the account is
// marked synced and further calls are no-ops.
func (u *syncUsecase) RunBackfillStep(ctx context.Context, userID string) (bool, error) {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}

	account, err := u.credential(userID)
	if err != nil {
		return false, err
	}
	if account == nil {
		return false, nil
	}

	pageToken := ""
	if user.NextPageToken != nil {
		pageToken = *user.NextPageToken
	}

	page, err := u.mailSource.ListMessages(ctx, account.AccessToken, account.RefreshToken, pageToken, u.config.SyncPageSize, u.makeTokenUpdateCallback(userID))
	if err != nil {
		return false, err
	}

	// Anchor the incremental cursor on the very first page: everything at or
	// after this history position is captured by the backfill itself.
	if user.LastHistoryID == nil && len(page.Refs) > 0 {
		historyID, err := u.mailSource.GetMinimalMessage(ctx, account.AccessToken, account.RefreshToken, page.Refs[0].ID, u.makeTokenUpdateCallback(userID))
		if err != nil {
			return false, err
		}
		if err := u.userRepo.SetLastHistoryID(userID, historyID); err != nil {
			return false, err
		}
		log.Printf("[Backfill] user %s: anchored history id %d", userID, historyID)
	}

	// isSynced flips true exactly when the remote reports no further pages
	if err := u.userRepo.UpdateCheckpoint(userID, strPtrOrNil(page.NextPageToken), page.NextPageToken == ""); err != nil {
		return false, err
	}

	if len(page.Refs) == 0 {
		log.Printf("[Backfill] user %s: no messages in page, backfill complete", userID)
		return false, nil
	}

	if _, err := u.ingest(ctx, userID, account, page.Refs); err != nil {
		return false, err
	}

	return true, nil
}
