package usecase

import (
	"context"
	"log"

	"postbox-backend/internal/email/domain"
	"postbox-backend/pkg/storage"
)

// RefreshMessageLink re-mints the signed body link when its embedded expiry
// has passed. A still-valid link leaves the message untouched.
func (u *syncUsecase) RefreshMessageLink(ctx context.Context, message *domain.Message) error {
	if !storage.IsSignedURLExpired(message.HTMLBodyLink) {
		return nil
	}

	link, err := u.linkStore.SignedURL(ctx, storage.MessageKey(message.ID), u.config.SignedURLTTL)
	if err != nil {
		return err
	}

	if err := u.messageRepo.UpdateLink(message.ID, link); err != nil {
		return err
	}

	message.HTMLBodyLink = link
	return nil
}

// refreshThread refreshes every message link in the thread. Each message
// settles independently; messages whose refresh fails are dropped from the
// returned thread rather than failing the whole read.
func (u *syncUsecase) refreshThread(ctx context.Context, thread *domain.Thread) {
	kept := thread.Messages[:0]
	for i := range thread.Messages {
		if err := u.RefreshMessageLink(ctx, &thread.Messages[i]); err != nil {
			log.Printf("[Refresh] message %s: %v", thread.Messages[i].ID, err)
			continue
		}
		kept = append(kept, thread.Messages[i])
	}
	thread.Messages = kept
}

// ListThreads pages through a user's threads, newest first, refreshing every
// returned message's signed body link on the way out.
func (u *syncUsecase) ListThreads(ctx context.Context, userID, query, cursor string, limit int) ([]domain.Thread, string, error) {
	threads, next, err := u.threadRepo.ListByUser(userID, query, cursor, limit)
	if err != nil {
		return nil, "", err
	}

	for i := range threads {
		u.refreshThread(ctx, &threads[i])
	}

	return threads, next, nil
}
