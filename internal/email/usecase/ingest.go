package usecase

import (
	"context"
	"log"
	"sync"

	authdomain "postbox-backend/internal/auth/domain"
	"postbox-backend/internal/email/domain"
	"postbox-backend/pkg/mailparse"
	"postbox-backend/pkg/storage"
)

// IngestReferences is the externally exposed entry point; it resolves the
// user's credential and runs the batch.
func (u *syncUsecase) IngestReferences(ctx context.Context, userID string, refs []domain.MessageRef) (bool, error) {
	account, err := u.credential(userID)
	if err != nil {
		return false, err
	}
	if account == nil {
		return false, nil
	}
	return u.ingest(ctx, userID, account, refs)
}

// ingest runs one ingestion batch: ensure threads exist (one statement),
// fetch+parse+store each reference concurrently with failures isolated,
// then upsert all surviving messages in one statement.
func (u *syncUsecase) ingest(ctx context.Context, userID string, account *authdomain.GoogleAccount, refs []domain.MessageRef) (bool, error) {
	if len(refs) == 0 {
		return false, nil
	}

	// Ensure that the threads are in the db
	seen := make(map[string]struct{})
	threads := make([]domain.Thread, 0, len(refs))
	for _, ref := range refs {
		if ref.ThreadID == "" {
			continue
		}
		if _, ok := seen[ref.ThreadID]; ok {
			continue
		}
		seen[ref.ThreadID] = struct{}{}
		threads = append(threads, domain.Thread{ID: ref.ThreadID, UserID: userID})
	}
	if err := u.threadRepo.UpsertBatch(threads); err != nil {
		return false, err
	}

	// Fetch and parse in parallel with a bounded number of in-flight
	// requests; each reference settles independently.
	results := make(chan *domain.Message, len(refs))
	semaphore := make(chan struct{}, maxConcurrentFetches)
	var wg sync.WaitGroup

	for _, ref := range refs {
		wg.Add(1)
		go func(ref domain.MessageRef) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			message, err := u.fetchAndParse(ctx, account, userID, ref)
			if err != nil {
				log.Printf("[Ingest] message %s failed: %v", ref.ID, err)
				return
			}
			if message == nil {
				// Unsupported or malformed message, skipped by policy
				log.Printf("[Ingest] message %s skipped", ref.ID)
				return
			}
			results <- message
		}(ref)
	}

	wg.Wait()
	close(results)

	messages := make([]domain.Message, 0, len(refs))
	for message := range results {
		messages = append(messages, *message)
	}

	if err := u.messageRepo.UpsertBatch(messages); err != nil {
		return false, err
	}

	log.Printf("[Ingest] user %s: %d/%d messages persisted", userID, len(messages), len(refs))
	return true, nil
}

// fetchAndParse turns one remote reference into a persistable Message.
// A nil, nil return means the message is skipped by policy: no HTML body, or
// missing one of subject/from/date/to/Message-ID.
func (u *syncUsecase) fetchAndParse(ctx context.Context, account *authdomain.GoogleAccount, userID string, ref domain.MessageRef) (*domain.Message, error) {
	if ref.ID == "" || ref.ThreadID == "" {
		return nil, nil
	}

	raw, err := u.mailSource.GetRawMessage(ctx, account.AccessToken, account.RefreshToken, ref.ID, u.makeTokenUpdateCallback(userID))
	if err != nil {
		return nil, err
	}

	parsed, err := mailparse.Parse(raw.Raw)
	if err != nil {
		return nil, err
	}

	// Text-only emails are not mirrored; the body link always points at HTML
	if parsed.HTML == "" {
		return nil, nil
	}
	if parsed.Subject == "" || len(parsed.From) == 0 || parsed.Date.IsZero() || len(parsed.To) == 0 || parsed.MessageID == "" {
		return nil, nil
	}

	key := storage.MessageKey(ref.ID)
	if err := u.linkStore.Put(ctx, key, []byte(parsed.HTML)); err != nil {
		return nil, err
	}
	link, err := u.linkStore.SignedURL(ctx, key, u.config.SignedURLTTL)
	if err != nil {
		return nil, err
	}

	message := &domain.Message{
		ID:           ref.ID,
		ThreadID:     ref.ThreadID,
		EmailRawID:   parsed.MessageID,
		Subject:      parsed.Subject,
		Snippet:      raw.Snippet,
		PlainText:    parsed.PlainText,
		HTMLBodyLink: link,
		Headers:      parsed.Headers,
		Date:         parsed.Date,
		From:         parsed.From,
		To:           parsed.To,
		Cc:           parsed.Cc,
		Bcc:          parsed.Bcc,
		ReplyTo:      parsed.ReplyTo,
		InReplyTo:    strPtrOrNil(parsed.InReplyTo),
		Priority:     strPtrOrNil(parsed.Priority),
	}
	return message, nil
}
