package usecase

import (
	"context"

	"postbox-backend/internal/email/domain"
)

// SyncUsecase is the mailbox synchronization engine surface consumed by the
// API layer and by external triggers (cron endpoints).
type SyncUsecase interface {
	// IngestReferences fetches, parses and persists the given remote message
	// references for one user. Returns whether a non-empty batch was
	// processed; per-message failures are isolated and logged, never
	// propagated.
	IngestReferences(ctx context.Context, userID string, refs []domain.MessageRef) (bool, error)

	// RunBackfillStep advances the one-time full mailbox walk by a single
	// bounded page. Returns whether any work was done.
	RunBackfillStep(ctx context.Context, userID string) (bool, error)

	// RunIncrementalSyncStep applies remote history deltas since the stored
	// checkpoint. On an invalidated cursor it resets the checkpoint instead
	// of failing.
	RunIncrementalSyncStep(ctx context.Context, userID string) error

	// RunBackfillAllAccounts / RunIncrementalSyncAllAccounts run the
	// respective driver over a bounded batch of eligible accounts,
	// sequentially, and return the emails of the accounts updated.
	RunBackfillAllAccounts(ctx context.Context) ([]string, error)
	RunIncrementalSyncAllAccounts(ctx context.Context) ([]string, error)

	// ListThreads pages through a user's threads with fresh signed body
	// links (expired links are re-minted before returning).
	ListThreads(ctx context.Context, userID, query, cursor string, limit int) ([]domain.Thread, string, error)

	// RefreshMessageLink re-mints the message's signed body link if its
	// embedded expiry has passed, persisting the new link.
	RefreshMessageLink(ctx context.Context, message *domain.Message) error

	// SendEmail composes and submits an HTML email through the user's
	// remote mailbox, returning the remote-assigned message id.
	SendEmail(ctx context.Context, userID, to, cc, bcc, subject, body string) (string, error)
}
