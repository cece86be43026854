package repository

import (
	"postbox-backend/internal/email/domain"
)

// ThreadRepository defines the interface for thread persistence
type ThreadRepository interface {
	// UpsertBatch creates any threads that do not exist yet in a single
	// statement. Existing rows are left untouched.
	UpsertBatch(threads []domain.Thread) error
	// ListByUser pages through a user's threads newest-id first with their
	// messages preloaded. query filters on message subject/body containment;
	// cursor is the id of the last thread of the previous page ("" for the
	// first page). Returns the page and the cursor for the next one.
	ListByUser(userID, query, cursor string, limit int) ([]domain.Thread, string, error)
}
