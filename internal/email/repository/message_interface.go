package repository

import (
	"postbox-backend/internal/email/domain"
)

// MessageRepository defines the interface for message persistence
type MessageRepository interface {
	// UpsertBatch writes all messages in one atomic statement: new ids are
	// created, existing ids have every mutable field overwritten. Safe to
	// repeat with the same input.
	UpsertBatch(messages []domain.Message) error
	FindByID(id string) (*domain.Message, error)
	// UpdateLink replaces only the signed body link of a message.
	UpdateLink(id, link string) error
}
