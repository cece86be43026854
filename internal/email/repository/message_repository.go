package repository

import (
	"errors"

	"postbox-backend/internal/email/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// messageRepository implements MessageRepository interface
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new instance of messageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{
		db: db,
	}
}

func (r *messageRepository) UpsertBatch(messages []domain.Message) error {
	if len(messages) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"thread_id", "email_raw_id", "subject", "snippet", "plain_text",
			"html_body_link", "headers", "date", "from", "to", "cc", "bcc",
			"reply_to", "in_reply_to", "priority",
		}),
	}).Create(&messages).Error
}

func (r *messageRepository) FindByID(id string) (*domain.Message, error) {
	var message domain.Message
	err := r.db.Where("id = ?", id).First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) UpdateLink(id, link string) error {
	return r.db.Model(&domain.Message{}).Where("id = ?", id).
		Update("html_body_link", link).Error
}
