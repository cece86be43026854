package repository

import (
	"postbox-backend/internal/email/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// threadRepository implements ThreadRepository interface
type threadRepository struct {
	db *gorm.DB
}

// NewThreadRepository creates a new instance of threadRepository
func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepository{
		db: db,
	}
}

// UpsertBatch inserts missing threads with ON CONFLICT DO NOTHING, so
// re-ingesting the same references is a no-op.
func (r *threadRepository) UpsertBatch(threads []domain.Thread) error {
	if len(threads) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&threads).Error
}

func (r *threadRepository) ListByUser(userID, query, cursor string, limit int) ([]domain.Thread, string, error) {
	var threads []domain.Thread

	q := r.db.Preload("Messages").
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit)

	if query != "" {
		pattern := "%" + query + "%"
		q = q.Where(
			"EXISTS (SELECT 1 FROM messages WHERE messages.thread_id = threads.id AND (messages.subject ILIKE ? OR messages.plain_text ILIKE ?))",
			pattern, pattern,
		)
	}

	if cursor != "" {
		q = q.Where("id < ?", cursor)
	}

	if err := q.Find(&threads).Error; err != nil {
		return nil, "", err
	}

	if len(threads) == 0 {
		return threads, "", nil
	}
	return threads, threads[len(threads)-1].ID, nil
}
