package domain

import "time"

// User owns one synced mailbox. The Last*/NextPageToken/IsSynced fields form
// the sync checkpoint: all null/false means "never synced"; they are reset
// together when the remote history cursor is invalidated.
type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Password      string     `json:"-"` // Never return password in JSON
	Name          string     `json:"name"`
	Provider      string     `json:"provider"` // "email" or "google"
	LastHistoryID *uint64    `json:"last_history_id,omitempty"`
	NextPageToken *string    `json:"next_page_token,omitempty"`
	IsSynced      bool       `json:"is_synced"`
	LastSyncedAt  *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type RefreshToken struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GoogleAccount holds the remote mailbox credential for a user. The sync
// engine treats it as an opaque input; refreshing it is an external concern.
type GoogleAccount struct {
	UserID       string    `json:"user_id" gorm:"primaryKey"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Valid reports whether the stored credential can still be presented to the
// remote mailbox.
func (a *GoogleAccount) Valid() bool {
	return a.AccessToken != "" && a.ExpiresAt.After(time.Now())
}
