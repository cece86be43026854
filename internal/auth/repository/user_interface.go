package repository

import (
	"time"

	authdomain "postbox-backend/internal/auth/domain"
)

// UserRepository defines persistence for users, their refresh tokens, their
// Google credential and the per-user sync checkpoint.
type UserRepository interface {
	Create(user *authdomain.User) error
	FindByEmail(email string) (*authdomain.User, error)
	FindByID(id string) (*authdomain.User, error)
	Update(user *authdomain.User) error

	SaveRefreshToken(token *authdomain.RefreshToken) error
	FindRefreshToken(token string) (*authdomain.RefreshToken, error)
	DeleteRefreshToken(token string) error

	SaveGoogleAccount(account *authdomain.GoogleAccount) error
	FindGoogleAccount(userID string) (*authdomain.GoogleAccount, error)

	// UpdateCheckpoint persists the backfill cursor. A nil nextPageToken
	// together with isSynced=true marks backfill complete.
	UpdateCheckpoint(userID string, nextPageToken *string, isSynced bool) error
	// SetLastHistoryID advances the incremental sync cursor.
	SetLastHistoryID(userID string, historyID uint64) error
	// ResetCheckpoint clears the whole checkpoint, forcing a fresh backfill.
	ResetCheckpoint(userID string) error
	// StampLastSyncedAt records when a driver last ran for batch ordering.
	StampLastSyncedAt(userID string, t time.Time) error
	// ListSyncCandidates returns up to limit users, least recently synced
	// first (never-synced users sort before all others).
	ListSyncCandidates(limit int) ([]authdomain.User, error)
}
