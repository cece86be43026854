package domain

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
)

// TokenUpdateFunc is a callback invoked when the provider refreshes an access token
type TokenUpdateFunc func(token *oauth2.Token) error

// ErrHistoryExpired is returned by ListHistory when the remote mailbox no
// longer accepts the given start id (its change log has rolled past it).
// It is a recovery signal, not a transient failure: the caller must fall
// back to a full backfill.
var ErrHistoryExpired = errors.New("start history id expired or invalid")

// MessageRef is a lightweight reference to a remote message.
type MessageRef struct {
	ID       string
	ThreadID string
}

// MessagePage is one page of the remote mailbox listing.
type MessagePage struct {
	Refs          []MessageRef
	NextPageToken string // empty when no further pages remain
}

// RawMessage is the full unparsed RFC-5322 content of one message.
type RawMessage struct {
	ID      string
	Raw     []byte
	Snippet string
}

// HistoryEntry is one entry of the remote change log.
type HistoryEntry struct {
	ID      uint64
	Added   []MessageRef
	Removed []MessageRef
}

// HistoryPage is one bounded page of change-log entries.
type HistoryPage struct {
	Entries []HistoryEntry
}

// MailSource abstracts the remote mailbox (Gmail in production).
// Credentials are passed per call; implementations hold no per-user state.
type MailSource interface {
	ListMessages(ctx context.Context, accessToken, refreshToken, pageToken string, pageSize int64, onTokenRefresh TokenUpdateFunc) (*MessagePage, error)
	ListHistory(ctx context.Context, accessToken, refreshToken string, startHistoryID uint64, pageSize int64, onTokenRefresh TokenUpdateFunc) (*HistoryPage, error)
	GetRawMessage(ctx context.Context, accessToken, refreshToken, id string, onTokenRefresh TokenUpdateFunc) (*RawMessage, error)
	GetMinimalMessage(ctx context.Context, accessToken, refreshToken, id string, onTokenRefresh TokenUpdateFunc) (uint64, error)
	Send(ctx context.Context, accessToken, refreshToken string, raw []byte, onTokenRefresh TokenUpdateFunc) (string, error)
}
