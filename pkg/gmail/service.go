package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	emaildomain "postbox-backend/internal/email/domain"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// TokenUpdateFunc is a callback function that handles token updates
type TokenUpdateFunc = emaildomain.TokenUpdateFunc

// Service implements emaildomain.MailSource against the Gmail API. Clients
// are constructed per call from the passed credentials; the service itself
// holds only the OAuth app identity.
type Service struct {
	clientID     string
	clientSecret string
}

type notifyTokenSource struct {
	src      oauth2.TokenSource
	current  *oauth2.Token
	callback TokenUpdateFunc
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.callback != nil && s.current.AccessToken != t.AccessToken {
		s.current = t
		if err := s.callback(t); err != nil {
			fmt.Printf("Failed to update token: %v\n", err)
		}
	}
	return t, nil
}

func NewService(clientID, clientSecret string) *Service {
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// getGmailService creates a Gmail service with the user's access token
func (s *Service) getGmailService(ctx context.Context, accessToken, refreshToken string, onTokenRefresh TokenUpdateFunc) (*gmail.Service, error) {
	token := &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	}

	// Only force refresh if we have a refresh token
	if refreshToken != "" {
		token.Expiry = time.Now()
	}

	config := &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     google.Endpoint,
	}

	tokenSource := config.TokenSource(ctx, token)

	// Wrap token source to detect refreshes
	wrappedSource := &notifyTokenSource{
		src:      tokenSource,
		current:  token,
		callback: onTokenRefresh,
	}

	client := oauth2.NewClient(ctx, wrappedSource)

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %v", err)
	}

	return srv, nil
}

// ListMessages fetches one page of the mailbox listing.
func (s *Service) ListMessages(ctx context.Context, accessToken, refreshToken, pageToken string, pageSize int64, onTokenRefresh TokenUpdateFunc) (*emaildomain.MessagePage, error) {
	srv, err := s.getGmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return nil, err
	}

	call := srv.Users.Messages.List("me").MaxResults(pageSize).Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list messages: %v", err)
	}

	page := &emaildomain.MessagePage{
		Refs:          make([]emaildomain.MessageRef, 0, len(resp.Messages)),
		NextPageToken: resp.NextPageToken,
	}
	for _, msg := range resp.Messages {
		page.Refs = append(page.Refs, emaildomain.MessageRef{
			ID:       msg.Id,
			ThreadID: msg.ThreadId,
		})
	}

	return page, nil
}

// ListHistory fetches change-log entries since startHistoryID. A rejected
// start id is reported as emaildomain.ErrHistoryExpired, distinct from
// transient failures.
func (s *Service) ListHistory(ctx context.Context, accessToken, refreshToken string, startHistoryID uint64, pageSize int64, onTokenRefresh TokenUpdateFunc) (*emaildomain.HistoryPage, error) {
	srv, err := s.getGmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return nil, err
	}

	resp, err := srv.Users.History.List("me").
		StartHistoryId(startHistoryID).
		MaxResults(pageSize).
		Context(ctx).
		Do()
	if err != nil {
		if isHistoryExpired(err) {
			return nil, fmt.Errorf("%w: %v", emaildomain.ErrHistoryExpired, err)
		}
		return nil, fmt.Errorf("unable to list history: %v", err)
	}

	page := &emaildomain.HistoryPage{
		Entries: make([]emaildomain.HistoryEntry, 0, len(resp.History)),
	}
	for _, h := range resp.History {
		entry := emaildomain.HistoryEntry{ID: h.Id}
		for _, added := range h.MessagesAdded {
			if added.Message != nil {
				entry.Added = append(entry.Added, emaildomain.MessageRef{
					ID:       added.Message.Id,
					ThreadID: added.Message.ThreadId,
				})
			}
		}
		for _, deleted := range h.MessagesDeleted {
			if deleted.Message != nil {
				entry.Removed = append(entry.Removed, emaildomain.MessageRef{
					ID:       deleted.Message.Id,
					ThreadID: deleted.Message.ThreadId,
				})
			}
		}
		page.Entries = append(page.Entries, entry)
	}

	return page, nil
}

// Gmail reports an expired or invalid startHistoryId as 404; some proxies
// surface it as a 400 mentioning the parameter.
func isHistoryExpired(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Code == 404 {
		return true
	}
	return apiErr.Code == 400 && strings.Contains(apiErr.Message, "startHistoryId")
}

// GetRawMessage fetches the full raw RFC-5322 content of a message.
func (s *Service) GetRawMessage(ctx context.Context, accessToken, refreshToken, id string, onTokenRefresh TokenUpdateFunc) (*emaildomain.RawMessage, error) {
	srv, err := s.getGmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return nil, err
	}

	msg, err := srv.Users.Messages.Get("me", id).Format("raw").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve message: %v", err)
	}

	raw, err := base64.URLEncoding.DecodeString(msg.Raw)
	if err != nil {
		return nil, fmt.Errorf("unable to decode raw message %s: %v", id, err)
	}

	return &emaildomain.RawMessage{
		ID:      msg.Id,
		Raw:     raw,
		Snippet: msg.Snippet,
	}, nil
}

// GetMinimalMessage fetches only the message metadata and returns its
// history id.
func (s *Service) GetMinimalMessage(ctx context.Context, accessToken, refreshToken, id string, onTokenRefresh TokenUpdateFunc) (uint64, error) {
	srv, err := s.getGmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return 0, err
	}

	msg, err := srv.Users.Messages.Get("me", id).Format("minimal").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("unable to retrieve message: %v", err)
	}

	return msg.HistoryId, nil
}

// Send submits a raw RFC-5322 message and returns the remote-assigned id.
func (s *Service) Send(ctx context.Context, accessToken, refreshToken string, raw []byte, onTokenRefresh TokenUpdateFunc) (string, error) {
	srv, err := s.getGmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return "", err
	}

	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}

	sent, err := srv.Users.Messages.Send("me", msg).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to send message: %v", err)
	}

	return sent.Id, nil
}
