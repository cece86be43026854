package usecase

import (
	"context"
	"strings"
	"time"

	authdomain "postbox-backend/internal/auth/domain"
	"postbox-backend/internal/email/domain"
	"postbox-backend/pkg/config"
)

// mockUserRepo implements repository.UserRepository for testing.
type mockUserRepo struct {
	findByIDFunc           func(id string) (*authdomain.User, error)
	findGoogleAccountFunc  func(userID string) (*authdomain.GoogleAccount, error)
	saveGoogleAccountFunc  func(account *authdomain.GoogleAccount) error
	updateCheckpointFunc   func(userID string, nextPageToken *string, isSynced bool) error
	setLastHistoryIDFunc   func(userID string, historyID uint64) error
	resetCheckpointFunc    func(userID string) error
	stampLastSyncedAtFunc  func(userID string, t time.Time) error
	listSyncCandidatesFunc func(limit int) ([]authdomain.User, error)
}

func (m *mockUserRepo) Create(user *authdomain.User) error { return nil }

func (m *mockUserRepo) FindByEmail(email string) (*authdomain.User, error) { return nil, nil }

func (m *mockUserRepo) FindByID(id string) (*authdomain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(id)
	}
	return nil, nil
}

func (m *mockUserRepo) Update(user *authdomain.User) error { return nil }

func (m *mockUserRepo) SaveRefreshToken(token *authdomain.RefreshToken) error { return nil }

func (m *mockUserRepo) FindRefreshToken(token string) (*authdomain.RefreshToken, error) {
	return nil, nil
}

func (m *mockUserRepo) DeleteRefreshToken(token string) error { return nil }

func (m *mockUserRepo) SaveGoogleAccount(account *authdomain.GoogleAccount) error {
	if m.saveGoogleAccountFunc != nil {
		return m.saveGoogleAccountFunc(account)
	}
	return nil
}

func (m *mockUserRepo) FindGoogleAccount(userID string) (*authdomain.GoogleAccount, error) {
	if m.findGoogleAccountFunc != nil {
		return m.findGoogleAccountFunc(userID)
	}
	return nil, nil
}

func (m *mockUserRepo) UpdateCheckpoint(userID string, nextPageToken *string, isSynced bool) error {
	if m.updateCheckpointFunc != nil {
		return m.updateCheckpointFunc(userID, nextPageToken, isSynced)
	}
	return nil
}

func (m *mockUserRepo) SetLastHistoryID(userID string, historyID uint64) error {
	if m.setLastHistoryIDFunc != nil {
		return m.setLastHistoryIDFunc(userID, historyID)
	}
	return nil
}

func (m *mockUserRepo) ResetCheckpoint(userID string) error {
	if m.resetCheckpointFunc != nil {
		return m.resetCheckpointFunc(userID)
	}
	return nil
}

func (m *mockUserRepo) StampLastSyncedAt(userID string, t time.Time) error {
	if m.stampLastSyncedAtFunc != nil {
		return m.stampLastSyncedAtFunc(userID, t)
	}
	return nil
}

func (m *mockUserRepo) ListSyncCandidates(limit int) ([]authdomain.User, error) {
	if m.listSyncCandidatesFunc != nil {
		return m.listSyncCandidatesFunc(limit)
	}
	return nil, nil
}

// mockThreadRepo implements repository.ThreadRepository for testing.
type mockThreadRepo struct {
	upsertBatchFunc func(threads []domain.Thread) error
	listByUserFunc  func(userID, query, cursor string, limit int) ([]domain.Thread, string, error)
}

func (m *mockThreadRepo) UpsertBatch(threads []domain.Thread) error {
	if m.upsertBatchFunc != nil {
		return m.upsertBatchFunc(threads)
	}
	return nil
}

func (m *mockThreadRepo) ListByUser(userID, query, cursor string, limit int) ([]domain.Thread, string, error) {
	if m.listByUserFunc != nil {
		return m.listByUserFunc(userID, query, cursor, limit)
	}
	return nil, "", nil
}

// mockMessageRepo implements repository.MessageRepository for testing.
type mockMessageRepo struct {
	upsertBatchFunc func(messages []domain.Message) error
	findByIDFunc    func(id string) (*domain.Message, error)
	updateLinkFunc  func(id, link string) error
}

func (m *mockMessageRepo) UpsertBatch(messages []domain.Message) error {
	if m.upsertBatchFunc != nil {
		return m.upsertBatchFunc(messages)
	}
	return nil
}

func (m *mockMessageRepo) FindByID(id string) (*domain.Message, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(id)
	}
	return nil, nil
}

func (m *mockMessageRepo) UpdateLink(id, link string) error {
	if m.updateLinkFunc != nil {
		return m.updateLinkFunc(id, link)
	}
	return nil
}

// mockMailSource implements domain.MailSource for testing.
type mockMailSource struct {
	listMessagesFunc      func(ctx context.Context, accessToken, refreshToken, pageToken string, pageSize int64, onTokenRefresh domain.TokenUpdateFunc) (*domain.MessagePage, error)
	listHistoryFunc       func(ctx context.Context, accessToken, refreshToken string, startHistoryID uint64, pageSize int64, onTokenRefresh domain.TokenUpdateFunc) (*domain.HistoryPage, error)
	getRawMessageFunc     func(ctx context.Context, accessToken, refreshToken, id string, onTokenRefresh domain.TokenUpdateFunc) (*domain.RawMessage, error)
	getMinimalMessageFunc func(ctx context.Context, accessToken, refreshToken, id string, onTokenRefresh domain.TokenUpdateFunc) (uint64, error)
	sendFunc              func(ctx context.Context, accessToken, refreshToken string, raw []byte, onTokenRefresh domain.TokenUpdateFunc) (string, error)
}

func (m *mockMailSource) ListMessages(ctx context.Context, accessToken, refreshToken, pageToken string, pageSize int64, onTokenRefresh domain.TokenUpdateFunc) (*domain.MessagePage, error) {
	if m.listMessagesFunc != nil {
		return m.listMessagesFunc(ctx, accessToken, refreshToken, pageToken, pageSize, onTokenRefresh)
	}
	return &domain.MessagePage{}, nil
}

func (m *mockMailSource) ListHistory(ctx context.Context, accessToken, refreshToken string, startHistoryID uint64, pageSize int64, onTokenRefresh domain.TokenUpdateFunc) (*domain.HistoryPage, error) {
	if m.listHistoryFunc != nil {
		return m.listHistoryFunc(ctx, accessToken, refreshToken, startHistoryID, pageSize, onTokenRefresh)
	}
	return &domain.HistoryPage{}, nil
}

func (m *mockMailSource) GetRawMessage(ctx context.Context, accessToken, refreshToken, id string, onTokenRefresh domain.TokenUpdateFunc) (*domain.RawMessage, error) {
	if m.getRawMessageFunc != nil {
		return m.getRawMessageFunc(ctx, accessToken, refreshToken, id, onTokenRefresh)
	}
	return &domain.RawMessage{ID: id, Raw: rawHTMLEmail(id)}, nil
}

func (m *mockMailSource) GetMinimalMessage(ctx context.Context, accessToken, refreshToken, id string, onTokenRefresh domain.TokenUpdateFunc) (uint64, error) {
	if m.getMinimalMessageFunc != nil {
		return m.getMinimalMessageFunc(ctx, accessToken, refreshToken, id, onTokenRefresh)
	}
	return 0, nil
}

func (m *mockMailSource) Send(ctx context.Context, accessToken, refreshToken string, raw []byte, onTokenRefresh domain.TokenUpdateFunc) (string, error) {
	if m.sendFunc != nil {
		return m.sendFunc(ctx, accessToken, refreshToken, raw, onTokenRefresh)
	}
	return "sent-id", nil
}

// mockLinkStore implements domain.LinkStore for testing.
type mockLinkStore struct {
	putFunc       func(ctx context.Context, key string, body []byte) error
	getFunc       func(ctx context.Context, key string) ([]byte, error)
	signedURLFunc func(ctx context.Context, key string, ttl time.Duration) (string, error)
}

func (m *mockLinkStore) Put(ctx context.Context, key string, body []byte) error {
	if m.putFunc != nil {
		return m.putFunc(ctx, key, body)
	}
	return nil
}

func (m *mockLinkStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	return nil, nil
}

func (m *mockLinkStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if m.signedURLFunc != nil {
		return m.signedURLFunc(ctx, key, ttl)
	}
	return "https://bucket.example.com/" + key + "?X-Amz-Date=" + time.Now().UTC().Format("20060102T150405Z") + "&X-Amz-Expires=604800", nil
}

func testConfig() *config.Config {
	return &config.Config{
		SignedURLTTL:  168 * time.Hour,
		SyncPageSize:  100,
		SyncBatchSize: 25,
	}
}

func validAccount(userID string) *authdomain.GoogleAccount {
	return &authdomain.GoogleAccount{
		UserID:       userID,
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

func testUser(id string) *authdomain.User {
	return &authdomain.User{
		ID:    id,
		Email: id + "@example.com",
	}
}

// rawHTMLEmail builds a complete multipart message with both a plain and an
// HTML body, carrying every field the ingestor requires.
func rawHTMLEmail(id string) []byte {
	lines := []string{
		"From: Alice <alice@example.com>",
		"To: Bob <bob@example.com>",
		"Subject: Message " + id,
		"Date: Mon, 20 Jan 2025 10:00:00 +0000",
		"Message-ID: <" + id + "@example.com>",
		"MIME-Version: 1.0",
		`Content-Type: multipart/alternative; boundary="b1"`,
		"",
		"--b1",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"plain body " + id,
		"--b1",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<p>html body " + id + "</p>",
		"--b1--",
		"",
	}
	return []byte(strings.Join(lines, "\r\n"))
}

// rawPlainEmail builds a text-only message, which the ingestor skips.
func rawPlainEmail(id string) []byte {
	lines := []string{
		"From: Alice <alice@example.com>",
		"To: Bob <bob@example.com>",
		"Subject: Message " + id,
		"Date: Mon, 20 Jan 2025 10:00:00 +0000",
		"Message-ID: <" + id + "@example.com>",
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"plain body only",
		"",
	}
	return []byte(strings.Join(lines, "\r\n"))
}

func newTestUsecase(userRepo *mockUserRepo, threadRepo *mockThreadRepo, messageRepo *mockMessageRepo, source *mockMailSource, store *mockLinkStore) SyncUsecase {
	if userRepo == nil {
		userRepo = &mockUserRepo{}
	}
	if threadRepo == nil {
		threadRepo = &mockThreadRepo{}
	}
	if messageRepo == nil {
		messageRepo = &mockMessageRepo{}
	}
	if source == nil {
		source = &mockMailSource{}
	}
	if store == nil {
		store = &mockLinkStore{}
	}
	return NewSyncUsecase(userRepo, threadRepo, messageRepo, source, store, testConfig())
}
