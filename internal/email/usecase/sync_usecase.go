package usecase

import (
	"log"

	authdomain "postbox-backend/internal/auth/domain"
	authrepo "postbox-backend/internal/auth/repository"
	"postbox-backend/internal/email/domain"
	"postbox-backend/internal/email/repository"
	"postbox-backend/pkg/config"

	"golang.org/x/oauth2"
)

// maxConcurrentFetches bounds the per-batch fan-out against the remote
// mailbox so one large page cannot exhaust its rate limit.
const maxConcurrentFetches = 10

// syncUsecase implements SyncUsecase interface
type syncUsecase struct {
	userRepo    authrepo.UserRepository
	threadRepo  repository.ThreadRepository
	messageRepo repository.MessageRepository
	mailSource  domain.MailSource
	linkStore   domain.LinkStore
	config      *config.Config
}

// NewSyncUsecase creates a new instance of syncUsecase
func NewSyncUsecase(userRepo authrepo.UserRepository, threadRepo repository.ThreadRepository, messageRepo repository.MessageRepository, mailSource domain.MailSource, linkStore domain.LinkStore, cfg *config.Config) SyncUsecase {
	return &syncUsecase{
		userRepo:    userRepo,
		threadRepo:  threadRepo,
		messageRepo: messageRepo,
		mailSource:  mailSource,
		linkStore:   linkStore,
		config:      cfg,
	}
}

// credential returns the user's stored Google account, or nil when the user
// has none. A missing credential is "nothing to do", not a fault.
func (u *syncUsecase) credential(userID string) (*authdomain.GoogleAccount, error) {
	return u.userRepo.FindGoogleAccount(userID)
}

// makeTokenUpdateCallback persists refreshed access tokens
func (u *syncUsecase) makeTokenUpdateCallback(userID string) domain.TokenUpdateFunc {
	return func(token *oauth2.Token) error {
		account, err := u.userRepo.FindGoogleAccount(userID)
		if err != nil || account == nil {
			return err
		}
		account.AccessToken = token.AccessToken
		if token.RefreshToken != "" {
			account.RefreshToken = token.RefreshToken
		}
		account.ExpiresAt = token.Expiry
		if err := u.userRepo.SaveGoogleAccount(account); err != nil {
			log.Printf("[Sync] Failed to persist refreshed token for user %s: %v", userID, err)
			return err
		}
		return nil
	}
}

func strPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
