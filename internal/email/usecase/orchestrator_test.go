package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	authdomain "postbox-backend/internal/auth/domain"
	"postbox-backend/internal/email/domain"
)

func TestRunIncrementalSyncAllAccounts_FiltersInvalidCredentials(t *testing.T) {
	expired := validAccount("u-expired")
	expired.ExpiresAt = time.Now().Add(-time.Hour)

	accounts := map[string]*authdomain.GoogleAccount{
		"u-ok":      validAccount("u-ok"),
		"u-expired": expired,
		// u-none has no stored account at all
	}

	userRepo := &mockUserRepo{
		listSyncCandidatesFunc: func(limit int) ([]authdomain.User, error) {
			if limit != 25 {
				t.Errorf("batch limit = %d, want 25", limit)
			}
			return []authdomain.User{*testUser("u-ok"), *testUser("u-expired"), *testUser("u-none")}, nil
		},
		findGoogleAccountFunc: func(userID string) (*authdomain.GoogleAccount, error) {
			return accounts[userID], nil
		},
		findByIDFunc: func(id string) (*authdomain.User, error) {
			return testUser(id), nil
		},
	}

	var stamped []string
	userRepo.stampLastSyncedAtFunc = func(userID string, ts time.Time) error {
		stamped = append(stamped, userID)
		return nil
	}

	uc := newTestUsecase(userRepo, nil, nil, &mockMailSource{}, nil)

	updated, err := uc.RunIncrementalSyncAllAccounts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(updated) != 1 || updated[0] != "u-ok@example.com" {
		t.Errorf("updated = %v, want only u-ok@example.com", updated)
	}
	if len(stamped) != 1 || stamped[0] != "u-ok" {
		t.Errorf("stamped = %v, want only u-ok", stamped)
	}
}

func TestRunBackfillAllAccounts_StepFailureSkipsStamp(t *testing.T) {
	userRepo := &mockUserRepo{
		listSyncCandidatesFunc: func(limit int) ([]authdomain.User, error) {
			return []authdomain.User{*testUser("u-fail"), *testUser("u-ok")}, nil
		},
		findGoogleAccountFunc: func(userID string) (*authdomain.GoogleAccount, error) {
			return validAccount(userID), nil
		},
		findByIDFunc: func(id string) (*authdomain.User, error) {
			historyID := uint64(4000)
			user := testUser(id)
			user.LastHistoryID = &historyID
			return user, nil
		},
	}

	var stamped []string
	userRepo.stampLastSyncedAtFunc = func(userID string, ts time.Time) error {
		stamped = append(stamped, userID)
		return nil
	}

	// The batch runs strictly sequentially, so the first listing call
	// belongs to u-fail.
	calls := 0
	source := &mockMailSource{
		listMessagesFunc: func(ctx context.Context, accessToken, refreshToken, pageToken string, pageSize int64, onTokenRefresh domain.TokenUpdateFunc) (*domain.MessagePage, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("quota exceeded")
			}
			return &domain.MessagePage{}, nil
		},
	}

	uc := newTestUsecase(userRepo, nil, nil, source, nil)

	updated, err := uc.RunBackfillAllAccounts(context.Background())
	if err != nil {
		t.Fatalf("one failing account must not fail the batch: %v", err)
	}
	if len(updated) != 1 || updated[0] != "u-ok@example.com" {
		t.Errorf("updated = %v, want only u-ok@example.com", updated)
	}
}

func TestRunAllAccounts_RunsSequentially(t *testing.T) {
	userRepo := &mockUserRepo{
		listSyncCandidatesFunc: func(limit int) ([]authdomain.User, error) {
			return []authdomain.User{*testUser("u1"), *testUser("u2"), *testUser("u3")}, nil
		},
		findGoogleAccountFunc: func(userID string) (*authdomain.GoogleAccount, error) {
			return validAccount(userID), nil
		},
	}

	var order []string
	userRepo.findByIDFunc = func(id string) (*authdomain.User, error) {
		order = append(order, id)
		return testUser(id), nil
	}

	uc := newTestUsecase(userRepo, nil, nil, &mockMailSource{}, nil)

	if _, err := uc.RunIncrementalSyncAllAccounts(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"u1", "u2", "u3"}
	if len(order) != len(want) {
		t.Fatalf("steps ran %d times, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("step %d ran for %q, want %q (batch order must be preserved)", i, order[i], want[i])
		}
	}
}

func TestRunAllAccounts_CandidateListingErrorPropagates(t *testing.T) {
	listErr := errors.New("db down")
	userRepo := &mockUserRepo{
		listSyncCandidatesFunc: func(limit int) ([]authdomain.User, error) {
			return nil, listErr
		},
	}

	uc := newTestUsecase(userRepo, nil, nil, nil, nil)

	if _, err := uc.RunBackfillAllAccounts(context.Background()); !errors.Is(err, listErr) {
		t.Fatalf("expected listing error, got: %v", err)
	}
}
