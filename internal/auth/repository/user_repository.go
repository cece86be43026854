package repository

import (
	"errors"
	"time"

	authdomain "postbox-backend/internal/auth/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of userRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) Create(user *authdomain.User) error {
	user.ID = uuid.New().String()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	return r.db.Create(user).Error
}

func (r *userRepository) FindByEmail(email string) (*authdomain.User, error) {
	var user authdomain.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(id string) (*authdomain.User, error) {
	var user authdomain.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(user *authdomain.User) error {
	user.UpdatedAt = time.Now()
	return r.db.Save(user).Error
}

func (r *userRepository) SaveRefreshToken(token *authdomain.RefreshToken) error {
	return r.db.Create(token).Error
}

func (r *userRepository) FindRefreshToken(token string) (*authdomain.RefreshToken, error) {
	var refreshToken authdomain.RefreshToken
	err := r.db.Where("token = ?", token).First(&refreshToken).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &refreshToken, nil
}

func (r *userRepository) DeleteRefreshToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&authdomain.RefreshToken{}).Error
}

// SaveGoogleAccount upserts the credential record for a user (atomic upsert)
func (r *userRepository) SaveGoogleAccount(account *authdomain.GoogleAccount) error {
	account.UpdatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "refresh_token", "expires_at", "updated_at"}),
	}).Create(account).Error
}

func (r *userRepository) FindGoogleAccount(userID string) (*authdomain.GoogleAccount, error) {
	var account authdomain.GoogleAccount
	err := r.db.Where("user_id = ?", userID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *userRepository) UpdateCheckpoint(userID string, nextPageToken *string, isSynced bool) error {
	return r.db.Model(&authdomain.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"next_page_token": nextPageToken,
		"is_synced":       isSynced,
		"updated_at":      time.Now(),
	}).Error
}

func (r *userRepository) SetLastHistoryID(userID string, historyID uint64) error {
	return r.db.Model(&authdomain.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"last_history_id": historyID,
		"updated_at":      time.Now(),
	}).Error
}

func (r *userRepository) ResetCheckpoint(userID string) error {
	return r.db.Model(&authdomain.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"last_history_id": nil,
		"next_page_token": nil,
		"is_synced":       false,
		"updated_at":      time.Now(),
	}).Error
}

func (r *userRepository) StampLastSyncedAt(userID string, t time.Time) error {
	return r.db.Model(&authdomain.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"last_synced_at": t,
		"updated_at":     time.Now(),
	}).Error
}

func (r *userRepository) ListSyncCandidates(limit int) ([]authdomain.User, error) {
	var users []authdomain.User
	err := r.db.Order("last_synced_at ASC NULLS FIRST").Limit(limit).Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with a hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
