package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/it-literature-shop/internal/domains/users/domain"
	"github.com/Apurer/it-literature-shop/internal/domains/users/ports"
	"github.com/Apurer/it-literature-shop/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists users using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a GORM-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type userRecord struct {
	ID           string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	Username     string    `gorm:"column:username;size:100;uniqueIndex"`
	Email        string    `gorm:"column:email;size:255;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;size:255"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Create inserts a new user. Unique violations surface as duplicate errors.
func (r *Repository) Create(ctx context.Context, user *domain.User) (*ports.UserProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user is nil")
	}
	record := toRecord(user)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, r.duplicateCause(ctx, user)
		}
		return nil, err
	}
	return record.toProjection(), nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*ports.UserProjection, error) {
	return r.getBy(ctx, "id = ?", id)
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*ports.UserProjection, error) {
	return r.getBy(ctx, "email = ?", domain.NormalizeEmail(email))
}

func (r *Repository) EmailTaken(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", domain.NormalizeEmail(email))
}

func (r *Repository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", strings.TrimSpace(username))
}

func (r *Repository) getBy(ctx context.Context, query string, arg any) (*ports.UserProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record userRecord
	if err := r.db.WithContext(ctx).Take(&record, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

func (r *Repository) exists(ctx context.Context, query string, arg any) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&userRecord{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// duplicateCause tells which unique column a concurrent insert collided on.
func (r *Repository) duplicateCause(ctx context.Context, user *domain.User) error {
	if taken, err := r.EmailTaken(ctx, user.Email); err == nil && taken {
		return ports.ErrDuplicateEmail
	}
	return ports.ErrDuplicateUsername
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("user repository not configured")
	}
	return nil
}

func toRecord(user *domain.User) userRecord {
	return userRecord{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
	}
}

func (r userRecord) toProjection() *ports.UserProjection {
	user := &domain.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
	}
	return projection.New(user, r.CreatedAt, r.UpdatedAt)
}
