package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/it-literature-shop/internal/domains/catalog/domain"
	"github.com/Apurer/it-literature-shop/internal/domains/catalog/ports"
	"github.com/Apurer/it-literature-shop/internal/shared/projection"
)

var _ ports.GenreRepository = (*GenreRepository)(nil)

// GenreRepository persists genres using GORM. Deletes are soft.
type GenreRepository struct {
	db *gorm.DB
}

// NewGenreRepository wires a GORM-backed repository. Caller manages DB lifecycle.
func NewGenreRepository(db *gorm.DB) *GenreRepository {
	return &GenreRepository{db: db}
}

type genreRecord struct {
	ID        string         `gorm:"primaryKey;column:id;type:varchar(36)"`
	Name      string         `gorm:"column:name;size:255"`
	CreatedAt time.Time      `gorm:"column:created_at;index"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (genreRecord) TableName() string { return "genres" }

func (r *GenreRepository) Create(ctx context.Context, genre *domain.Genre) (*ports.GenreProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if genre == nil {
		return nil, errors.New("genre is nil")
	}
	record := genreRecord{ID: genre.ID, Name: genre.Name}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, translateGenreError(err)
	}
	return record.toProjection(), nil
}

func (r *GenreRepository) GetByID(ctx context.Context, id string) (*ports.GenreProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record genreRecord
	if err := r.db.WithContext(ctx).Take(&record, "id = ?", id).Error; err != nil {
		return nil, translateGenreError(err)
	}
	return record.toProjection(), nil
}

func (r *GenreRepository) FindActiveByName(ctx context.Context, name, excludeID string) (*ports.GenreProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var record genreRecord
	if err := query.Take(&record).Error; err != nil {
		return nil, translateGenreError(err)
	}
	return record.toProjection(), nil
}

func (r *GenreRepository) FindDeletedByName(ctx context.Context, name string) (*ports.GenreProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record genreRecord
	err := r.db.WithContext(ctx).Unscoped().
		Where("LOWER(name) = LOWER(?) AND deleted_at IS NOT NULL", name).
		Order("deleted_at DESC").
		Take(&record).Error
	if err != nil {
		return nil, translateGenreError(err)
	}
	return record.toProjection(), nil
}

// Restore clears the soft-delete marker and returns the genre as it is now.
func (r *GenreRepository) Restore(ctx context.Context, id string) (*ports.GenreProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).Unscoped().Model(&genreRecord{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Updates(map[string]any{"deleted_at": nil, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return nil, translateGenreError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrGenreNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *GenreRepository) Update(ctx context.Context, genre *domain.Genre) (*ports.GenreProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if genre == nil {
		return nil, errors.New("genre is nil")
	}
	result := r.db.WithContext(ctx).Model(&genreRecord{}).
		Where("id = ?", genre.ID).
		Updates(map[string]any{"name": genre.Name, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return nil, translateGenreError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrGenreNotFound
	}
	return r.GetByID(ctx, genre.ID)
}

// Delete soft-deletes an active genre. Books keep referencing it.
func (r *GenreRepository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&genreRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrGenreNotFound
	}
	return nil
}

// List returns active genres ordered by name.
func (r *GenreRepository) List(ctx context.Context) ([]*ports.GenreProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []genreRecord
	if err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	genres := make([]*ports.GenreProjection, 0, len(records))
	for i := range records {
		genres = append(genres, records[i].toProjection())
	}
	return genres, nil
}

func (r *GenreRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("genre repository not configured")
	}
	return nil
}

func translateGenreError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ports.ErrGenreNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ports.ErrDuplicateGenre
	default:
		return err
	}
}

func (r genreRecord) toProjection() *ports.GenreProjection {
	return projection.New(&domain.Genre{ID: r.ID, Name: r.Name}, r.CreatedAt, r.UpdatedAt)
}
