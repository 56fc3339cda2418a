package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/it-literature-shop/internal/domains/catalog/domain"
	"github.com/Apurer/it-literature-shop/internal/domains/catalog/ports"
	"github.com/Apurer/it-literature-shop/internal/shared/projection"
)

var _ ports.BookRepository = (*BookRepository)(nil)

// BookRepository persists books using GORM. Deletes are soft.
type BookRepository struct {
	db *gorm.DB
}

// NewBookRepository wires a GORM-backed repository. Caller manages DB lifecycle.
func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{db: db}
}

type bookRecord struct {
	ID              string          `gorm:"primaryKey;column:id;type:varchar(36)"`
	Title           string          `gorm:"column:title;size:255"`
	Writer          string          `gorm:"column:writer;size:255"`
	Publisher       string          `gorm:"column:publisher;size:255"`
	PublicationYear int             `gorm:"column:publication_year"`
	Description     *string         `gorm:"column:description;type:text"`
	Price           decimal.Decimal `gorm:"column:price;type:decimal(12,2)"`
	StockQuantity   int             `gorm:"column:stock_quantity"`
	GenreID         string          `gorm:"column:genre_id;type:varchar(36);index"`
	CreatedAt       time.Time       `gorm:"column:created_at;index"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}

func (bookRecord) TableName() string { return "books" }

func (r *BookRepository) Create(ctx context.Context, book *domain.Book) (*ports.BookProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if book == nil {
		return nil, errors.New("book is nil")
	}
	record := toBookRecord(book)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, translateBookError(err)
	}
	return record.toProjection(book.GenreName), nil
}

// GetByID loads an active book together with its genre name.
func (r *BookRepository) GetByID(ctx context.Context, id string) (*ports.BookProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record bookRecord
	if err := r.db.WithContext(ctx).Take(&record, "id = ?", id).Error; err != nil {
		return nil, translateBookError(err)
	}
	names, err := r.genreNames(ctx, []string{record.GenreID})
	if err != nil {
		return nil, err
	}
	return record.toProjection(names[record.GenreID]), nil
}

// TitleTaken reports whether an active book already uses title, ignoring case.
func (r *BookRepository) TitleTaken(ctx context.Context, title string) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&bookRecord{}).
		Where("LOWER(title) = LOWER(?)", strings.TrimSpace(title)).
		Count(&count).Error
	return count > 0, err
}

// Update writes the patched columns of an active book and nothing else.
func (r *BookRepository) Update(ctx context.Context, id string, patch domain.Patch) (*ports.BookProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	columns := map[string]any{"updated_at": time.Now().UTC()}
	if patch.Description != nil {
		columns["description"] = *patch.Description
	}
	if patch.Price != nil {
		columns["price"] = *patch.Price
	}
	if patch.StockQuantity != nil {
		columns["stock_quantity"] = *patch.StockQuantity
	}
	result := r.db.WithContext(ctx).Model(&bookRecord{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return nil, translateBookError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrBookNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *BookRepository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&bookRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrBookNotFound
	}
	return nil
}

// List returns one page of active books matching filter, newest first.
func (r *BookRepository) List(ctx context.Context, filter ports.BookFilter) (projection.Page[*ports.BookProjection], error) {
	page := projection.Page[*ports.BookProjection]{Page: filter.Page, Limit: filter.Limit}
	if err := r.ensureDB(); err != nil {
		return page, err
	}
	query := applyBookFilter(r.db.WithContext(ctx).Model(&bookRecord{}), filter).Session(&gorm.Session{})

	if err := query.Count(&page.Total).Error; err != nil {
		return page, err
	}
	var records []bookRecord
	err := query.
		Order("created_at DESC").
		Order("id ASC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&records).Error
	if err != nil {
		return page, err
	}

	genreIDs := make([]string, 0, len(records))
	for i := range records {
		genreIDs = append(genreIDs, records[i].GenreID)
	}
	names, err := r.genreNames(ctx, genreIDs)
	if err != nil {
		return page, err
	}
	page.Items = make([]*ports.BookProjection, 0, len(records))
	for i := range records {
		page.Items = append(page.Items, records[i].toProjection(names[records[i].GenreID]))
	}
	return page, nil
}

func applyBookFilter(query *gorm.DB, filter ports.BookFilter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		query = query.Where(
			`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(writer) LIKE ? ESCAPE '\' OR LOWER(publisher) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern,
		)
	}
	if filter.GenreID != "" {
		query = query.Where("genre_id = ?", filter.GenreID)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	return query
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// genreNames resolves names for genre ids, soft-deleted genres included.
func (r *BookRepository) genreNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var records []genreRecord
	if err := r.db.WithContext(ctx).Unscoped().Where("id IN ?", ids).Find(&records).Error; err != nil {
		return nil, err
	}
	for _, rec := range records {
		names[rec.ID] = rec.Name
	}
	return names, nil
}

func (r *BookRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("book repository not configured")
	}
	return nil
}

func translateBookError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ports.ErrBookNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ports.ErrDuplicateBook
	default:
		return err
	}
}

func toBookRecord(book *domain.Book) bookRecord {
	return bookRecord{
		ID:              book.ID,
		Title:           book.Title,
		Writer:          book.Writer,
		Publisher:       book.Publisher,
		PublicationYear: book.PublicationYear,
		Description:     book.Description,
		Price:           book.Price,
		StockQuantity:   book.StockQuantity,
		GenreID:         book.GenreID,
	}
}

func (r bookRecord) toProjection(genreName string) *ports.BookProjection {
	book := &domain.Book{
		ID:              r.ID,
		Title:           r.Title,
		Writer:          r.Writer,
		Publisher:       r.Publisher,
		PublicationYear: r.PublicationYear,
		Description:     r.Description,
		Price:           r.Price,
		StockQuantity:   r.StockQuantity,
		GenreID:         r.GenreID,
		GenreName:       genreName,
	}
	return projection.New(book, r.CreatedAt, r.UpdatedAt)
}
