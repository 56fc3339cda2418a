package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/it-literature-shop/internal/domains/orders/domain"
	"github.com/Apurer/it-literature-shop/internal/domains/orders/ports"
	"github.com/Apurer/it-literature-shop/internal/shared/projection"
)

var (
	_ ports.Store   = (*Store)(nil)
	_ ports.TxStore = (*txStore)(nil)
)

// Store persists orders using GORM. Caller manages DB lifecycle.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

type orderRecord struct {
	ID        string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	UserID    string    `gorm:"column:user_id;type:varchar(36);index"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID        string          `gorm:"primaryKey;column:id;type:varchar(36)"`
	OrderID   string          `gorm:"column:order_id;type:varchar(36);index"`
	Position  int             `gorm:"column:position"`
	BookID    string          `gorm:"column:book_id;type:varchar(36);index"`
	Quantity  int             `gorm:"column:quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:decimal(12,2)"`
	CreatedAt time.Time       `gorm:"column:created_at"`
}

func (orderItemRecord) TableName() string { return "order_items" }

type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	UserID      string    `gorm:"column:user_id;type:varchar(36)"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     string    `gorm:"column:order_id;type:varchar(36)"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (idempotencyRecord) TableName() string { return "order_idempotency_keys" }

// bookRow is the slice of the books table that order placement reads and writes.
type bookRow struct {
	ID            string          `gorm:"primaryKey;column:id"`
	Title         string          `gorm:"column:title"`
	Price         decimal.Decimal `gorm:"column:price"`
	StockQuantity int             `gorm:"column:stock_quantity"`
	GenreID       string          `gorm:"column:genre_id"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"column:deleted_at"`
}

func (bookRow) TableName() string { return "books" }

type genreRow struct {
	ID        string    `gorm:"primaryKey;column:id"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (genreRow) TableName() string { return "genres" }

// InTx runs fn in a database transaction.
func (s *Store) InTx(ctx context.Context, fn func(tx ports.TxStore) error) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txStore{db: tx})
	})
}

func (s *Store) GetOrder(ctx context.Context, id string) (*ports.OrderProjection, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	return getOrder(s.db.WithContext(ctx), id)
}

func (s *Store) ListOrders(ctx context.Context) ([]*ports.OrderProjection, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	var records []orderRecord
	if err := db.Order("created_at DESC").Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []*ports.OrderProjection{}, nil
	}
	ids := make([]string, 0, len(records))
	for i := range records {
		ids = append(ids, records[i].ID)
	}
	itemsByOrder, err := loadItems(db, ids)
	if err != nil {
		return nil, err
	}
	orders := make([]*ports.OrderProjection, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toProjection(itemsByOrder[records[i].ID]))
	}
	return orders, nil
}

func (s *Store) CountOrders(ctx context.Context) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&orderRecord{}).Count(&count).Error
	return count, err
}

func (s *Store) SalesLedger(ctx context.Context) ([]domain.GenreRef, []domain.SoldItem, error) {
	if err := s.ensureDB(); err != nil {
		return nil, nil, err
	}
	db := s.db.WithContext(ctx)

	var genres []genreRow
	if err := db.Unscoped().Order("created_at ASC").Order("id ASC").Find(&genres).Error; err != nil {
		return nil, nil, err
	}
	var rows []struct {
		GenreID   string
		Quantity  int
		UnitPrice decimal.Decimal
	}
	err := db.Table("order_items").
		Select("books.genre_id AS genre_id, order_items.quantity AS quantity, order_items.unit_price AS unit_price").
		Joins("JOIN books ON books.id = order_items.book_id").
		Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	refs := make([]domain.GenreRef, 0, len(genres))
	for _, g := range genres {
		refs = append(refs, domain.GenreRef{ID: g.ID, Name: g.Name})
	}
	sold := make([]domain.SoldItem, 0, len(rows))
	for _, row := range rows {
		sold = append(sold, domain.SoldItem{GenreID: row.GenreID, Quantity: row.Quantity, UnitPrice: row.UnitPrice})
	}
	return refs, sold, nil
}

func (s *Store) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("order store not configured")
	}
	return nil
}

type txStore struct {
	db *gorm.DB
}

// LockBooks takes FOR UPDATE locks in id order so concurrent placements touching the
// same books queue instead of deadlocking. SQLite drops the locking clause.
func (t *txStore) LockBooks(ctx context.Context, ids []string) ([]domain.StockLevel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []bookRow
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	levels := make([]domain.StockLevel, 0, len(rows))
	for _, row := range rows {
		levels = append(levels, domain.StockLevel{
			BookID:   row.ID,
			Title:    row.Title,
			Price:    row.Price,
			Quantity: row.StockQuantity,
		})
	}
	return levels, nil
}

func (t *txStore) CreateOrder(ctx context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	db := t.db.WithContext(ctx)
	record := orderRecord{ID: order.ID, UserID: order.UserID}
	if err := db.Create(&record).Error; err != nil {
		return err
	}
	order.CreatedAt = record.CreatedAt
	if len(order.Items) == 0 {
		return nil
	}
	items := make([]orderItemRecord, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemRecord{
			ID:        item.ID,
			OrderID:   order.ID,
			Position:  item.Position,
			BookID:    item.BookID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return db.Create(&items).Error
}

func (t *txStore) DecrementStock(ctx context.Context, bookID string, quantity int) (bool, error) {
	result := t.db.WithContext(ctx).Model(&bookRow{}).
		Where("id = ? AND stock_quantity >= ?", bookID, quantity).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (t *txStore) GetOrder(ctx context.Context, id string) (*ports.OrderProjection, error) {
	return getOrder(t.db.WithContext(ctx), id)
}

func (t *txStore) GetIdempotency(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	var record idempotencyRecord
	keyMatches := clause.Eq{Column: clause.Column{Name: "key"}, Value: key}
	if err := t.db.WithContext(ctx).Take(&record, keyMatches).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ports.IdempotencyRecord{
		Key:         record.Key,
		UserID:      record.UserID,
		RequestHash: record.RequestHash,
		OrderID:     record.OrderID,
		CreatedAt:   record.CreatedAt,
	}, nil
}

func (t *txStore) SaveIdempotency(ctx context.Context, record ports.IdempotencyRecord) error {
	err := t.db.WithContext(ctx).Create(&idempotencyRecord{
		Key:         record.Key,
		UserID:      record.UserID,
		RequestHash: record.RequestHash,
		OrderID:     record.OrderID,
	}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ports.ErrIdempotencyKeyTaken
	}
	return err
}

func getOrder(db *gorm.DB, id string) (*ports.OrderProjection, error) {
	var record orderRecord
	if err := db.Take(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	items, err := loadItems(db, []string{record.ID})
	if err != nil {
		return nil, err
	}
	return record.toProjection(items[record.ID]), nil
}

// loadItems returns items grouped by order id, in placement order, with book titles
// resolved from soft-deleted books too.
func loadItems(db *gorm.DB, orderIDs []string) (map[string][]domain.Item, error) {
	var records []orderItemRecord
	err := db.Where("order_id IN ?", orderIDs).
		Order("order_id ASC").
		Order("position ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	bookIDs := make([]string, 0, len(records))
	for i := range records {
		bookIDs = append(bookIDs, records[i].BookID)
	}
	titles := make(map[string]string, len(bookIDs))
	if len(bookIDs) > 0 {
		var books []bookRow
		if err := db.Unscoped().Select("id", "title").Where("id IN ?", bookIDs).Find(&books).Error; err != nil {
			return nil, err
		}
		for _, b := range books {
			titles[b.ID] = b.Title
		}
	}

	grouped := make(map[string][]domain.Item, len(orderIDs))
	for _, rec := range records {
		grouped[rec.OrderID] = append(grouped[rec.OrderID], domain.Item{
			ID:        rec.ID,
			Position:  rec.Position,
			BookID:    rec.BookID,
			BookTitle: titles[rec.BookID],
			Quantity:  rec.Quantity,
			UnitPrice: rec.UnitPrice,
		})
	}
	return grouped, nil
}

func (r orderRecord) toProjection(items []domain.Item) *ports.OrderProjection {
	if items == nil {
		items = []domain.Item{}
	}
	order := &domain.Order{ID: r.ID, UserID: r.UserID, Items: items, CreatedAt: r.CreatedAt}
	return projection.New(order, r.CreatedAt, r.UpdatedAt)
}
