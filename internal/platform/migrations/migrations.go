package migrations

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. It is safe to call on every start.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := db.AutoMigrate(
		&userRecord{},
		&genreRecord{},
		&bookRecord{},
		&orderRecord{},
		&orderItemRecord{},
		&idempotencyRecord{},
	); err != nil {
		return err
	}
	for _, stmt := range activeNameIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// Names are unique case-insensitively among rows that are not soft-deleted.
// Both PostgreSQL and SQLite accept partial expression indexes in this form.
var activeNameIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_genres_name_active ON genres (LOWER(name)) WHERE deleted_at IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_books_title_active ON books (LOWER(title)) WHERE deleted_at IS NULL`,
}

// User schema mirrors the users persistence adapter.
type userRecord struct {
	ID           string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	Username     string    `gorm:"column:username;size:100;uniqueIndex"`
	Email        string    `gorm:"column:email;size:255;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;size:255"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Genre schema mirrors the catalog persistence adapter.
type genreRecord struct {
	ID        string         `gorm:"primaryKey;column:id;type:varchar(36)"`
	Name      string         `gorm:"column:name;size:255"`
	CreatedAt time.Time      `gorm:"column:created_at;index"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (genreRecord) TableName() string { return "genres" }

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

// Order schema mirrors the orders persistence adapter.
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
