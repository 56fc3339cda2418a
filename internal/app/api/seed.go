package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	catalogpostgres "github.com/Apurer/it-literature-shop/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/it-literature-shop/internal/domains/catalog/application"
	catalogtypes "github.com/Apurer/it-literature-shop/internal/domains/catalog/application/types"
	orderpostgres "github.com/Apurer/it-literature-shop/internal/domains/orders/adapters/persistence/postgres"
	orderapp "github.com/Apurer/it-literature-shop/internal/domains/orders/application"
	ordertypes "github.com/Apurer/it-literature-shop/internal/domains/orders/application/types"
	orderdomain "github.com/Apurer/it-literature-shop/internal/domains/orders/domain"
	userpostgres "github.com/Apurer/it-literature-shop/internal/domains/users/adapters/persistence/postgres"
	"github.com/Apurer/it-literature-shop/internal/domains/users/adapters/security"
	userapp "github.com/Apurer/it-literature-shop/internal/domains/users/application"
	usertypes "github.com/Apurer/it-literature-shop/internal/domains/users/application/types"
	userports "github.com/Apurer/it-literature-shop/internal/domains/users/ports"
	platformobservability "github.com/Apurer/it-literature-shop/internal/platform/observability"
)

// SeedPassword is shared by every demo account.
const SeedPassword = "password123"

type seedUser struct {
	username, email string
}

type seedBook struct {
	title, writer, publisher, description, genre string
	year, stock                                  int
	price                                        string
}

var (
	seedUsers = []seedUser{
		{"admin", "admin@example.com"},
		{"testuser", "testuser@example.com"},
		{"johndoe", "john.doe@example.com"},
	}
	seedGenres = []string{"Programming", "Database", "Web Development", "Networking", "Security"}
	seedBooks  = []seedBook{
		{"Clean Code", "Robert C. Martin", "Prentice Hall", "A Handbook of Agile Software Craftsmanship", "Programming", 2008, 100, "45.99"},
		{"Database System Concepts", "Abraham Silberschatz", "McGraw-Hill", "Comprehensive database fundamentals", "Database", 2019, 50, "89.99"},
		{"JavaScript: The Good Parts", "Douglas Crockford", "O'Reilly Media", "JavaScript essential features", "Web Development", 2008, 75, "29.99"},
		{"Computer Networking: A Top-Down Approach", "James Kurose", "Pearson", "Modern networking fundamentals", "Networking", 2020, 40, "99.99"},
		{"The Art of Computer Programming", "Donald Knuth", "Addison-Wesley", "Fundamental algorithms and data structures", "Programming", 1968, 25, "199.99"},
		{"Introduction to Algorithms", "Thomas H. Cormen", "MIT Press", "Comprehensive algorithms textbook", "Programming", 2009, 60, "89.99"},
		{"Web Security Testing Cookbook", "Paco Hope", "O'Reilly Media", "Practical web security testing", "Security", 2008, 30, "49.99"},
		{"Learning React", "Alex Banks", "O'Reilly Media", "Modern React development", "Web Development", 2020, 80, "39.99"},
		{"PostgreSQL: Up and Running", "Regina Obe", "O'Reilly Media", "PostgreSQL database guide", "Database", 2017, 55, "44.99"},
		{"Node.js Design Patterns", "Mario Casciaro", "Packt Publishing", "Advanced Node.js patterns", "Web Development", 2020, 45, "54.99"},
	}
	// seedOrders reference seedUsers and seedBooks by index.
	seedOrders = []struct {
		user  int
		books []int
	}{
		{user: 0, books: []int{0, 2}},
		{user: 1, books: []int{1}},
	}
)

// RunSeed loads the demo catalog, accounts and orders into the configured database.
func RunSeed(ctx context.Context) error {
	cfg, err := LoadSeedConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, telemetryOptions("it-literature-shop-seed", cfg.TelemetryConfig))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer flushTelemetry(instruments, shutdown)

	db, closeDB, err := OpenDatabase(ctx, cfg.DatabaseConfig, instruments.Logger)
	if err != nil {
		return err
	}
	defer closeDB()
	return Seed(ctx, db, cfg.BcryptCost, instruments.Logger)
}

// Seed is a no-op when the catalog already has genres.
func Seed(ctx context.Context, db *gorm.DB, bcryptCost int, logger *slog.Logger) error {
	catalog := catalogapp.NewService(catalogpostgres.NewGenreRepository(db), catalogpostgres.NewBookRepository(db))
	existing, err := catalog.ListGenres(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Info("catalog already seeded, skipping", slog.Int("genres", len(existing)))
		return nil
	}

	// Registration never issues tokens, so no issuer is needed here.
	users := userapp.NewService(userpostgres.NewRepository(db), security.NewBcryptHasher(bcryptCost), nil)
	userIDs := make([]string, 0, len(seedUsers))
	for _, u := range seedUsers {
		created, err := users.Register(ctx, usertypes.RegisterInput{Username: u.username, Email: u.email, Password: SeedPassword})
		if errors.Is(err, userports.ErrDuplicateEmail) || errors.Is(err, userports.ErrDuplicateUsername) {
			logger.Info("user exists, skipping", slog.String("email", u.email))
			userIDs = append(userIDs, "")
			continue
		}
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.username, err)
		}
		userIDs = append(userIDs, created.Entity.ID)
		logger.Info("created user", slog.String("username", u.username), slog.String("email", u.email))
	}

	genreIDs := make(map[string]string, len(seedGenres))
	for _, name := range seedGenres {
		genre, err := catalog.CreateGenre(ctx, name)
		if err != nil {
			return fmt.Errorf("seed genre %s: %w", name, err)
		}
		genreIDs[name] = genre.Entity.ID
		logger.Info("created genre", slog.String("name", name))
	}

	bookIDs := make([]string, 0, len(seedBooks))
	for _, b := range seedBooks {
		description := b.description
		book, err := catalog.CreateBook(ctx, catalogtypes.CreateBookInput{
			Title:           b.title,
			Writer:          b.writer,
			Publisher:       b.publisher,
			PublicationYear: b.year,
			Description:     &description,
			Price:           decimal.RequireFromString(b.price),
			StockQuantity:   b.stock,
			GenreID:         genreIDs[b.genre],
		})
		if err != nil {
			return fmt.Errorf("seed book %s: %w", b.title, err)
		}
		bookIDs = append(bookIDs, book.Entity.ID)
		logger.Info("created book", slog.String("title", b.title))
	}

	orders := orderapp.NewService(orderpostgres.NewStore(db))
	for i, o := range seedOrders {
		if userIDs[o.user] == "" {
			continue
		}
		lines := make([]orderdomain.Line, 0, len(o.books))
		for _, idx := range o.books {
			lines = append(lines, orderdomain.Line{BookID: bookIDs[idx], Quantity: 1})
		}
		receipt, err := orders.PlaceOrder(ctx, ordertypes.PlaceOrderInput{
			UserID:         userIDs[o.user],
			Lines:          lines,
			IdempotencyKey: fmt.Sprintf("seed-order-%d", i+1),
		})
		if err != nil {
			return fmt.Errorf("seed order %d: %w", i+1, err)
		}
		logger.Info("created order", slog.String("id", receipt.OrderID), slog.String("total", receipt.TotalPrice.StringFixed(2)))
	}
	return nil
}
