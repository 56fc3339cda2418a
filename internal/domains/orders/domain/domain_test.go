package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func level(id, title, price string, qty int) StockLevel {
	return StockLevel{BookID: id, Title: title, Price: decimal.RequireFromString(price), Quantity: qty}
}

func TestPlan_BuildsItemsInInputOrder(t *testing.T) {
	stock := []StockLevel{level("b2", "Refactoring", "30", 4), level("b1", "Clean Code", "45.50", 10)}

	items, err := Plan([]Line{{BookID: "b1", Quantity: 2}, {BookID: "b2", Quantity: 1}}, stock)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "b1", items[0].BookID)
	assert.Equal(t, 0, items[0].Position)
	assert.Equal(t, "Refactoring", items[1].BookTitle)

	order := &Order{ID: "o1", Items: items}
	receipt := order.Receipt()
	assert.Equal(t, 3, receipt.TotalQuantity)
	assert.True(t, decimal.RequireFromString("121").Equal(receipt.TotalPrice), receipt.TotalPrice.String())
}

func TestPlan_DuplicateLinesShareRemainingStock(t *testing.T) {
	stock := []StockLevel{level("b1", "Clean Code", "10", 5)}

	_, err := Plan([]Line{{BookID: "b1", Quantity: 3}, {BookID: "b1", Quantity: 3}}, stock)
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, "Not enough stock for book: Clean Code.", err.Error())

	items, err := Plan([]Line{{BookID: "b1", Quantity: 3}, {BookID: "b1", Quantity: 2}}, stock)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestPlan_FirstFailingLineWins(t *testing.T) {
	stock := []StockLevel{level("b1", "Clean Code", "10", 1)}

	_, err := Plan([]Line{{BookID: "missing", Quantity: 1}, {BookID: "b1", Quantity: 5}}, stock)
	var notFound *BookNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "missing", notFound.BookID)
	assert.Equal(t, "Book with id missing not found.", err.Error())
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestValidateLines(t *testing.T) {
	assert.ErrorIs(t, ValidateLines(nil), ErrEmptyOrder)
	assert.ErrorIs(t, ValidateLines([]Line{{BookID: "b1", Quantity: 0}}), ErrInvalidQuantity)
	assert.ErrorIs(t, ValidateLines([]Line{{BookID: " ", Quantity: 1}}), ErrMissingBookID)
	assert.NoError(t, ValidateLines([]Line{{BookID: "b1", Quantity: 1}}))
}

func TestBookIDs_Distinct(t *testing.T) {
	ids := BookIDs([]Line{{BookID: "b2"}, {BookID: "b1"}, {BookID: "b2"}})
	assert.Equal(t, []string{"b2", "b1"}, ids)
}

func TestSummarize(t *testing.T) {
	genres := []GenreRef{{ID: "g1", Name: "Programming"}, {ID: "g2", Name: "Database"}, {ID: "g3", Name: "Security"}}

	t.Run("no orders", func(t *testing.T) {
		stats := Summarize(0, genres, nil)
		assert.EqualValues(t, 0, stats.TotalTransactions)
		assert.True(t, stats.AverageTransactionAmount.IsZero())
		assert.Equal(t, NoSales, stats.MostBookSalesGenre)
		assert.Equal(t, NoSales, stats.FewestBookSalesGenre)
	})

	t.Run("most and fewest", func(t *testing.T) {
		items := []SoldItem{
			{GenreID: "g1", Quantity: 2, UnitPrice: decimal.NewFromInt(45)},
			{GenreID: "g2", Quantity: 5, UnitPrice: decimal.NewFromInt(10)},
		}
		stats := Summarize(2, genres, items)
		assert.True(t, decimal.NewFromInt(70).Equal(stats.AverageTransactionAmount), stats.AverageTransactionAmount.String())
		assert.Equal(t, "Database", stats.MostBookSalesGenre)
		assert.Equal(t, "Programming", stats.FewestBookSalesGenre)
	})

	t.Run("ties go to the earlier genre", func(t *testing.T) {
		items := []SoldItem{
			{GenreID: "g3", Quantity: 3, UnitPrice: decimal.NewFromInt(1)},
			{GenreID: "g1", Quantity: 3, UnitPrice: decimal.NewFromInt(1)},
		}
		stats := Summarize(1, genres, items)
		assert.Equal(t, "Programming", stats.MostBookSalesGenre)
		assert.Equal(t, "Programming", stats.FewestBookSalesGenre)
	})

	t.Run("average is not rounded", func(t *testing.T) {
		items := []SoldItem{{GenreID: "g1", Quantity: 1, UnitPrice: decimal.NewFromInt(10)}}
		stats := Summarize(3, genres, items)
		assert.True(t, decimal.NewFromInt(10).Div(decimal.NewFromInt(3)).Equal(stats.AverageTransactionAmount), stats.AverageTransactionAmount.String())
		assert.NotEqual(t, "3.33", stats.AverageTransactionAmount.String())
	})
}
