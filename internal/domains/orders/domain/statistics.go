package domain

import "github.com/shopspring/decimal"

// NoSales is reported for the best and worst genre when nothing has been sold.
const NoSales = "N/A"

// GenreRef identifies a genre. Statistics expect genres in creation order.
type GenreRef struct {
	ID   string
	Name string
}

// SoldItem is one historical order line attributed to the genre of its book.
type SoldItem struct {
	GenreID   string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Statistics summarizes all orders ever placed.
type Statistics struct {
	TotalTransactions        int64
	AverageTransactionAmount decimal.Decimal
	MostBookSalesGenre       string
	FewestBookSalesGenre     string
}

// Summarize aggregates sales. The average is revenue over order count, unrounded.
// Only genres with at least one unit sold compete, and on equal quantities the genre
// that comes first in genres wins both titles.
func Summarize(orderCount int64, genres []GenreRef, items []SoldItem) Statistics {
	stats := Statistics{
		TotalTransactions:        orderCount,
		AverageTransactionAmount: decimal.Zero,
		MostBookSalesGenre:       NoSales,
		FewestBookSalesGenre:     NoSales,
	}

	revenue := decimal.Zero
	unitsByGenre := make(map[string]int, len(genres))
	for _, item := range items {
		revenue = revenue.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		unitsByGenre[item.GenreID] += item.Quantity
	}
	if orderCount > 0 {
		stats.AverageTransactionAmount = revenue.Div(decimal.NewFromInt(orderCount))
	}

	maxUnits, minUnits := -1, -1
	for _, genre := range genres {
		units := unitsByGenre[genre.ID]
		if units <= 0 {
			continue
		}
		if units > maxUnits {
			maxUnits = units
			stats.MostBookSalesGenre = genre.Name
		}
		if minUnits < 0 || units < minUnits {
			minUnits = units
			stats.FewestBookSalesGenre = genre.Name
		}
	}
	return stats
}
