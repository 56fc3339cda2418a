package domain

import "github.com/shopspring/decimal"

// StockLevel is a locked snapshot of a book taken inside the placement transaction.
type StockLevel struct {
	BookID   string
	Title    string
	Price    decimal.Decimal
	Quantity int
}

// Plan validates lines against the locked stock in input order and returns the items
// to write. Lines naming the same book draw from one remaining balance, so their sum
// can never exceed the stock that was read.
func Plan(lines []Line, stock []StockLevel) ([]Item, error) {
	if err := ValidateLines(lines); err != nil {
		return nil, err
	}
	byID := make(map[string]StockLevel, len(stock))
	remaining := make(map[string]int, len(stock))
	for _, level := range stock {
		byID[level.BookID] = level
		remaining[level.BookID] = level.Quantity
	}

	items := make([]Item, 0, len(lines))
	for i, line := range lines {
		level, ok := byID[line.BookID]
		if !ok {
			return nil, &BookNotFoundError{BookID: line.BookID}
		}
		if line.Quantity > remaining[line.BookID] {
			return nil, &InsufficientStockError{BookID: level.BookID, Title: level.Title}
		}
		remaining[line.BookID] -= line.Quantity
		items = append(items, Item{
			Position:  i,
			BookID:    level.BookID,
			BookTitle: level.Title,
			Quantity:  line.Quantity,
			UnitPrice: level.Price,
		})
	}
	return items, nil
}
