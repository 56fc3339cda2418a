package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/Apurer/it-literature-shop/internal/domains/orders/domain"
)

type normalizedLine struct {
	BookID   string `json:"b"`
	Quantity int    `json:"q"`
}

// FingerprintLines hashes the requested lines in order. The idempotency key itself is
// not part of the hash.
func FingerprintLines(lines []domain.Line) (string, error) {
	normalized := make([]normalizedLine, 0, len(lines))
	for _, line := range lines {
		normalized = append(normalized, normalizedLine{BookID: strings.TrimSpace(line.BookID), Quantity: line.Quantity})
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
