package bookstoreserver

import (
	"time"

	catalogmapper "github.com/Apurer/it-literature-shop/internal/domains/catalog/adapters/http/mapper"
)

// Envelope wraps every successful response.
type Envelope struct {
	Success    bool                      `json:"success"`
	Message    string                    `json:"message"`
	Data       any                       `json:"data,omitempty"`
	Pagination *catalogmapper.Pagination `json:"pagination,omitempty"`
}

// HealthStatus is returned by the health check.
type HealthStatus struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
}

func ok(message string, data any) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}
