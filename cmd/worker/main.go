package main

import (
	"context"
	"log"

	"github.com/Apurer/it-literature-shop/internal/app/api"
)

func main() {
	if err := api.RunWorker(context.Background()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
